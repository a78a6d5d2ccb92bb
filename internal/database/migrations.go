package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// Composite indexes that struct tags cannot express well. They back the
// default employee sort, direct-report lookups and audit log browsing.
var indexes = []index{
	{"employees", "idx_employees_name_sort", "last_name, first_name"},
	{"employees", "idx_employees_manager_sort", "manager_id, last_name"},
	{"employees", "idx_employees_status", "status"},
	{"teams", "idx_teams_parent_name", "parent_team_id, name"},
	{"audit_logs", "idx_audit_logs_user_created", "user_id, created_at"},
	{"audit_logs", "idx_audit_logs_entity_created", "entity_type, entity_id, created_at"},
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	for _, idx := range indexes {
		exists, err := indexExists(db, idx)
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}
		if exists {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns),
		)
	}

	return nil
}

func indexExists(db *gorm.DB, idx index) (bool, error) {
	if db.Dialector.Name() != "postgres" {
		return db.Migrator().HasIndex(idx.table, idx.name), nil
	}

	var count int64
	err := db.Raw(`
		SELECT COUNT(*)
		FROM pg_indexes
		WHERE tablename = ? AND indexname = ?
	`, idx.table, idx.name).Count(&count).Error
	return count > 0, err
}

// MigrateDatabase runs table migrations and then adds the composite indexes.
func MigrateDatabase(db *gorm.DB, log *zap.Logger) error {
	if err := Migrate(db, log); err != nil {
		return err
	}

	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
