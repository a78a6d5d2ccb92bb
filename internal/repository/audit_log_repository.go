package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/database"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/utils"
)

// GormAuditLogRepository is a GORM implementation of AuditLogRepository
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Create appends an audit log entry
func (r *GormAuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Omit("User").Create(entry).Error
}

// List retrieves entries matching the filter, newest first
func (r *GormAuditLogRepository) List(ctx context.Context, filter AuditLogFilter) ([]models.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.UserID != nil {
		query = query.Where("audit_logs.user_id = ?", *filter.UserID)
	}
	if filter.EntityType != nil {
		query = query.Where("audit_logs.entity_type = ?", *filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("audit_logs.entity_id = ?", *filter.EntityID)
	}
	if filter.Action != nil {
		query = query.Where("audit_logs.action = ?", *filter.Action)
	}
	query = query.Scopes(database.CreatedBetween("audit_logs.created_at", filter.StartDate, filter.EndDate))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("audit_logs.created_at DESC").Order("audit_logs.id ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	var entries []models.AuditLog
	if err := listQuery.Preload("User").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// ListByEntity returns the history of one entity, newest first
func (r *GormAuditLogRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
