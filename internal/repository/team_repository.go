package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seth-walker/HRIS/internal/hierarchy"
	"github.com/seth-walker/HRIS/internal/models"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(team).Error
}

// FindByID finds a team by ID with optional preloading
func (r *GormTeamRepository) FindByID(ctx context.Context, id string, preload ...string) (*models.Team, error) {
	var team models.Team
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&team).Error; err != nil {
		return nil, err
	}

	return &team, nil
}

// List retrieves teams ordered by name
func (r *GormTeamRepository) List(ctx context.Context, filter TeamFilter) ([]models.Team, error) {
	query := r.db.WithContext(ctx).Model(&models.Team{})

	if filter.Search != nil {
		pattern := likePattern(*filter.Search)
		query = query.Where("LOWER(teams.name) LIKE ? OR LOWER(teams.description) LIKE ?", pattern, pattern)
	}

	var teams []models.Team
	err := query.
		Preload("Lead").
		Preload("ParentTeam").
		Preload("SubTeams", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("teams.name ASC").
		Order("teams.id ASC").
		Find(&teams).Error
	return teams, err
}

// ListAllOrdered returns every team sorted by name with its lead loaded
func (r *GormTeamRepository) ListAllOrdered(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).
		Preload("Lead").
		Order("name ASC").
		Order("id ASC").
		Find(&teams).Error
	return teams, err
}

// MemberCounts returns the number of memberships per team id
func (r *GormTeamRepository) MemberCounts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		TeamID string
		Count  int
	}
	err := r.db.WithContext(ctx).
		Model(&models.EmployeeTeamMembership{}).
		Select("team_id, COUNT(*) AS count").
		Group("team_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.TeamID] = row.Count
	}
	return counts, nil
}

// ParentOf returns the parent team id
func (r *GormTeamRepository) ParentOf(ctx context.Context, id string) (*string, bool, error) {
	return parentTeamOf(r.db.WithContext(ctx), id)
}

// Update applies column changes to a team
func (r *GormTeamRepository) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Team{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteReparenting removes a team after moving its sub-teams to its parent.
// Both steps commit together.
func (r *GormTeamRepository) DeleteReparenting(ctx context.Context, id string) (hierarchy.ReparentResult, error) {
	var result hierarchy.ReparentResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = hierarchy.OnTeamDelete(ctx, gormTeamForest{tx: tx}, id)
		return err
	})
	if errors.Is(err, hierarchy.ErrNodeNotFound) {
		return hierarchy.ReparentResult{}, gorm.ErrRecordNotFound
	}
	return result, err
}

// AddMember creates a membership
func (r *GormTeamRepository) AddMember(ctx context.Context, member *models.EmployeeTeamMembership) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error
}

// RemoveMember deletes a membership
func (r *GormTeamRepository) RemoveMember(ctx context.Context, teamID, employeeID string) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND employee_id = ?", teamID, employeeID).
		Delete(&models.EmployeeTeamMembership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindMember finds a specific membership
func (r *GormTeamRepository) FindMember(ctx context.Context, teamID, employeeID string) (*models.EmployeeTeamMembership, error) {
	var member models.EmployeeTeamMembership
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND employee_id = ?", teamID, employeeID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists the employees who are members of a team
func (r *GormTeamRepository) ListMembers(ctx context.Context, teamID string) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Joins("JOIN employee_team_memberships m ON m.employee_id = employees.id").
		Where("m.team_id = ?", teamID).
		Order("employees.last_name ASC").
		Order("employees.first_name ASC").
		Find(&employees).Error
	return employees, err
}

func parentTeamOf(db *gorm.DB, id string) (*string, bool, error) {
	var row struct {
		ParentTeamID *string
	}
	err := db.Model(&models.Team{}).
		Select("parent_team_id").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row.ParentTeamID, true, nil
}

// gormTeamForest exposes a transaction to the reparenting engine.
type gormTeamForest struct {
	tx *gorm.DB
}

func (f gormTeamForest) Parent(_ context.Context, teamID string) (*string, bool, error) {
	return parentTeamOf(f.tx, teamID)
}

func (f gormTeamForest) Children(_ context.Context, teamID string) ([]string, error) {
	var ids []string
	err := f.tx.Model(&models.Team{}).
		Where("parent_team_id = ?", teamID).
		Order("name ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (f gormTeamForest) Reparent(_ context.Context, ids []string, newParent *string) error {
	return f.tx.Model(&models.Team{}).
		Where("id IN ?", ids).
		Update("parent_team_id", newParent).Error
}

// Remove deletes the team, its memberships and primary-team references.
func (f gormTeamForest) Remove(_ context.Context, teamID string) error {
	if err := f.tx.Where("team_id = ?", teamID).Delete(&models.EmployeeTeamMembership{}).Error; err != nil {
		return err
	}

	if err := f.tx.Model(&models.Employee{}).
		Where("team_id = ?", teamID).
		Update("team_id", nil).Error; err != nil {
		return err
	}

	return f.tx.Where("id = ?", teamID).Delete(&models.Team{}).Error
}
