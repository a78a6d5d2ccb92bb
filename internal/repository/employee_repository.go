package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seth-walker/HRIS/internal/models"
)

// EmployeeSortColumns maps accepted sort_by values to columns.
var EmployeeSortColumns = map[string]string{
	"last_name":  "last_name",
	"first_name": "first_name",
	"title":      "title",
	"department": "department",
	"hire_date":  "hire_date",
	"status":     "status",
	"created_at": "created_at",
}

// GormEmployeeRepository is a GORM implementation of EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// Create creates a new employee
func (r *GormEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(employee).Error
}

// FindByID finds an employee by ID with optional preloading
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id string, preload ...string) (*models.Employee, error) {
	var employee models.Employee
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&employee).Error; err != nil {
		return nil, err
	}

	return &employee, nil
}

// FindByEmail finds an employee by email address
func (r *GormEmployeeRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// List retrieves employees matching the filter in the requested order
func (r *GormEmployeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{})

	if filter.Department != nil {
		query = query.Where("employees.department = ?", *filter.Department)
	}
	if filter.Status != nil {
		query = query.Where("employees.status = ?", *filter.Status)
	}
	if filter.Title != nil {
		query = query.Where("LOWER(employees.title) LIKE ?", likePattern(*filter.Title))
	}
	if filter.TeamID != nil {
		query = query.Where("employees.team_id = ?", *filter.TeamID)
	}
	if filter.ManagerID != nil {
		query = query.Where("employees.manager_id = ?", *filter.ManagerID)
	}
	if filter.Search != nil {
		pattern := likePattern(*filter.Search)
		query = query.Where(
			"LOWER(employees.first_name) LIKE ? OR LOWER(employees.last_name) LIKE ? OR LOWER(employees.email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	column, ok := EmployeeSortColumns[filter.SortBy]
	if !ok {
		column = "last_name"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query = query.Order("employees." + column + " " + direction).Order("employees.id ASC")

	var employees []models.Employee
	if err := query.Preload("Manager").Preload("Team").Find(&employees).Error; err != nil {
		return nil, err
	}

	return employees, nil
}

// ListAllOrdered returns every employee sorted by last name, then first name
func (r *GormEmployeeRepository) ListAllOrdered(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Order("last_name ASC").
		Order("first_name ASC").
		Order("id ASC").
		Find(&employees).Error
	return employees, err
}

// ListDirectReports returns employees whose manager is managerID
func (r *GormEmployeeRepository) ListDirectReports(ctx context.Context, managerID string) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Preload("Team").
		Where("manager_id = ?", managerID).
		Order("last_name ASC").
		Order("first_name ASC").
		Find(&employees).Error
	return employees, err
}

// ManagerOf returns the manager id of an employee
func (r *GormEmployeeRepository) ManagerOf(ctx context.Context, id string) (*string, bool, error) {
	var row struct {
		ManagerID *string
	}
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Select("manager_id").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row.ManagerID, true, nil
}

// Update applies column changes to an employee
func (r *GormEmployeeRepository) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an employee. Direct reports become roots, teams they lead
// lose their lead, and their memberships go with them.
func (r *GormEmployeeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Employee{}).
			Where("manager_id = ?", id).
			Update("manager_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Team{}).
			Where("lead_id = ?", id).
			Update("lead_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("employee_id = ?", id).Delete(&models.EmployeeTeamMembership{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Employee{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ExistsByID reports whether an employee exists
func (r *GormEmployeeRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
