package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/models"
)

// ErrAlreadyLinked is returned when an employee is already linked to a user.
var ErrAlreadyLinked = errors.New("employee is already linked to a user")

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(user).Error
}

// CreateLinked creates a user and claims the employee for it. The claim only
// succeeds while the employee has no user.
func (r *GormUserRepository) CreateLinked(ctx context.Context, user *models.User, employeeID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Employee").Create(user).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Employee{}).
			Where("id = ? AND user_id IS NULL", employeeID).
			Update("user_id", user.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyLinked
		}
		return nil
	})
}

// List returns every user with the linked employee
func (r *GormUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Preload("Employee").Order("email ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies column changes to a user
func (r *GormUserRepository) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Employee").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// LinkedEmployeeID returns the id of the employee linked to the user, if any
func (r *GormUserRepository) LinkedEmployeeID(ctx context.Context, userID string) (*string, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Select("id").Where("user_id = ?", userID).Take(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee.ID, nil
}
