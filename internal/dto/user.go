package dto

import (
	"time"

	"github.com/seth-walker/HRIS/internal/models"
)

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the body of POST /api/users
type CreateUserRequest struct {
	Email      string          `json:"email" binding:"required,email"`
	Password   string          `json:"password" binding:"required"`
	Role       models.RoleName `json:"role"`
	EmployeeID *string         `json:"employee_id"`
}

// UpdateUserRoleRequest is the body of PUT /api/users/:id/role
type UpdateUserRoleRequest struct {
	Role models.RoleName `json:"role" binding:"required"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         string              `json:"id"`
	Email      string              `json:"email"`
	Role       models.RoleName     `json:"role"`
	IsActive   bool                `json:"is_active"`
	EmployeeID *string             `json:"employee_id"`
	Employee   *EmployeeSummaryDTO `json:"employee,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}

	// Include linked employee if preloaded
	if user.Employee != nil {
		employee := ToEmployeeSummaryDTO(*user.Employee)
		dto.Employee = &employee
		dto.EmployeeID = &user.Employee.ID
	}

	return dto
}

// ToUserDTOs converts a slice of User models to DTOs
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
