package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/access"
	"github.com/seth-walker/HRIS/internal/constants"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/repository"
)

// CreateUserInput represents the required information to create a new user.
type CreateUserInput struct {
	Email      string
	Password   string
	Role       models.RoleName
	EmployeeID *string
}

// CreateUser creates a login and optionally links it to an employee record.
// The user row and the link are written together.
func (s *AuthService) CreateUser(ctx context.Context, actor access.Principal, input CreateUserInput) (*models.User, error) {
	if err := access.Authorize(actor, access.ActionManageUsers); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, validationError("email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Role == "" {
		input.Role = models.RoleEmployee
	}
	if !input.Role.Valid() {
		return nil, validationError("unknown role %q", input.Role)
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if input.EmployeeID != nil {
		employee, err := s.employeeRepo.FindByID(ctx, *input.EmployeeID)
		if err != nil {
			return nil, lookupError(err, entityEmployee, *input.EmployeeID)
		}
		if employee.UserID != nil {
			return nil, fmt.Errorf("%w: employee is already linked to another user", ErrConflict)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		IsActive:     true,
	}
	if input.EmployeeID != nil {
		err = s.userRepo.CreateLinked(ctx, user, *input.EmployeeID)
	} else {
		err = s.userRepo.Create(ctx, user)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyLinked):
			return nil, fmt.Errorf("%w: employee is already linked to another user", ErrConflict)
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    actor.UserID,
		Action:     models.AuditCreate,
		EntityType: models.EntityUser,
		EntityID:   stringRef(user.ID),
		Changes:    map[string]interface{}{"email": user.Email, "role": user.Role, "employee_id": input.EmployeeID},
	})

	return s.GetUser(ctx, user.ID)
}

// ListUsers returns every login with its linked employee.
func (s *AuthService) ListUsers(ctx context.Context, actor access.Principal) ([]models.User, error) {
	if err := access.Authorize(actor, access.ActionViewUsers); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// FindUser returns one login for the user administration views.
func (s *AuthService) FindUser(ctx context.Context, actor access.Principal, id string) (*models.User, error) {
	if err := access.Authorize(actor, access.ActionViewUsers); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// ListRoles returns the assignable roles.
func (s *AuthService) ListRoles(actor access.Principal) ([]models.RoleName, error) {
	if err := access.Authorize(actor, access.ActionManageUsers); err != nil {
		return nil, err
	}
	return models.Roles(), nil
}

// UpdateUserRole changes the role of a user. Admins cannot change their own
// role, so at least one admin always remains.
func (s *AuthService) UpdateUserRole(ctx context.Context, actor access.Principal, id string, role models.RoleName) (*models.User, error) {
	if err := access.Authorize(actor, access.ActionManageUsers); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, validationError("unknown role %q", role)
	}
	if id == actor.UserID {
		return nil, validationError("cannot change your own role")
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	if err := s.userRepo.Update(ctx, id, map[string]interface{}{"role": role}); err != nil {
		return nil, userWriteError(err, id)
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    actor.UserID,
		Action:     models.AuditUpdate,
		EntityType: models.EntityUser,
		EntityID:   stringRef(id),
		Changes:    map[string]interface{}{"old": map[string]interface{}{"role": user.Role}, "new": map[string]interface{}{"role": role}},
	})

	return s.GetUser(ctx, id)
}

// ToggleUserActive flips the active flag of a user. Inactive users cannot log
// in and their sessions are rejected on the next request.
func (s *AuthService) ToggleUserActive(ctx context.Context, actor access.Principal, id string) (*models.User, error) {
	if err := access.Authorize(actor, access.ActionManageUsers); err != nil {
		return nil, err
	}
	if id == actor.UserID {
		return nil, validationError("cannot deactivate your own account")
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	active := !user.IsActive
	if err := s.userRepo.Update(ctx, id, map[string]interface{}{"is_active": active}); err != nil {
		return nil, userWriteError(err, id)
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    actor.UserID,
		Action:     models.AuditUpdate,
		EntityType: models.EntityUser,
		EntityID:   stringRef(id),
		Changes:    map[string]interface{}{"old": map[string]interface{}{"is_active": user.IsActive}, "new": map[string]interface{}{"is_active": active}},
	})

	return s.GetUser(ctx, id)
}

func userWriteError(err error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("failed to update user %s: %w", id, err)
}
