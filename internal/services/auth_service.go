package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/access"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/repository"
)

var (
	ErrEmailTaken           = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserInactive         = errors.New("user is inactive")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo     repository.UserRepository
	employeeRepo repository.EmployeeRepository
	audit        *AuditService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, employeeRepo repository.EmployeeRepository, audit *AuditService) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		audit:        audit,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    user.ID,
		Action:     models.AuditLogin,
		EntityType: models.EntityUser,
		EntityID:   stringRef(user.ID),
	})

	return user, nil
}

// Logout records the end of a session.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	s.audit.Record(ctx, AuditEntry{
		ActorID:    userID,
		Action:     models.AuditLogout,
		EntityType: models.EntityUser,
		EntityID:   stringRef(userID),
	})
}

// GetUser retrieves a user by ID with the linked employee.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// Principal resolves the session user into the actor used for access checks.
func (s *AuthService) Principal(ctx context.Context, userID string) (access.Principal, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.Principal{}, ErrUserNotFound
		}
		return access.Principal{}, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return access.Principal{}, ErrUserInactive
	}

	employeeID, err := s.userRepo.LinkedEmployeeID(ctx, user.ID)
	if err != nil {
		return access.Principal{}, fmt.Errorf("failed to find linked employee: %w", err)
	}

	return access.Principal{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		EmployeeID: employeeID,
	}, nil
}

// SystemActor returns the principal for a user by email, for command line
// tools that act on behalf of an account.
func (s *AuthService) SystemActor(ctx context.Context, email string) (access.Principal, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.Principal{}, ErrUserNotFound
		}
		return access.Principal{}, fmt.Errorf("failed to find user: %w", err)
	}
	return s.Principal(ctx, user.ID)
}
