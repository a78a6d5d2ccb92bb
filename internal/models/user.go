package models

import (
	"time"

	"gorm.io/gorm"
)

type RoleName string

const (
	RoleAdmin    RoleName = "admin"
	RoleHR       RoleName = "hr"
	RoleManager  RoleName = "manager"
	RoleEmployee RoleName = "employee"
)

// Roles lists every role, most privileged first.
func Roles() []RoleName {
	return []RoleName{RoleAdmin, RoleHR, RoleManager, RoleEmployee}
}

// Valid reports whether r is one of the closed set of roles.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         RoleName  `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Employee *Employee `gorm:"foreignKey:UserID" json:"employee,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = newID()
	}
	return nil
}
