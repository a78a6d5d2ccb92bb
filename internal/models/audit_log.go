package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditCreate       AuditAction = "create"
	AuditUpdate       AuditAction = "update"
	AuditDelete       AuditAction = "delete"
	AuditImport       AuditAction = "import"
	AuditExport       AuditAction = "export"
	AuditLogin        AuditAction = "login"
	AuditLogout       AuditAction = "logout"
	AuditAddMember    AuditAction = "add_member"
	AuditRemoveMember AuditAction = "remove_member"
)

// Entity types recorded in audit logs.
const (
	EntityEmployee = "Employee"
	EntityTeam     = "Team"
	EntityUser     = "User"
)

// AuditLog is append-only; nothing in the application updates or deletes rows.
type AuditLog struct {
	ID         string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     *string        `gorm:"type:varchar(36);index" json:"user_id"`
	Action     AuditAction    `gorm:"type:varchar(20);not null;index" json:"action"`
	EntityType string         `gorm:"type:varchar(50);not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   *string        `gorm:"type:varchar(36);index:idx_audit_entity" json:"entity_id"`
	Changes    datatypes.JSON `json:"changes"`
	IPAddress  string         `gorm:"type:varchar(64)" json:"ip_address"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}
