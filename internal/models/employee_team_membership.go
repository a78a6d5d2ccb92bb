package models

import (
	"time"

	"gorm.io/gorm"
)

// EmployeeTeamMembership is the many-to-many join between employees and teams.
// A pair may appear at most once.
type EmployeeTeamMembership struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	EmployeeID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_membership_employee_team" json:"employee_id"`
	TeamID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_membership_employee_team;index" json:"team_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Team     Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

func (m *EmployeeTeamMembership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = newID()
	}
	return nil
}
