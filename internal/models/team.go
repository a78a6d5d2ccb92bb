package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(200);not null;index" json:"name"`
	Description  *string   `gorm:"type:text" json:"description"`
	LeadID       *string   `gorm:"type:varchar(36);index" json:"lead_id"`
	ParentTeamID *string   `gorm:"type:varchar(36);index" json:"parent_team_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Lead        *Employee                `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	ParentTeam  *Team                    `gorm:"foreignKey:ParentTeamID" json:"parent_team,omitempty"`
	SubTeams    []Team                   `gorm:"foreignKey:ParentTeamID" json:"sub_teams,omitempty"`
	Memberships []EmployeeTeamMembership `gorm:"foreignKey:TeamID" json:"-"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return nil
}
