package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EmploymentStatus string

const (
	StatusActive     EmploymentStatus = "active"
	StatusOnLeave    EmploymentStatus = "on_leave"
	StatusTerminated EmploymentStatus = "terminated"
)

// Valid reports whether s is one of the closed set of employment statuses.
func (s EmploymentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusOnLeave, StatusTerminated:
		return true
	}
	return false
}

type Employee struct {
	ID         string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	FirstName  string           `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string           `gorm:"type:varchar(100);not null;index" json:"last_name"`
	Title      string           `gorm:"type:varchar(200);not null" json:"title"`
	Department *string          `gorm:"type:varchar(200);index" json:"department"`
	Email      *string          `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone      *string          `gorm:"type:varchar(50)" json:"phone"`
	ManagerID  *string          `gorm:"type:varchar(36);index" json:"manager_id"`
	TeamID     *string          `gorm:"type:varchar(36);index" json:"team_id"`
	HireDate   time.Time        `gorm:"type:date;not null" json:"hire_date"`
	Salary     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"salary,omitempty"`
	Status     EmploymentStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	UserID     *string          `gorm:"type:varchar(36);uniqueIndex" json:"user_id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	// Relations
	Manager       *Employee                `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	DirectReports []Employee               `gorm:"foreignKey:ManagerID" json:"direct_reports,omitempty"`
	Team          *Team                    `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	TeamsLed      []Team                   `gorm:"foreignKey:LeadID" json:"-"`
	Memberships   []EmployeeTeamMembership `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	return nil
}

// FullName joins first and last name the way the org chart displays it.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
