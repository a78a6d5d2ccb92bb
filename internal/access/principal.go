// Package access decides what an authenticated principal may see and change.
//
// Role policy, most to least privileged:
//   - admin, hr: see and mutate every employee and team
//   - manager: sees only themself and their direct reports, may update only direct reports
//   - employee: sees the whole directory with salaries redacted except their own
//
// Every read and write path in the services goes through this package so the
// policy lives in one place.
package access

import (
	"errors"

	"github.com/seth-walker/HRIS/internal/models"
)

// ErrForbidden is returned when the principal's role does not allow the operation.
var ErrForbidden = errors.New("access denied")

// Principal is the authenticated actor behind a request.
type Principal struct {
	UserID     string
	Email      string
	Role       models.RoleName
	EmployeeID *string
}

// IsPrivileged reports whether the principal is admin or hr.
func (p Principal) IsPrivileged() bool {
	return p.Role == models.RoleAdmin || p.Role == models.RoleHR
}

// Owns reports whether the employee record is the principal's own.
func (p Principal) Owns(e models.Employee) bool {
	return p.EmployeeID != nil && *p.EmployeeID == e.ID
}

// Manages reports whether e reports directly to the principal's employee.
func (p Principal) Manages(e models.Employee) bool {
	return p.EmployeeID != nil && e.ManagerID != nil && *e.ManagerID == *p.EmployeeID
}

// System is the principal used by maintenance commands.
func System() Principal {
	return Principal{Role: models.RoleAdmin}
}
