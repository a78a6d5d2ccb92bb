package access

import (
	"fmt"

	"github.com/seth-walker/HRIS/internal/models"
)

// Action is a coarse operation gated purely by role.
type Action string

const (
	ActionCreateEmployee    Action = "employee:create"
	ActionUpdateEmployee    Action = "employee:update"
	ActionDeleteEmployee    Action = "employee:delete"
	ActionImportEmployees   Action = "employee:import"
	ActionViewDirectReports Action = "employee:direct-reports"
	ActionManageTeams       Action = "team:manage"
	ActionManageTeamMembers Action = "team:members"
	ActionViewAuditLogs     Action = "audit:read"
	ActionViewUsers         Action = "user:read"
	ActionManageUsers       Action = "user:manage"
)

var privileged = []models.RoleName{models.RoleAdmin, models.RoleHR}

var rolesByAction = map[Action][]models.RoleName{
	ActionCreateEmployee:    privileged,
	ActionUpdateEmployee:    {models.RoleAdmin, models.RoleHR, models.RoleManager},
	ActionDeleteEmployee:    privileged,
	ActionImportEmployees:   privileged,
	ActionViewDirectReports: {models.RoleAdmin, models.RoleHR, models.RoleManager},
	ActionManageTeams:       privileged,
	ActionManageTeamMembers: privileged,
	ActionViewAuditLogs:     privileged,
	ActionViewUsers:         privileged,
	ActionManageUsers:       {models.RoleAdmin},
}

// Authorize returns ErrForbidden unless the principal's role may perform action.
func Authorize(p Principal, action Action) error {
	for _, role := range rolesByAction[action] {
		if p.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%s requires one of %v: %w", action, rolesByAction[action], ErrForbidden)
}

// CanUpdateEmployee checks a write against a specific employee. Managers may
// only update their direct reports, not themselves.
func CanUpdateEmployee(p Principal, target models.Employee) error {
	if err := Authorize(p, ActionUpdateEmployee); err != nil {
		return err
	}
	if p.Role == models.RoleManager && !p.Manages(target) {
		return fmt.Errorf("employee %s is not a direct report: %w", target.ID, ErrForbidden)
	}
	return nil
}

// CanWriteSalary reports whether salary changes from p are persisted. Manager
// salary edits are dropped, not rejected.
func CanWriteSalary(p Principal) bool {
	return p.IsPrivileged()
}

// CanReassignManager checks a change of target's manager edge to managerID.
// Managers may not move a report out of their own span or clear its manager.
func CanReassignManager(p Principal, target models.Employee, managerID *string) error {
	if p.Role != models.RoleManager {
		return nil
	}
	if p.EmployeeID != nil && managerID != nil && *managerID == *p.EmployeeID {
		return nil
	}
	return fmt.Errorf("employee %s would leave the manager's reports: %w", target.ID, ErrForbidden)
}
