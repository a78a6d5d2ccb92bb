package access

import (
	"fmt"

	"github.com/seth-walker/HRIS/internal/models"
)

// CanSeeEmployee reports whether the row is visible to p at all.
func CanSeeEmployee(p Principal, e models.Employee) bool {
	switch p.Role {
	case models.RoleAdmin, models.RoleHR, models.RoleEmployee:
		return true
	case models.RoleManager:
		return p.Owns(e) || p.Manages(e)
	default:
		return false
	}
}

// CanSeeSalary reports whether the salary field of e is visible to p.
func CanSeeSalary(p Principal, e models.Employee) bool {
	return p.IsPrivileged() || p.Owns(e)
}

// Redact clears the fields of e that p may not see. The stored row is untouched.
func Redact(p Principal, e models.Employee) models.Employee {
	if !CanSeeSalary(p, e) {
		e.Salary = nil
	}
	if e.Manager != nil {
		m := Redact(p, *e.Manager)
		e.Manager = &m
	}
	if len(e.DirectReports) > 0 {
		reports := make([]models.Employee, len(e.DirectReports))
		for i, r := range e.DirectReports {
			reports[i] = Redact(p, r)
		}
		e.DirectReports = reports
	}
	return e
}

// FilterEmployeeList drops rows p may not see and redacts the rest.
func FilterEmployeeList(p Principal, candidates []models.Employee) []models.Employee {
	visible := make([]models.Employee, 0, len(candidates))
	for _, e := range candidates {
		if CanSeeEmployee(p, e) {
			visible = append(visible, Redact(p, e))
		}
	}
	return visible
}

// FilterEmployeeDetail returns the redacted employee, or ErrForbidden when the
// row is outside p's view.
func FilterEmployeeDetail(p Principal, candidate models.Employee) (models.Employee, error) {
	if !CanSeeEmployee(p, candidate) {
		return models.Employee{}, fmt.Errorf("employee %s: %w", candidate.ID, ErrForbidden)
	}
	return Redact(p, candidate), nil
}
