package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/services"
)

// CreateEmployeeRequest is the body of POST /api/employees
type CreateEmployeeRequest struct {
	FirstName  string                  `json:"first_name" binding:"required"`
	LastName   string                  `json:"last_name" binding:"required"`
	Title      string                  `json:"title" binding:"required"`
	Department *string                 `json:"department"`
	Email      *string                 `json:"email" binding:"omitempty,email"`
	Phone      *string                 `json:"phone"`
	ManagerID  *string                 `json:"manager_id"`
	TeamID     *string                 `json:"team_id"`
	HireDate   Date                    `json:"hire_date"`
	Salary     *decimal.Decimal        `json:"salary"`
	Status     models.EmploymentStatus `json:"status"`
}

// ToInput converts the request to service input
func (r CreateEmployeeRequest) ToInput() services.CreateEmployeeInput {
	return services.CreateEmployeeInput{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Title:      r.Title,
		Department: r.Department,
		Email:      r.Email,
		Phone:      r.Phone,
		ManagerID:  r.ManagerID,
		TeamID:     r.TeamID,
		HireDate:   r.HireDate.Time,
		Salary:     r.Salary,
		Status:     r.Status,
	}
}

// ImportEmployeeRow is one bulk import row. Rows are matched on email, so
// nothing is required at decode time; the service reports per-row failures.
type ImportEmployeeRow struct {
	FirstName  string                  `json:"first_name"`
	LastName   string                  `json:"last_name"`
	Title      string                  `json:"title"`
	Department *string                 `json:"department"`
	Email      *string                 `json:"email"`
	Phone      *string                 `json:"phone"`
	ManagerID  *string                 `json:"manager_id"`
	TeamID     *string                 `json:"team_id"`
	HireDate   *Date                   `json:"hire_date"`
	Salary     *decimal.Decimal        `json:"salary"`
	Status     models.EmploymentStatus `json:"status"`
}

// BulkImportRequest is the body of POST /api/employees/bulk-import
type BulkImportRequest struct {
	Employees []ImportEmployeeRow `json:"employees" binding:"required"`
}

// ToInput converts the import rows to service input, preserving order.
func (r BulkImportRequest) ToInput() []services.CreateEmployeeInput {
	rows := make([]services.CreateEmployeeInput, len(r.Employees))
	for i, row := range r.Employees {
		rows[i] = services.CreateEmployeeInput{
			FirstName:  row.FirstName,
			LastName:   row.LastName,
			Title:      row.Title,
			Department: row.Department,
			Email:      row.Email,
			Phone:      row.Phone,
			ManagerID:  row.ManagerID,
			TeamID:     row.TeamID,
			Salary:     row.Salary,
			Status:     row.Status,
		}
		if row.HireDate != nil {
			rows[i].HireDate = row.HireDate.Time
		}
	}
	return rows
}

// UpdateEmployeeRequest is the body of PUT /api/employees/:id. Absent
// fields are left alone; explicit nulls clear nullable fields.
type UpdateEmployeeRequest struct {
	FirstName  *string                            `json:"first_name"`
	LastName   *string                            `json:"last_name"`
	Title      *string                            `json:"title"`
	Department services.Nullable[string]          `json:"department"`
	Email      services.Nullable[string]          `json:"email"`
	Phone      services.Nullable[string]          `json:"phone"`
	ManagerID  services.Nullable[string]          `json:"manager_id"`
	TeamID     services.Nullable[string]          `json:"team_id"`
	HireDate   *Date                              `json:"hire_date"`
	Salary     services.Nullable[decimal.Decimal] `json:"salary"`
	Status     *models.EmploymentStatus           `json:"status"`
}

// ToInput converts the request to service input
func (r UpdateEmployeeRequest) ToInput() services.UpdateEmployeeInput {
	input := services.UpdateEmployeeInput{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Title:      r.Title,
		Department: r.Department,
		Email:      r.Email,
		Phone:      r.Phone,
		ManagerID:  r.ManagerID,
		TeamID:     r.TeamID,
		Salary:     r.Salary,
		Status:     r.Status,
	}
	if r.HireDate != nil {
		input.HireDate = &r.HireDate.Time
	}
	return input
}

// ListEmployeesQuery holds the query string filters of GET /api/employees
type ListEmployeesQuery struct {
	Department string `form:"department"`
	Status     string `form:"status"`
	Title      string `form:"title"`
	Search     string `form:"search"`
	TeamID     string `form:"team_id"`
	ManagerID  string `form:"manager_id"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
}

// ToInput converts the query to service input
func (q ListEmployeesQuery) ToInput() services.ListEmployeesInput {
	input := services.ListEmployeesInput{
		Department: optionalString(q.Department),
		Title:      optionalString(q.Title),
		Search:     optionalString(q.Search),
		TeamID:     optionalString(q.TeamID),
		ManagerID:  optionalString(q.ManagerID),
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
	}
	if q.Status != "" {
		status := models.EmploymentStatus(q.Status)
		input.Status = &status
	}
	return input
}

// EmployeeSummaryDTO is the compact form used for related employees
type EmployeeSummaryDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Title     string `json:"title"`
}

// EmployeeDTO represents an employee in API responses
type EmployeeDTO struct {
	ID            string                  `json:"id"`
	FirstName     string                  `json:"first_name"`
	LastName      string                  `json:"last_name"`
	Title         string                  `json:"title"`
	Department    *string                 `json:"department"`
	Email         *string                 `json:"email"`
	Phone         *string                 `json:"phone"`
	ManagerID     *string                 `json:"manager_id"`
	TeamID        *string                 `json:"team_id"`
	HireDate      Date                    `json:"hire_date"`
	Salary        *decimal.Decimal        `json:"salary,omitempty"`
	Status        models.EmploymentStatus `json:"status"`
	UserID        *string                 `json:"user_id"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	Manager       *EmployeeSummaryDTO     `json:"manager,omitempty"`
	Team          *TeamSummaryDTO         `json:"team,omitempty"`
	DirectReports []EmployeeSummaryDTO    `json:"direct_reports,omitempty"`
}

// ToEmployeeSummaryDTO converts an Employee model to EmployeeSummaryDTO
func ToEmployeeSummaryDTO(e models.Employee) EmployeeSummaryDTO {
	return EmployeeSummaryDTO{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Title:     e.Title,
	}
}

// ToEmployeeDTO converts an Employee model to EmployeeDTO. The model is
// expected to be redacted for the caller already.
func ToEmployeeDTO(e models.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Title:      e.Title,
		Department: e.Department,
		Email:      e.Email,
		Phone:      e.Phone,
		ManagerID:  e.ManagerID,
		TeamID:     e.TeamID,
		HireDate:   NewDate(e.HireDate),
		Salary:     e.Salary,
		Status:     e.Status,
		UserID:     e.UserID,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}

	// Include manager if preloaded
	if e.Manager != nil {
		manager := ToEmployeeSummaryDTO(*e.Manager)
		dto.Manager = &manager
	}

	// Include team if preloaded
	if e.Team != nil {
		team := ToTeamSummaryDTO(*e.Team)
		dto.Team = &team
	}

	if len(e.DirectReports) > 0 {
		dto.DirectReports = make([]EmployeeSummaryDTO, len(e.DirectReports))
		for i, report := range e.DirectReports {
			dto.DirectReports[i] = ToEmployeeSummaryDTO(report)
		}
	}

	return dto
}

// ToEmployeeDTOs converts a slice of employees
func ToEmployeeDTOs(employees []models.Employee) []EmployeeDTO {
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = ToEmployeeDTO(e)
	}
	return dtos
}
