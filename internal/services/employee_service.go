package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/access"
	"github.com/seth-walker/HRIS/internal/hierarchy"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/repository"
)

const entityEmployee = "employee"

// Relations loaded for the employee detail view.
var employeeDetailPreloads = []string{"Manager", "Team", "DirectReports", "TeamsLed"}

// EmployeeService handles employee business logic. It is the only writer of
// manager edges, and every write goes through the manager-chain validator.
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
	teamRepo     repository.TeamRepository
	audit        *AuditService
	managers     *hierarchy.Validator
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(employeeRepo repository.EmployeeRepository, teamRepo repository.TeamRepository, audit *AuditService) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		teamRepo:     teamRepo,
		audit:        audit,
		managers:     hierarchy.NewValidator(hierarchy.LookupFunc(employeeRepo.ManagerOf), hierarchy.RelationManager),
	}
}

// ListEmployeesInput represents filters for listing employees
type ListEmployeesInput struct {
	Department *string
	Status     *models.EmploymentStatus
	Title      *string
	Search     *string
	TeamID     *string
	ManagerID  *string
	SortBy     string
	SortOrder  string
}

// CreateEmployeeInput represents input for creating or importing an employee
type CreateEmployeeInput struct {
	FirstName  string                  `json:"first_name"`
	LastName   string                  `json:"last_name"`
	Title      string                  `json:"title"`
	Department *string                 `json:"department"`
	Email      *string                 `json:"email"`
	Phone      *string                 `json:"phone"`
	ManagerID  *string                 `json:"manager_id"`
	TeamID     *string                 `json:"team_id"`
	HireDate   time.Time               `json:"hire_date"`
	Salary     *decimal.Decimal        `json:"salary"`
	Status     models.EmploymentStatus `json:"status"`
	UserID     *string                 `json:"user_id"`
}

// UpdateEmployeeInput represents input for updating an employee. Nullable
// fields left unset are not touched.
type UpdateEmployeeInput struct {
	FirstName  *string
	LastName   *string
	Title      *string
	Department Nullable[string]
	Email      Nullable[string]
	Phone      Nullable[string]
	ManagerID  Nullable[string]
	TeamID     Nullable[string]
	HireDate   *time.Time
	Salary     Nullable[decimal.Decimal]
	Status     *models.EmploymentStatus
	UserID     Nullable[string]
}

// ImportError describes one rejected bulk-import row.
type ImportError struct {
	Index int     `json:"index"`
	Email *string `json:"email,omitempty"`
	Error string  `json:"error"`
}

// BulkImportResult summarises a bulk import.
type BulkImportResult struct {
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Success int           `json:"success"`
	Errors  []ImportError `json:"errors"`
}

// ListEmployees returns the employees visible to the actor.
func (s *EmployeeService) ListEmployees(ctx context.Context, actor access.Principal, input ListEmployeesInput) ([]models.Employee, error) {
	filter := repository.EmployeeFilter{
		Department: input.Department,
		Status:     input.Status,
		Title:      input.Title,
		Search:     input.Search,
		TeamID:     input.TeamID,
		ManagerID:  input.ManagerID,
		SortBy:     input.SortBy,
	}

	if filter.SortBy == "" {
		filter.SortBy = "last_name"
	}
	if _, ok := repository.EmployeeSortColumns[filter.SortBy]; !ok {
		return nil, validationError("unsupported sort_by %q", input.SortBy)
	}
	switch strings.ToLower(input.SortOrder) {
	case "", "asc":
	case "desc":
		filter.SortDesc = true
	default:
		return nil, validationError("sort_order must be asc or desc")
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, validationError("unknown status %q", *input.Status)
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return access.FilterEmployeeList(actor, employees), nil
}

// GetEmployee returns one employee with its relations, redacted for the actor.
func (s *EmployeeService) GetEmployee(ctx context.Context, actor access.Principal, id string) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id, employeeDetailPreloads...)
	if err != nil {
		return nil, lookupError(err, entityEmployee, id)
	}

	visible, err := access.FilterEmployeeDetail(actor, *employee)
	if err != nil {
		return nil, err
	}
	return &visible, nil
}

// CreateEmployee validates and persists a new employee.
func (s *EmployeeService) CreateEmployee(ctx context.Context, actor access.Principal, input CreateEmployeeInput) (*models.Employee, error) {
	if err := access.Authorize(actor, access.ActionCreateEmployee); err != nil {
		return nil, err
	}

	employee, err := s.create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    actor.UserID,
		Action:     models.AuditCreate,
		EntityType: models.EntityEmployee,
		EntityID:   stringRef(employee.ID),
		Changes:    map[string]interface{}{"data": input},
	})

	return s.GetEmployee(ctx, actor, employee.ID)
}

// UpdateEmployee applies a partial update. Manager salary edits are dropped,
// and unchanged manager ids are not revalidated.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, actor access.Principal, id string, input UpdateEmployeeInput) (*models.Employee, error) {
	if err := access.Authorize(actor, access.ActionUpdateEmployee); err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityEmployee, id)
	}

	if err := access.CanUpdateEmployee(actor, *employee); err != nil {
		return nil, err
	}
	if !access.CanWriteSalary(actor) {
		input.Salary = Nullable[decimal.Decimal]{}
	}
	if managerID := normalizeID(input.ManagerID); managerID.Set && !sameString(employee.ManagerID, managerID.Value) {
		if err := access.CanReassignManager(actor, *employee, managerID.Value); err != nil {
			return nil, err
		}
	}

	changes, previous, err := s.updateChanges(ctx, employee, input)
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := s.employeeRepo.Update(ctx, id, changes); err != nil {
			return nil, writeError(err, "update employee", "email or user is already linked to another employee")
		}

		s.audit.Record(ctx, AuditEntry{
			ActorID:    actor.UserID,
			Action:     models.AuditUpdate,
			EntityType: models.EntityEmployee,
			EntityID:   stringRef(id),
			Changes:    map[string]interface{}{"old": previous, "new": changes},
		})
	}

	return s.GetEmployee(ctx, actor, id)
}

// DeleteEmployee removes an employee. Their direct reports become roots.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, actor access.Principal, id string) error {
	if err := access.Authorize(actor, access.ActionDeleteEmployee); err != nil {
		return err
	}

	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, entityEmployee, id)
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(entityEmployee, id)
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    actor.UserID,
		Action:     models.AuditDelete,
		EntityType: models.EntityEmployee,
		EntityID:   stringRef(id),
		Changes:    map[string]interface{}{"deleted_employee": employee},
	})

	return nil
}

// GetDirectReports lists the employees reporting to managerID that the actor may see.
func (s *EmployeeService) GetDirectReports(ctx context.Context, actor access.Principal, managerID string) ([]models.Employee, error) {
	if err := access.Authorize(actor, access.ActionViewDirectReports); err != nil {
		return nil, err
	}

	exists, err := s.employeeRepo.ExistsByID(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	if !exists {
		return nil, notFound(entityEmployee, managerID)
	}

	reports, err := s.employeeRepo.ListDirectReports(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct reports: %w", err)
	}

	return access.FilterEmployeeList(actor, reports), nil
}

// GetOrgChart builds the manager forest from the current employee snapshot.
func (s *EmployeeService) GetOrgChart(ctx context.Context) ([]hierarchy.OrgChartNode, error) {
	employees, err := s.employeeRepo.ListAllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	people := make([]hierarchy.Person, len(employees))
	for i, e := range employees {
		people[i] = hierarchy.Person{
			ID:         e.ID,
			FirstName:  e.FirstName,
			LastName:   e.LastName,
			Title:      e.Title,
			Department: e.Department,
			TeamID:     e.TeamID,
			ManagerID:  e.ManagerID,
		}
	}

	return hierarchy.BuildOrgChart(people)
}

// BulkImport creates or updates employees matched by email, one row at a
// time. A failing row is reported and the batch continues.
func (s *EmployeeService) BulkImport(ctx context.Context, actor access.Principal, rows []CreateEmployeeInput) (*BulkImportResult, error) {
	if err := access.Authorize(actor, access.ActionImportEmployees); err != nil {
		return nil, err
	}

	result := &BulkImportResult{Errors: []ImportError{}}
	for i, row := range rows {
		created, err := s.importRow(ctx, row)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Index: i, Email: row.Email, Error: err.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	result.Success = result.Created + result.Updated

	s.audit.Record(ctx, AuditEntry{
		ActorID:    actor.UserID,
		Action:     models.AuditImport,
		EntityType: models.EntityEmployee,
		Changes:    map[string]interface{}{"summary": result},
	})

	return result, nil
}

func (s *EmployeeService) importRow(ctx context.Context, row CreateEmployeeInput) (bool, error) {
	if row.Email != nil && *row.Email != "" {
		existing, err := s.employeeRepo.FindByEmail(ctx, *row.Email)
		if err == nil {
			changes, _, err := s.updateChanges(ctx, existing, row.asUpdate())
			if err != nil {
				return false, err
			}
			if err := s.employeeRepo.Update(ctx, existing.ID, changes); err != nil {
				return false, writeError(err, "update employee", "user is already linked to another employee")
			}
			return false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("failed to find employee by email: %w", err)
		}
	}

	if _, err := s.create(ctx, row); err != nil {
		return false, err
	}
	return true, nil
}

func (s *EmployeeService) create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Title = strings.TrimSpace(input.Title)

	switch {
	case input.FirstName == "":
		return nil, validationError("first_name is required")
	case input.LastName == "":
		return nil, validationError("last_name is required")
	case input.Title == "":
		return nil, validationError("title is required")
	case input.HireDate.IsZero():
		return nil, validationError("hire_date is required")
	}
	if input.Status == "" {
		input.Status = models.StatusActive
	}
	if !input.Status.Valid() {
		return nil, validationError("unknown status %q", input.Status)
	}

	managerID := normalizeID(Nullable[string]{Set: true, Value: input.ManagerID}).Value
	if err := s.managers.Validate(ctx, hierarchy.NewNodeID, managerID); err != nil {
		return nil, err
	}
	teamID := normalizeID(Nullable[string]{Set: true, Value: input.TeamID}).Value
	if err := s.ensureTeam(ctx, teamID); err != nil {
		return nil, err
	}

	employee := &models.Employee{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Title:      input.Title,
		Department: input.Department,
		Email:      input.Email,
		Phone:      input.Phone,
		ManagerID:  managerID,
		TeamID:     teamID,
		HireDate:   input.HireDate,
		Salary:     input.Salary,
		Status:     input.Status,
		UserID:     input.UserID,
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, writeError(err, "create employee", "email or user is already linked to another employee")
	}
	return employee, nil
}

// updateChanges diffs input against the stored employee and returns only the
// columns that actually change, plus their previous values.
func (s *EmployeeService) updateChanges(ctx context.Context, employee *models.Employee, input UpdateEmployeeInput) (map[string]interface{}, map[string]interface{}, error) {
	changes := map[string]interface{}{}
	previous := map[string]interface{}{}

	setString := func(column string, current string, next *string) error {
		if next == nil {
			return nil
		}
		value := strings.TrimSpace(*next)
		if value == "" {
			return validationError("%s cannot be empty", column)
		}
		if value != current {
			changes[column] = value
			previous[column] = current
		}
		return nil
	}
	setNullable := func(column string, current *string, next Nullable[string]) {
		if next.Set && !sameString(current, next.Value) {
			changes[column] = next.Value
			previous[column] = current
		}
	}

	if err := setString("first_name", employee.FirstName, input.FirstName); err != nil {
		return nil, nil, err
	}
	if err := setString("last_name", employee.LastName, input.LastName); err != nil {
		return nil, nil, err
	}
	if err := setString("title", employee.Title, input.Title); err != nil {
		return nil, nil, err
	}
	setNullable("department", employee.Department, input.Department)
	setNullable("email", employee.Email, input.Email)
	setNullable("phone", employee.Phone, input.Phone)
	setNullable("user_id", employee.UserID, normalizeID(input.UserID))

	managerID := normalizeID(input.ManagerID)
	if managerID.Set && !sameString(employee.ManagerID, managerID.Value) {
		if err := s.managers.Validate(ctx, employee.ID, managerID.Value); err != nil {
			return nil, nil, err
		}
		setNullable("manager_id", employee.ManagerID, managerID)
	}

	teamID := normalizeID(input.TeamID)
	if teamID.Set && !sameString(employee.TeamID, teamID.Value) {
		if err := s.ensureTeam(ctx, teamID.Value); err != nil {
			return nil, nil, err
		}
		setNullable("team_id", employee.TeamID, teamID)
	}

	if input.HireDate != nil && !input.HireDate.Equal(employee.HireDate) {
		changes["hire_date"] = *input.HireDate
		previous["hire_date"] = employee.HireDate
	}
	if input.Status != nil && *input.Status != employee.Status {
		if !input.Status.Valid() {
			return nil, nil, validationError("unknown status %q", *input.Status)
		}
		changes["status"] = *input.Status
		previous["status"] = employee.Status
	}
	if input.Salary.Set && !sameDecimal(employee.Salary, input.Salary.Value) {
		changes["salary"] = input.Salary.Value
		previous["salary"] = employee.Salary
	}

	return changes, previous, nil
}

func (s *EmployeeService) ensureTeam(ctx context.Context, teamID *string) error {
	if teamID == nil {
		return nil
	}
	if _, found, err := s.teamRepo.ParentOf(ctx, *teamID); err != nil {
		return fmt.Errorf("failed to find team: %w", err)
	} else if !found {
		return notFound(entityTeam, *teamID)
	}
	return nil
}

// asUpdate turns an import row into an update that overwrites every field
// the row provides.
func (in CreateEmployeeInput) asUpdate() UpdateEmployeeInput {
	update := UpdateEmployeeInput{
		Department: presentOnly(in.Department),
		Phone:      presentOnly(in.Phone),
		ManagerID:  presentOnly(in.ManagerID),
		TeamID:     presentOnly(in.TeamID),
		UserID:     presentOnly(in.UserID),
	}
	if in.FirstName != "" {
		update.FirstName = &in.FirstName
	}
	if in.LastName != "" {
		update.LastName = &in.LastName
	}
	if in.Title != "" {
		update.Title = &in.Title
	}
	if !in.HireDate.IsZero() {
		update.HireDate = &in.HireDate
	}
	if in.Status != "" {
		update.Status = &in.Status
	}
	if in.Salary != nil {
		update.Salary = Nullable[decimal.Decimal]{Set: true, Value: in.Salary}
	}
	return update
}

func presentOnly(v *string) Nullable[string] {
	if v == nil {
		return Nullable[string]{}
	}
	return Nullable[string]{Set: true, Value: v}
}

func sameDecimal(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
