package repository

import (
	"context"
	"time"

	"github.com/seth-walker/HRIS/internal/hierarchy"
	"github.com/seth-walker/HRIS/internal/models"
)

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	// Create creates a new employee
	Create(ctx context.Context, employee *models.Employee) error

	// FindByID finds an employee by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.Employee, error)

	// FindByEmail finds an employee by email address
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)

	// List retrieves employees matching the filter in the requested order
	List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, error)

	// ListAllOrdered returns every employee sorted by last name, then first name
	ListAllOrdered(ctx context.Context) ([]models.Employee, error)

	// ListDirectReports returns employees whose manager is managerID
	ListDirectReports(ctx context.Context, managerID string) ([]models.Employee, error)

	// ManagerOf returns the manager id of an employee. found is false when
	// the employee does not exist.
	ManagerOf(ctx context.Context, id string) (managerID *string, found bool, err error)

	// Update applies column changes to an employee
	Update(ctx context.Context, id string, changes map[string]interface{}) error

	// Delete removes an employee, detaching reports, led teams and memberships
	Delete(ctx context.Context, id string) error

	// ExistsByID reports whether an employee exists
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// EmployeeFilter holds filtering and sorting options for listing employees
type EmployeeFilter struct {
	Department *string
	Status     *models.EmploymentStatus
	Title      *string
	Search     *string
	TeamID     *string
	ManagerID  *string
	SortBy     string
	SortDesc   bool
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create creates a new team
	Create(ctx context.Context, team *models.Team) error

	// FindByID finds a team by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.Team, error)

	// List retrieves teams ordered by name
	List(ctx context.Context, filter TeamFilter) ([]models.Team, error)

	// ListAllOrdered returns every team sorted by name with its lead loaded
	ListAllOrdered(ctx context.Context) ([]models.Team, error)

	// MemberCounts returns the number of memberships per team id
	MemberCounts(ctx context.Context) (map[string]int, error)

	// ParentOf returns the parent team id. found is false when the team does not exist.
	ParentOf(ctx context.Context, id string) (parentID *string, found bool, err error)

	// Update applies column changes to a team
	Update(ctx context.Context, id string, changes map[string]interface{}) error

	// DeleteReparenting removes a team after moving its sub-teams to its parent
	DeleteReparenting(ctx context.Context, id string) (hierarchy.ReparentResult, error)

	// AddMember creates a membership
	AddMember(ctx context.Context, member *models.EmployeeTeamMembership) error

	// RemoveMember deletes a membership
	RemoveMember(ctx context.Context, teamID, employeeID string) error

	// FindMember finds a specific membership
	FindMember(ctx context.Context, teamID, employeeID string) (*models.EmployeeTeamMembership, error)

	// ListMembers lists the employees who are members of a team
	ListMembers(ctx context.Context, teamID string) ([]models.Employee, error)
}

// TeamFilter holds filtering options for listing teams
type TeamFilter struct {
	Search *string
}

// AuditLogRepository defines the interface for audit log data access
type AuditLogRepository interface {
	// Create appends an audit log entry
	Create(ctx context.Context, entry *models.AuditLog) error

	// List retrieves entries matching the filter, newest first
	List(ctx context.Context, filter AuditLogFilter) ([]models.AuditLog, int64, error)

	// ListByEntity returns the history of one entity, newest first
	ListByEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLog, error)
}

// AuditLogFilter holds filtering and pagination options for audit logs
type AuditLogFilter struct {
	UserID     *string
	EntityType *string
	EntityID   *string
	Action     *models.AuditAction
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// CreateLinked creates a user and links it to an employee in one
	// transaction. It returns ErrAlreadyLinked when the employee has a user.
	CreateLinked(ctx context.Context, user *models.User, employeeID string) error

	// List returns every user with the linked employee, ordered by email
	List(ctx context.Context) ([]models.User, error)

	// Update applies column changes to a user
	Update(ctx context.Context, id string, changes map[string]interface{}) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// LinkedEmployeeID returns the id of the employee linked to the user, if any
	LinkedEmployeeID(ctx context.Context, userID string) (*string, error)
}
