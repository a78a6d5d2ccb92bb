package access

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seth-walker/HRIS/internal/models"
)

func strPtr(s string) *string { return &s }

func salary(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// boss manages alice and bob; carol reports to someone else; dave is a root.
func directory() []models.Employee {
	return []models.Employee{
		{ID: "boss", FirstName: "Bo", LastName: "Boss", ManagerID: strPtr("dave"), Salary: salary(200000)},
		{ID: "alice", FirstName: "Alice", LastName: "Adams", ManagerID: strPtr("boss"), Salary: salary(100000)},
		{ID: "bob", FirstName: "Bob", LastName: "Brown", ManagerID: strPtr("boss"), Salary: salary(90000)},
		{ID: "carol", FirstName: "Carol", LastName: "Clark", ManagerID: strPtr("dave"), Salary: salary(95000)},
		{ID: "dave", FirstName: "Dave", LastName: "Davis", Salary: salary(300000)},
	}
}

func ids(employees []models.Employee) []string {
	out := make([]string, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterEmployeeList_PrivilegedSeeEverything(t *testing.T) {
	for _, role := range []models.RoleName{models.RoleAdmin, models.RoleHR} {
		visible := FilterEmployeeList(Principal{Role: role}, directory())

		assert.Len(t, visible, 5, role)
		for _, e := range visible {
			assert.NotNil(t, e.Salary, "%s should see salary of %s", role, e.ID)
		}
	}
}

func TestFilterEmployeeList_ManagerSeesSelfAndDirectReports(t *testing.T) {
	manager := Principal{Role: models.RoleManager, EmployeeID: strPtr("boss")}

	visible := FilterEmployeeList(manager, directory())

	assert.Equal(t, []string{"boss", "alice", "bob"}, ids(visible))
	for _, e := range visible {
		if e.ID == "boss" {
			assert.NotNil(t, e.Salary)
			continue
		}
		assert.Nil(t, e.Salary, "manager must not see salary of %s", e.ID)
	}
}

func TestFilterEmployeeList_ManagerWithoutEmployeeSeesNothing(t *testing.T) {
	visible := FilterEmployeeList(Principal{Role: models.RoleManager}, directory())
	assert.Empty(t, visible)
}

func TestFilterEmployeeList_EmployeeSalaryRedaction(t *testing.T) {
	employee := Principal{Role: models.RoleEmployee, EmployeeID: strPtr("carol")}
	source := directory()

	visible := FilterEmployeeList(employee, source)

	require.Len(t, visible, len(source))
	for _, e := range visible {
		if e.ID == "carol" {
			assert.True(t, e.Salary.Equal(decimal.NewFromInt(95000)))
			continue
		}
		assert.Nil(t, e.Salary, "salary of %s leaked", e.ID)
	}
	assert.NotNil(t, source[0].Salary, "redaction must not mutate the input")
}

func TestFilterEmployeeDetail(t *testing.T) {
	dir := directory()
	manager := Principal{Role: models.RoleManager, EmployeeID: strPtr("boss")}

	got, err := FilterEmployeeDetail(manager, dir[1])
	require.NoError(t, err)
	assert.Equal(t, "alice", got.ID)
	assert.Nil(t, got.Salary)

	_, err = FilterEmployeeDetail(manager, dir[3])
	assert.ErrorIs(t, err, ErrForbidden)

	emp := Principal{Role: models.RoleEmployee, EmployeeID: strPtr("alice")}
	withManager := dir[1]
	withManager.Manager = &dir[0]
	got, err = FilterEmployeeDetail(emp, withManager)
	require.NoError(t, err)
	assert.NotNil(t, got.Salary)
	require.NotNil(t, got.Manager)
	assert.Nil(t, got.Manager.Salary)
}

func TestCanUpdateEmployee(t *testing.T) {
	dir := directory()
	manager := Principal{Role: models.RoleManager, EmployeeID: strPtr("boss")}

	assert.NoError(t, CanUpdateEmployee(manager, dir[1]))
	assert.ErrorIs(t, CanUpdateEmployee(manager, dir[0]), ErrForbidden, "managers cannot update themselves")
	assert.ErrorIs(t, CanUpdateEmployee(manager, dir[3]), ErrForbidden)
	assert.NoError(t, CanUpdateEmployee(Principal{Role: models.RoleHR}, dir[4]))
	assert.ErrorIs(t, CanUpdateEmployee(Principal{Role: models.RoleEmployee, EmployeeID: strPtr("alice")}, dir[1]), ErrForbidden)
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		role    models.RoleName
		action  Action
		allowed bool
	}{
		{models.RoleAdmin, ActionDeleteEmployee, true},
		{models.RoleHR, ActionImportEmployees, true},
		{models.RoleManager, ActionCreateEmployee, false},
		{models.RoleManager, ActionViewDirectReports, true},
		{models.RoleEmployee, ActionViewDirectReports, false},
		{models.RoleEmployee, ActionManageTeams, false},
		{models.RoleHR, ActionViewAuditLogs, true},
		{models.RoleHR, ActionManageUsers, false},
		{models.RoleAdmin, ActionManageUsers, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			err := Authorize(Principal{Role: tt.role}, tt.action)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestCanWriteSalary(t *testing.T) {
	assert.True(t, CanWriteSalary(Principal{Role: models.RoleAdmin}))
	assert.True(t, CanWriteSalary(Principal{Role: models.RoleHR}))
	assert.False(t, CanWriteSalary(Principal{Role: models.RoleManager}))
}

func TestCanReassignManager(t *testing.T) {
	manager := Principal{Role: models.RoleManager, EmployeeID: strPtr("boss")}
	alice := directory()[1]

	assert.NoError(t, CanReassignManager(manager, alice, strPtr("boss")))
	assert.ErrorIs(t, CanReassignManager(manager, alice, strPtr("carol")), ErrForbidden)
	assert.ErrorIs(t, CanReassignManager(manager, alice, nil), ErrForbidden)

	for _, role := range []models.RoleName{models.RoleAdmin, models.RoleHR} {
		assert.NoError(t, CanReassignManager(Principal{Role: role}, alice, strPtr("carol")), role)
		assert.NoError(t, CanReassignManager(Principal{Role: role}, alice, nil), role)
	}
}
