package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/seth-walker/HRIS/internal/dto"
	apierrors "github.com/seth-walker/HRIS/internal/errors"
	"github.com/seth-walker/HRIS/internal/hierarchy"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/services"
)

// EmployeeHandlerTestSuite drives the employee routes through the full router.
type EmployeeHandlerTestSuite struct {
	suite.Suite
	env apiTestEnv

	ceo      *models.Employee
	manager  *models.Employee
	report   *models.Employee
	outsider *models.Employee

	hrCookies       []*http.Cookie
	managerCookies  []*http.Cookie
	employeeCookies []*http.Cookie
}

func TestEmployeeHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(EmployeeHandlerTestSuite))
}

// SetupTest runs before each test
func (s *EmployeeHandlerTestSuite) SetupTest() {
	t := s.T()
	s.env = setupAPITestEnv(t)

	s.ceo = s.env.createEmployee(t, "Carla", "Chief", nil)
	s.manager = s.env.createEmployee(t, "Mark", "Manager", &s.ceo.ID)
	s.report = s.env.createEmployee(t, "Rosa", "Report", &s.manager.ID)
	s.outsider = s.env.createEmployee(t, "Omar", "Outside", &s.ceo.ID)

	s.env.createUser(t, "hr@example.com", models.RoleHR, nil)
	s.env.createUser(t, "mark@example.com", models.RoleManager, &s.manager.ID)
	s.env.createUser(t, "rosa@example.com", models.RoleEmployee, &s.report.ID)

	s.hrCookies = s.env.login(t, "hr@example.com")
	s.managerCookies = s.env.login(t, "mark@example.com")
	s.employeeCookies = s.env.login(t, "rosa@example.com")
}

func (s *EmployeeHandlerTestSuite) TestListEmployees_RequiresAuth() {
	w := s.env.do(s.T(), http.MethodGet, "/api/employees", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(apierrors.ErrCodeUnauthorized, errorCode(s.T(), w))
}

func (s *EmployeeHandlerTestSuite) TestListEmployees_ManagerSeesOwnReports() {
	w := s.env.do(s.T(), http.MethodGet, "/api/employees", nil, s.managerCookies)
	s.Require().Equal(http.StatusOK, w.Code)

	employees := decode[[]dto.EmployeeDTO](s.T(), w)
	var ids []string
	for _, e := range employees {
		ids = append(ids, e.ID)
		if e.ID == s.report.ID {
			s.Nil(e.Salary, "managers do not see report salaries")
		}
	}
	s.ElementsMatch([]string{s.manager.ID, s.report.ID}, ids)
}

func (s *EmployeeHandlerTestSuite) TestListEmployees_FiltersAndSort() {
	url := fmt.Sprintf("/api/employees?manager_id=%s&sort_by=first_name&sort_order=desc", s.ceo.ID)
	w := s.env.do(s.T(), http.MethodGet, url, nil, s.hrCookies)
	s.Require().Equal(http.StatusOK, w.Code)

	employees := decode[[]dto.EmployeeDTO](s.T(), w)
	s.Require().Len(employees, 2)
	s.Equal("Omar", employees[0].FirstName)
	s.Equal("Mark", employees[1].FirstName)

	w = s.env.do(s.T(), http.MethodGet, "/api/employees?sort_by=salary", nil, s.hrCookies)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *EmployeeHandlerTestSuite) TestGetEmployee() {
	w := s.env.do(s.T(), http.MethodGet, "/api/employees/"+s.manager.ID, nil, s.hrCookies)
	s.Require().Equal(http.StatusOK, w.Code)

	employee := decode[dto.EmployeeDTO](s.T(), w)
	s.Require().NotNil(employee.Manager)
	s.Equal(s.ceo.ID, employee.Manager.ID)
	s.Require().Len(employee.DirectReports, 1)
	s.Equal(s.report.ID, employee.DirectReports[0].ID)
	s.NotNil(employee.Salary)

	w = s.env.do(s.T(), http.MethodGet, "/api/employees/"+s.outsider.ID, nil, s.managerCookies)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.env.do(s.T(), http.MethodGet, "/api/employees/does-not-exist", nil, s.hrCookies)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *EmployeeHandlerTestSuite) TestCreateEmployee() {
	payload := map[string]interface{}{
		"first_name": "Nina",
		"last_name":  "New",
		"title":      "Designer",
		"email":      "nina@example.com",
		"hire_date":  "2024-02-01",
		"manager_id": s.manager.ID,
		"salary":     "65000",
	}

	w := s.env.do(s.T(), http.MethodPost, "/api/employees", payload, s.hrCookies)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.EmployeeDTO](s.T(), w)
	s.Equal("2024-02-01", created.HireDate.Format("2006-01-02"))
	s.Equal(models.StatusActive, created.Status)

	w = s.env.do(s.T(), http.MethodPost, "/api/employees", payload, s.hrCookies)
	s.Equal(http.StatusConflict, w.Code)

	payload["email"] = "other@example.com"
	payload["manager_id"] = "ghost"
	w = s.env.do(s.T(), http.MethodPost, "/api/employees", payload, s.hrCookies)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal(apierrors.ErrCodeInvalidHierarchy, errorCode(s.T(), w))

	w = s.env.do(s.T(), http.MethodPost, "/api/employees", payload, s.managerCookies)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.env.do(s.T(), http.MethodPost, "/api/employees", `{"first_name":"x","last_name":"y","title":"z","hire_date":"01/02/2024"}`, s.hrCookies)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *EmployeeHandlerTestSuite) TestUpdateEmployee_CycleRejected() {
	w := s.env.do(s.T(), http.MethodPut, "/api/employees/"+s.ceo.ID, map[string]interface{}{
		"manager_id": s.report.ID,
	}, s.hrCookies)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal(apierrors.ErrCodeInvalidHierarchy, errorCode(s.T(), w))

	w = s.env.do(s.T(), http.MethodGet, "/api/employees/"+s.ceo.ID, nil, s.hrCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Nil(decode[dto.EmployeeDTO](s.T(), w).ManagerID)
}

func (s *EmployeeHandlerTestSuite) TestUpdateEmployee_NullClearsManager() {
	w := s.env.do(s.T(), http.MethodPut, "/api/employees/"+s.report.ID, `{"manager_id":null}`, s.hrCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Nil(decode[dto.EmployeeDTO](s.T(), w).ManagerID)

	w = s.env.do(s.T(), http.MethodPut, "/api/employees/"+s.outsider.ID, `{"title":"Principal"}`, s.hrCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	updated := decode[dto.EmployeeDTO](s.T(), w)
	s.Equal("Principal", updated.Title)
	s.Require().NotNil(updated.ManagerID, "absent manager_id must be left alone")
	s.Equal(s.ceo.ID, *updated.ManagerID)
}

func (s *EmployeeHandlerTestSuite) TestUpdateEmployee_ManagerRules() {
	w := s.env.do(s.T(), http.MethodPut, "/api/employees/"+s.report.ID, `{"title":"Senior Engineer","salary":"1"}`, s.managerCookies)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.env.do(s.T(), http.MethodGet, "/api/employees/"+s.report.ID, nil, s.hrCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	stored := decode[dto.EmployeeDTO](s.T(), w)
	s.Equal("Senior Engineer", stored.Title)
	s.Require().NotNil(stored.Salary)
	s.Equal("70000", stored.Salary.String())

	w = s.env.do(s.T(), http.MethodPut, "/api/employees/"+s.manager.ID, `{"title":"VP"}`, s.managerCookies)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.env.do(s.T(), http.MethodPut, "/api/employees/"+s.report.ID, `{"title":"Boss"}`, s.employeeCookies)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *EmployeeHandlerTestSuite) TestDeleteEmployee() {
	w := s.env.do(s.T(), http.MethodDelete, "/api/employees/"+s.manager.ID, nil, s.managerCookies)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.env.do(s.T(), http.MethodDelete, "/api/employees/"+s.manager.ID, nil, s.hrCookies)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.env.do(s.T(), http.MethodGet, "/api/employees/"+s.report.ID, nil, s.hrCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Nil(decode[dto.EmployeeDTO](s.T(), w).ManagerID)

	w = s.env.do(s.T(), http.MethodDelete, "/api/employees/"+s.manager.ID, nil, s.hrCookies)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *EmployeeHandlerTestSuite) TestDirectReportsAndOrgChart() {
	w := s.env.do(s.T(), http.MethodGet, "/api/employees/"+s.ceo.ID+"/direct-reports", nil, s.hrCookies)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(decode[[]dto.EmployeeDTO](s.T(), w), 2)

	w = s.env.do(s.T(), http.MethodGet, "/api/employees/"+s.ceo.ID+"/direct-reports", nil, s.employeeCookies)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.env.do(s.T(), http.MethodGet, "/api/employees/org-chart", nil, s.employeeCookies)
	s.Require().Equal(http.StatusOK, w.Code)

	chart := decode[[]hierarchy.OrgChartNode](s.T(), w)
	s.Require().Len(chart, 1)
	s.Equal(s.ceo.ID, chart[0].ID)

	parents := hierarchy.Flatten(chart)
	s.Len(parents, 4)
	s.Equal(s.manager.ID, *parents[s.report.ID])
}

func (s *EmployeeHandlerTestSuite) TestBulkImport() {
	payload := map[string]interface{}{
		"employees": []map[string]interface{}{
			{"first_name": "Ivy", "last_name": "Import", "title": "Analyst", "email": "ivy@example.com", "hire_date": "2023-05-01"},
			{"first_name": "", "last_name": "Missing", "title": "Nobody", "hire_date": "2023-05-01"},
			{"first_name": "Ivy", "email": "ivy@example.com", "title": "Senior Analyst"},
		},
	}

	w := s.env.do(s.T(), http.MethodPost, "/api/employees/bulk-import", payload, s.hrCookies)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	result := decode[services.BulkImportResult](s.T(), w)
	s.Equal(1, result.Created)
	s.Equal(1, result.Updated)
	s.Equal(2, result.Success)
	s.Require().Len(result.Errors, 1)
	s.Equal(1, result.Errors[0].Index)

	w = s.env.do(s.T(), http.MethodPost, "/api/employees/bulk-import", payload, s.managerCookies)
	s.Equal(http.StatusForbidden, w.Code)
}
