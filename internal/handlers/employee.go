package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seth-walker/HRIS/internal/dto"
	apierrors "github.com/seth-walker/HRIS/internal/errors"
	"github.com/seth-walker/HRIS/internal/services"
)

type EmployeeHandler struct {
	employeeService *services.EmployeeService
	log             *zap.Logger
}

func NewEmployeeHandler(employeeService *services.EmployeeService, log *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
		log:             log,
	}
}

// ListEmployees returns the employees visible to the current user
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var query dto.ListEmployeesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apierrors.BadRequest(c, "Invalid query parameters")
		return
	}

	employees, err := h.employeeService.ListEmployees(c.Request.Context(), actor, query.ToInput())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTOs(employees))
}

// GetEmployee returns a single employee with manager, team and direct reports
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	employee, err := h.employeeService.GetEmployee(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

// CreateEmployee creates a new employee
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEmployeeDTO(*employee))
}

// UpdateEmployee applies a partial update. Absent fields are unchanged and
// explicit nulls clear them.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), actor, c.Param("id"), req.ToInput())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTO(*employee))
}

// DeleteEmployee deletes an employee; their direct reports lose their manager
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	if err := h.employeeService.DeleteEmployee(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Employee deleted successfully",
	})
}

// GetDirectReports lists the employees reporting to the given manager
func (h *EmployeeHandler) GetDirectReports(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	reports, err := h.employeeService.GetDirectReports(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTOs(reports))
}

// GetOrgChart returns the whole manager forest
func (h *EmployeeHandler) GetOrgChart(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}

	chart, err := h.employeeService.GetOrgChart(c.Request.Context())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, chart)
}

// BulkImport creates or updates employees by email and reports per-row errors
func (h *EmployeeHandler) BulkImport(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var req dto.BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.employeeService.BulkImport(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
