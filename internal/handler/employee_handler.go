package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zafarh/dsj-hrms-api/internal/dto"
	"github.com/zafarh/dsj-hrms-api/internal/middleware"
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/internal/service"
	appErrors "github.com/zafarh/dsj-hrms-api/pkg/errors"
	"github.com/zafarh/dsj-hrms-api/pkg/response"
)

type employeeService interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Employee, bool, error)
	Create(ctx context.Context, req service.CreateEmployeeRequest) (*models.Employee, error)
	Update(ctx context.Context, id string, req service.UpdateEmployeeRequest) (*models.Employee, error)
	Deactivate(ctx context.Context, id string) error
	ValidateHistory(ctx context.Context, id string, req dto.UpdateHistoryRequest) (*dto.HistoryValidationResponse, error)
	ReplaceHistory(ctx context.Context, id string, req dto.UpdateHistoryRequest) (*models.Employee, error)
}

type auditSink interface {
	Record(action, resource string, resourceID *string, actorID *string, payload interface{})
}

// EmployeeHandler wires employee and service-history operations to HTTP
// routes.
type EmployeeHandler struct {
	employees employeeService
	audit     auditSink
}

// NewEmployeeHandler constructs a new EmployeeHandler.
func NewEmployeeHandler(employees employeeService, audit auditSink) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, audit: audit}
}

// List godoc
// @Summary List employees
// @Tags Employees
// @Produce json
// @Param search query string false "Search by name/father name/CNIC"
// @Param status query string false "Filter by current employment status"
// @Param hq_id query string false "Filter by current headquarter"
// @Param tehsil_id query string false "Filter by current tehsil"
// @Param designation_id query string false "Filter by current designation"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field (full_name,date_of_appointment,created_at)"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	filter := models.EmployeeFilter{
		Search:        strings.TrimSpace(c.Query("search")),
		HQID:          c.Query("hq_id"),
		TehsilID:      c.Query("tehsil_id"),
		DesignationID: c.Query("designation_id"),
		SortBy:        c.Query("sort"),
		SortOrder:     c.Query("order"),
	}
	if status := c.Query("status"); status != "" {
		val := models.EmploymentStatus(strings.ToUpper(status))
		filter.Status = &val
	}
	if active := c.Query("active"); active != "" {
		switch strings.ToLower(active) {
		case "true":
			val := true
			filter.Active = &val
		case "false":
			val := false
			filter.Active = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	employees, pagination, err := h.employees.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, pagination)
}

// Get godoc
// @Summary Get employee with full service history
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, cacheHit, err := h.employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, employee, nil, middleware.ExtractMeta(c))
}

// Create godoc
// @Summary Register employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param payload body service.CreateEmployeeRequest true "Employee payload"
// @Success 201 {object} response.Envelope
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}
	employee, err := h.employees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.recordAudit(c, models.AuditActionEmployeeCreate, employee.ID, req)
	response.Created(c, employee)
}

// Update godoc
// @Summary Update employee master record
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body service.UpdateEmployeeRequest true "Employee payload"
// @Success 200 {object} response.Envelope
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}
	employee, err := h.employees.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.recordAudit(c, models.AuditActionEmployeeUpdate, employee.ID, req)
	response.JSON(c, http.StatusOK, employee, nil)
}

// Deactivate godoc
// @Summary Deactivate employee
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 204
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	if err := h.employees.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// History godoc
// @Summary Get the employee's service history
// @Description Returns blocks in chronological order with nested leaves and disciplinary actions. Leave dates stored outside their block are clamped on load.
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /employees/{id}/history [get]
func (h *EmployeeHandler) History(c *gin.Context) {
	employee, cacheHit, err := h.employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, dto.HistoryResponse{
		EmployeeID:        employee.ID,
		DateOfAppointment: employee.DateOfAppointment,
		EmploymentHistory: employee.EmploymentHistory,
	}, nil, middleware.ExtractMeta(c))
}

// ReplaceHistory godoc
// @Summary Replace the employee's service history
// @Description Validates the submitted timeline with the consistency engine and saves it atomically. Returns 422 with per-field errors when the timeline is inconsistent.
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body dto.UpdateHistoryRequest true "Full replacement history"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /employees/{id}/history [put]
func (h *EmployeeHandler) ReplaceHistory(c *gin.Context) {
	var req dto.UpdateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid history payload"))
		return
	}
	employee, err := h.employees.ReplaceHistory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.recordAudit(c, models.AuditActionHistoryReplace, employee.ID, nil)
	response.JSON(c, http.StatusOK, employee, nil)
}

// ValidateHistory godoc
// @Summary Dry-run validation of a service history
// @Description Runs the consistency engine without saving. The form calls this on every edit to refresh field-level error messages.
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body dto.UpdateHistoryRequest true "History to validate"
// @Success 200 {object} response.Envelope
// @Router /employees/{id}/history/validate [post]
func (h *EmployeeHandler) ValidateHistory(c *gin.Context) {
	var req dto.UpdateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid history payload"))
		return
	}
	result, err := h.employees.ValidateHistory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func (h *EmployeeHandler) recordAudit(c *gin.Context, action, employeeID string, payload interface{}) {
	if h.audit == nil {
		return
	}
	var actor *string
	if claims := claimsFromContext(c); claims != nil {
		actor = &claims.UserID
	}
	id := employeeID
	h.audit.Record(action, "employee", &id, actor, payload)
}
