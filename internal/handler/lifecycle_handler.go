package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zafarh/dsj-hrms-api/internal/dto"
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
	appErrors "github.com/zafarh/dsj-hrms-api/pkg/errors"
	"github.com/zafarh/dsj-hrms-api/pkg/response"
)

type lifecycleService interface {
	Transfer(ctx context.Context, employeeID string, req dto.TransferRequest, actorID string) (*models.Employee, error)
	Rejoin(ctx context.Context, employeeID string, req dto.RejoinRequest, actorID string) (*models.Employee, int, error)
	RejoinPreview(ctx context.Context, employeeID string, rejoinDate dateutil.Date) (*dto.RejoinPreviewResponse, error)
	Succession(ctx context.Context, employeeID string, req dto.SuccessionRequest, actorID string) (*models.Employee, error)
}

// LifecycleHandler exposes the transactional career operations.
type LifecycleHandler struct {
	lifecycle lifecycleService
}

// NewLifecycleHandler constructs a LifecycleHandler.
func NewLifecycleHandler(lifecycle lifecycleService) *LifecycleHandler {
	return &LifecycleHandler{lifecycle: lifecycle}
}

// Transfer godoc
// @Summary Transfer the employee to a new posting
// @Description Closes the current posting at the relieving date and opens a new one at the joining date. Returns 422 when the employee has no current posting or the dates break the timeline.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body dto.TransferRequest true "Transfer order"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /employees/{id}/transfer [post]
func (h *LifecycleHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid transfer payload"))
		return
	}
	employee, err := h.lifecycle.Transfer(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.LifecycleResponse{Employee: employee}, nil)
}

// Rejoin godoc
// @Summary Rejoin service after an exit
// @Description Appends a fresh posting after a rejoinable exit (suspension, termination, OSD, etc.) and records the absence span. Retired or deceased employees cannot rejoin.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body dto.RejoinRequest true "Rejoin order"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /employees/{id}/rejoin [post]
func (h *LifecycleHandler) Rejoin(c *gin.Context) {
	var req dto.RejoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejoin payload"))
		return
	}
	employee, absentDays, err := h.lifecycle.Rejoin(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.LifecycleResponse{Employee: employee, AbsentDays: &absentDays}, nil)
}

// RejoinPreview godoc
// @Summary Preview the absence span of a rejoin
// @Tags Lifecycle
// @Produce json
// @Param id path string true "Employee ID"
// @Param rejoin_date query string false "Proposed rejoin date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /employees/{id}/rejoin/preview [get]
func (h *LifecycleHandler) RejoinPreview(c *gin.Context) {
	rejoinDate := dateutil.FromTime(time.Now())
	if raw := c.Query("rejoin_date"); raw != "" {
		parsed, err := dateutil.Parse(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejoin_date"))
			return
		}
		rejoinDate = parsed
	}
	preview, err := h.lifecycle.RejoinPreview(c.Request.Context(), c.Param("id"), rejoinDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// Succession godoc
// @Summary Rename the employee's current seat
// @Description Closes the current posting and reopens it under the new posting place title without moving the employee. Judicial designations and office posting categories are excluded.
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body dto.SuccessionRequest true "Succession order"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /employees/{id}/succession [post]
func (h *LifecycleHandler) Succession(c *gin.Context) {
	var req dto.SuccessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid succession payload"))
		return
	}
	employee, err := h.lifecycle.Succession(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.LifecycleResponse{Employee: employee}, nil)
}

func actorID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}
