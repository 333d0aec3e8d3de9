package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zafarh/dsj-hrms-api/internal/dto"
	"github.com/zafarh/dsj-hrms-api/internal/middleware"
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/internal/service"
	"github.com/zafarh/dsj-hrms-api/internal/timeline"
	appErrors "github.com/zafarh/dsj-hrms-api/pkg/errors"
)

type employeeServiceMock struct {
	listResp     []models.Employee
	listErr      error
	getResp      *models.Employee
	getHit       bool
	getErr       error
	validateResp *dto.HistoryValidationResponse
	replaceResp  *models.Employee
	replaceErr   error
	lastFilter   models.EmployeeFilter
}

func (m *employeeServiceMock) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, *models.Pagination, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, nil, m.listErr
	}
	return m.listResp, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(m.listResp)}, nil
}

func (m *employeeServiceMock) Get(ctx context.Context, id string) (*models.Employee, bool, error) {
	return m.getResp, m.getHit, m.getErr
}

func (m *employeeServiceMock) Create(ctx context.Context, req service.CreateEmployeeRequest) (*models.Employee, error) {
	return &models.Employee{ID: "e1", FullName: req.FullName, Active: true}, nil
}

func (m *employeeServiceMock) Update(ctx context.Context, id string, req service.UpdateEmployeeRequest) (*models.Employee, error) {
	return &models.Employee{ID: id, FullName: req.FullName, Active: true}, nil
}

func (m *employeeServiceMock) Deactivate(ctx context.Context, id string) error {
	return nil
}

func (m *employeeServiceMock) ValidateHistory(ctx context.Context, id string, req dto.UpdateHistoryRequest) (*dto.HistoryValidationResponse, error) {
	return m.validateResp, nil
}

func (m *employeeServiceMock) ReplaceHistory(ctx context.Context, id string, req dto.UpdateHistoryRequest) (*models.Employee, error) {
	return m.replaceResp, m.replaceErr
}

type auditSinkMock struct {
	actions []string
}

func (m *auditSinkMock) Record(action, resource string, resourceID *string, actorID *string, payload interface{}) {
	m.actions = append(m.actions, action)
}

func TestEmployeeHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &employeeServiceMock{listResp: []models.Employee{{ID: "e1", FullName: "Abdul Rehman"}}}
	h := NewEmployeeHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/employees?status=in_service&active=true&page=2&limit=10", nil)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.lastFilter.Status)
	assert.Equal(t, models.StatusInService, *mockSvc.lastFilter.Status)
	require.NotNil(t, mockSvc.lastFilter.Active)
	assert.True(t, *mockSvc.lastFilter.Active)
	assert.Equal(t, 2, mockSvc.lastFilter.Page)
	assert.Equal(t, 10, mockSvc.lastFilter.PageSize)
}

func TestEmployeeHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &employeeServiceMock{getErr: appErrors.ErrNotFound}
	h := NewEmployeeHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/employees/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmployeeHandlerCreateRecordsAudit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	audit := &auditSinkMock{}
	h := NewEmployeeHandler(&employeeServiceMock{}, audit)

	body := `{"full_name":"Abdul Rehman","date_of_appointment":"2010-01-01"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/employees", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{models.AuditActionEmployeeCreate}, audit.actions)
}

func TestEmployeeHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEmployeeHandler(&employeeServiceMock{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/employees", bytes.NewBufferString(`{"full_name":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmployeeHandlerValidateHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &employeeServiceMock{validateResp: &dto.HistoryValidationResponse{
		Valid: false,
		Errors: []timeline.FieldError{
			{Block: 1, Field: "from_date", Kind: timeline.KindOverlap, Message: "overlaps service record 1"},
		},
	}}
	h := NewEmployeeHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/employees/e1/history/validate", bytes.NewBufferString(`{"employment_history":[]}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	h.ValidateHistory(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.HistoryValidationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Valid)
	require.Len(t, envelope.Data.Errors, 1)
	assert.Equal(t, 1, envelope.Data.Errors[0].Block)
}

func TestEmployeeHandlerReplaceHistoryTimelineViolation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &employeeServiceMock{
		replaceErr: appErrors.WithDetails(
			appErrors.Clone(appErrors.ErrTimelineInvalid, ""),
			[]timeline.FieldError{{Block: 0, Field: "to_date", Kind: timeline.KindIncomplete, Message: "supply a To Date"}},
		),
	}
	h := NewEmployeeHandler(mockSvc, &auditSinkMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/employees/e1/history", bytes.NewBufferString(`{"employment_history":[]}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	h.ReplaceHistory(c)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrTimelineInvalid.Code, envelope.Error.Code)
	assert.NotNil(t, envelope.Error.Details)
}
