package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zafarh/dsj-hrms-api/internal/dto"
	"github.com/zafarh/dsj-hrms-api/internal/middleware"
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
	appErrors "github.com/zafarh/dsj-hrms-api/pkg/errors"
)

type lifecycleServiceMock struct {
	transferResp *models.Employee
	transferErr  error
	rejoinResp   *models.Employee
	rejoinDays   int
	rejoinErr    error
	previewResp  *dto.RejoinPreviewResponse
	previewErr   error
	previewDate  dateutil.Date
	lastActor    string
}

func (m *lifecycleServiceMock) Transfer(ctx context.Context, employeeID string, req dto.TransferRequest, actorID string) (*models.Employee, error) {
	m.lastActor = actorID
	return m.transferResp, m.transferErr
}

func (m *lifecycleServiceMock) Rejoin(ctx context.Context, employeeID string, req dto.RejoinRequest, actorID string) (*models.Employee, int, error) {
	m.lastActor = actorID
	return m.rejoinResp, m.rejoinDays, m.rejoinErr
}

func (m *lifecycleServiceMock) RejoinPreview(ctx context.Context, employeeID string, rejoinDate dateutil.Date) (*dto.RejoinPreviewResponse, error) {
	m.previewDate = rejoinDate
	return m.previewResp, m.previewErr
}

func (m *lifecycleServiceMock) Succession(ctx context.Context, employeeID string, req dto.SuccessionRequest, actorID string) (*models.Employee, error) {
	m.lastActor = actorID
	return m.transferResp, m.transferErr
}

func TestLifecycleHandlerTransfer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &lifecycleServiceMock{transferResp: &models.Employee{ID: "e1"}}
	h := NewLifecycleHandler(mockSvc)

	body := `{"relieving_date":"2015-06-01","joining_date":"2015-06-05","posting_place_title":"District Courts Kasur","order_number":"EST-2015-0042","order_date":"2015-05-20"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/employees/e1/transfer", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "e1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-admin", Role: models.RoleAdmin})

	h.Transfer(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-admin", mockSvc.lastActor)
}

func TestLifecycleHandlerTransferIneligible(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &lifecycleServiceMock{
		transferErr: appErrors.Clone(appErrors.ErrIneligible, "transfer requires an In-Service record marked currently working"),
	}
	h := NewLifecycleHandler(mockSvc)

	body := `{"relieving_date":"2015-06-01","joining_date":"2015-06-05"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/employees/e1/transfer", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	h.Transfer(c)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLifecycleHandlerRejoinReturnsAbsentDays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &lifecycleServiceMock{rejoinResp: &models.Employee{ID: "e1"}, rejoinDays: 30}
	h := NewLifecycleHandler(mockSvc)

	body := `{"rejoin_date":"2020-07-01","order_number":"EST-2020-0100","posting_place_title":"District Courts Lahore"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/employees/e1/rejoin", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	h.Rejoin(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.LifecycleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.AbsentDays)
	assert.Equal(t, 30, *envelope.Data.AbsentDays)
}

func TestLifecycleHandlerRejoinPreviewRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewLifecycleHandler(&lifecycleServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/employees/e1/rejoin/preview?rejoin_date=not-a-date", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	h.RejoinPreview(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLifecycleHandlerRejoinPreviewDefaultsToToday(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &lifecycleServiceMock{previewResp: &dto.RejoinPreviewResponse{AbsentDays: 1}}
	h := NewLifecycleHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/employees/e1/rejoin/preview", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	h.RejoinPreview(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dateutil.FromTime(time.Now()), mockSvc.previewDate)
}

func TestLifecycleHandlerRejoinPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &lifecycleServiceMock{previewResp: &dto.RejoinPreviewResponse{
		ExitStatus: models.StatusSuspended,
		ExitDate:   dateutil.Date{Year: 2020, Month: 6, Day: 1},
		RejoinDate: dateutil.Date{Year: 2020, Month: 7, Day: 1},
		AbsentDays: 30,
	}}
	h := NewLifecycleHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/employees/e1/rejoin/preview?rejoin_date=2020-07-01", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	h.RejoinPreview(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.RejoinPreviewResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 30, envelope.Data.AbsentDays)
	assert.Equal(t, models.StatusSuspended, envelope.Data.ExitStatus)
}
