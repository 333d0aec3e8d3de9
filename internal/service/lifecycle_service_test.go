package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zafarh/dsj-hrms-api/internal/dto"
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
	appErrors "github.com/zafarh/dsj-hrms-api/pkg/errors"
)

type mockLifecycleStore struct {
	employee *models.Employee
	replaced []models.EmploymentBlock
}

func (m *mockLifecycleStore) GetWithHistory(ctx context.Context, id string) (*models.Employee, error) {
	if m.employee == nil || m.employee.ID != id {
		return nil, sql.ErrNoRows
	}
	cp := *m.employee
	return &cp, nil
}

func (m *mockLifecycleStore) ReplaceHistory(ctx context.Context, employeeID string, history []models.EmploymentBlock) error {
	m.replaced = history
	return nil
}

type mockClassifierSource struct {
	designations []models.Designation
	categories   []models.PostingCategory
}

func (m *mockClassifierSource) ListDesignations(ctx context.Context) ([]models.Designation, error) {
	return m.designations, nil
}

func (m *mockClassifierSource) ListPostingCategories(ctx context.Context) ([]models.PostingCategory, error) {
	return m.categories, nil
}

type mockAuditRecorder struct {
	actions []string
}

func (m *mockAuditRecorder) Record(action, resource string, resourceID *string, actorID *string, payload interface{}) {
	m.actions = append(m.actions, action)
}

func lifecycleEmployee() *models.Employee {
	from := dateutil.Date{Year: 2010, Month: 1, Day: 1}
	return &models.Employee{
		ID:                "e1",
		FullName:          "Abdul Rehman",
		DateOfAppointment: from,
		Active:            true,
		EmploymentHistory: []models.EmploymentBlock{{
			ID:                "b1",
			EmployeeID:        "e1",
			Status:            models.StatusInService,
			FromDate:          &from,
			CurrentlyWorking:  true,
			PostingPlaceTitle: "District Courts Lahore",
		}},
	}
}

func transferRequest() dto.TransferRequest {
	return dto.TransferRequest{
		RelievingDate:     dateutil.Date{Year: 2015, Month: 6, Day: 1},
		JoiningDate:       dateutil.Date{Year: 2015, Month: 6, Day: 5},
		PostingPlaceTitle: "District Courts Kasur",
		HQID:              "hq2",
		TehsilID:          "t2",
		PostingCategoryID: "pc1",
		UnitID:            "u1",
		DesignationID:     "d1",
		BPS:               16,
		OrderNumber:       "EST-2015-0042",
		OrderDate:         dateutil.Date{Year: 2015, Month: 5, Day: 20},
	}
}

func TestLifecycleServiceTransfer(t *testing.T) {
	store := &mockLifecycleStore{employee: lifecycleEmployee()}
	audit := &mockAuditRecorder{}
	svc := NewLifecycleService(store, &mockClassifierSource{}, audit, zap.NewNop())

	saved, err := svc.Transfer(context.Background(), "e1", transferRequest(), "u-admin")
	require.NoError(t, err)
	require.Len(t, saved.EmploymentHistory, 2)
	require.Len(t, store.replaced, 2)

	closed := store.replaced[0]
	require.NotNil(t, closed.ToDate)
	assert.Equal(t, dateutil.Date{Year: 2015, Month: 6, Day: 1}, *closed.ToDate)
	assert.False(t, closed.CurrentlyWorking)

	opened := store.replaced[1]
	assert.Equal(t, "District Courts Kasur", opened.PostingPlaceTitle)
	assert.True(t, opened.CurrentlyWorking)
	assert.Equal(t, []string{models.AuditActionTransfer}, audit.actions)
}

func TestLifecycleServiceTransferIneligibleWithoutCurrentPosting(t *testing.T) {
	employee := lifecycleEmployee()
	retired := dateutil.Date{Year: 2020, Month: 1, Day: 1}
	to := dateutil.Date{Year: 2020, Month: 1, Day: 1}
	employee.EmploymentHistory[0].CurrentlyWorking = false
	employee.EmploymentHistory[0].ToDate = &to
	employee.EmploymentHistory = append(employee.EmploymentHistory, models.EmploymentBlock{
		ID: "b2", EmployeeID: "e1", Status: models.StatusRetired, StatusDate: &retired,
	})
	store := &mockLifecycleStore{employee: employee}
	svc := NewLifecycleService(store, &mockClassifierSource{}, nil, zap.NewNop())

	_, err := svc.Transfer(context.Background(), "e1", transferRequest(), "u-admin")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrIneligible.Code, appErr.Code)
	assert.Nil(t, store.replaced, "nothing is written on a failed operation")
}

func TestLifecycleServiceTransferUnknownEmployee(t *testing.T) {
	svc := NewLifecycleService(&mockLifecycleStore{}, &mockClassifierSource{}, nil, zap.NewNop())

	_, err := svc.Transfer(context.Background(), "missing", transferRequest(), "u-admin")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func suspendedEmployee() *models.Employee {
	employee := lifecycleEmployee()
	to := dateutil.Date{Year: 2020, Month: 5, Day: 31}
	suspended := dateutil.Date{Year: 2020, Month: 6, Day: 1}
	employee.EmploymentHistory[0].CurrentlyWorking = false
	employee.EmploymentHistory[0].ToDate = &to
	employee.EmploymentHistory = append(employee.EmploymentHistory, models.EmploymentBlock{
		ID: "b2", EmployeeID: "e1", Status: models.StatusSuspended, StatusDate: &suspended,
	})
	return employee
}

func TestLifecycleServiceRejoin(t *testing.T) {
	store := &mockLifecycleStore{employee: suspendedEmployee()}
	audit := &mockAuditRecorder{}
	svc := NewLifecycleService(store, &mockClassifierSource{}, audit, zap.NewNop())

	req := dto.RejoinRequest{
		RejoinDate:        dateutil.Date{Year: 2020, Month: 7, Day: 1},
		OrderNumber:       "EST-2020-0100",
		OrderDate:         dateutil.Date{Year: 2020, Month: 6, Day: 25},
		PostingPlaceTitle: "District Courts Lahore",
		HQID:              "hq1",
		TehsilID:          "t1",
		PostingCategoryID: "pc1",
		UnitID:            "u1",
		DesignationID:     "d1",
		BPS:               16,
	}
	saved, absentDays, err := svc.Rejoin(context.Background(), "e1", req, "u-admin")
	require.NoError(t, err)
	assert.Equal(t, 30, absentDays)
	require.Len(t, saved.EmploymentHistory, 3)
	assert.True(t, saved.EmploymentHistory[2].CurrentlyWorking)
	assert.Equal(t, []string{models.AuditActionRejoin}, audit.actions)
}

func TestLifecycleServiceRejoinPreview(t *testing.T) {
	store := &mockLifecycleStore{employee: suspendedEmployee()}
	svc := NewLifecycleService(store, &mockClassifierSource{}, nil, zap.NewNop())

	preview, err := svc.RejoinPreview(context.Background(), "e1", dateutil.Date{Year: 2020, Month: 7, Day: 1})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, preview.ExitStatus)
	assert.Equal(t, 30, preview.AbsentDays)
	assert.Nil(t, store.replaced, "preview never writes")
}

func TestLifecycleServiceRejoinPreviewWithoutExit(t *testing.T) {
	store := &mockLifecycleStore{employee: lifecycleEmployee()}
	svc := NewLifecycleService(store, &mockClassifierSource{}, nil, zap.NewNop())

	_, err := svc.RejoinPreview(context.Background(), "e1", dateutil.Date{Year: 2020, Month: 7, Day: 1})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrIneligible.Code, appErr.Code)
}

func TestLifecycleServiceSuccession(t *testing.T) {
	store := &mockLifecycleStore{employee: lifecycleEmployee()}
	audit := &mockAuditRecorder{}
	lookups := &mockClassifierSource{
		designations: []models.Designation{{ID: "d1", Title: "Reader", IsJudicial: false}},
		categories:   []models.PostingCategory{{ID: "pc1", Title: "Court", IsOffice: false}},
	}
	svc := NewLifecycleService(store, lookups, audit, zap.NewNop())

	req := dto.SuccessionRequest{
		RelievingDate:        dateutil.Date{Year: 2018, Month: 3, Day: 1},
		JoiningDate:          dateutil.Date{Year: 2018, Month: 3, Day: 1},
		NewPostingPlaceTitle: "Model Criminal Trial Court Lahore",
		OrderNumber:          "EST-2018-0007",
		OrderDate:            dateutil.Date{Year: 2018, Month: 2, Day: 20},
	}
	saved, err := svc.Succession(context.Background(), "e1", req, "u-admin")
	require.NoError(t, err)
	require.Len(t, saved.EmploymentHistory, 2)
	assert.Equal(t, "Model Criminal Trial Court Lahore", saved.EmploymentHistory[1].PostingPlaceTitle)
	assert.Equal(t, []string{models.AuditActionSuccession}, audit.actions)
}

func TestLifecycleServiceSuccessionExcludesJudicialSeat(t *testing.T) {
	employee := lifecycleEmployee()
	designationID := "d-judge"
	employee.EmploymentHistory[0].DesignationID = &designationID
	store := &mockLifecycleStore{employee: employee}
	lookups := &mockClassifierSource{
		designations: []models.Designation{{ID: "d-judge", Title: "Civil Judge", IsJudicial: true}},
	}
	svc := NewLifecycleService(store, lookups, nil, zap.NewNop())

	req := dto.SuccessionRequest{
		RelievingDate:        dateutil.Date{Year: 2018, Month: 3, Day: 1},
		JoiningDate:          dateutil.Date{Year: 2018, Month: 3, Day: 1},
		NewPostingPlaceTitle: "Model Criminal Trial Court Lahore",
		OrderNumber:          "EST-2018-0007",
		OrderDate:            dateutil.Date{Year: 2018, Month: 2, Day: 20},
	}
	_, err := svc.Succession(context.Background(), "e1", req, "u-admin")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrIneligible.Code, appErr.Code)
	assert.Nil(t, store.replaced)
}
