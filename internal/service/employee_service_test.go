package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zafarh/dsj-hrms-api/internal/dto"
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/internal/timeline"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
	appErrors "github.com/zafarh/dsj-hrms-api/pkg/errors"
)

type mockEmployeeRepo struct {
	items       map[string]*models.Employee
	cnicIndex   map[string]string
	listResult  []models.Employee
	listTotal   int
	listErr     error
	deactivated []string
	replaced    map[string][]models.EmploymentBlock
}

func (m *mockEmployeeRepo) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockEmployeeRepo) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if employee, ok := m.items[id]; ok {
		cp := *employee
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEmployeeRepo) GetWithHistory(ctx context.Context, id string) (*models.Employee, error) {
	if employee, ok := m.items[id]; ok {
		cp := *employee
		if history, ok := m.replaced[id]; ok {
			cp.EmploymentHistory = history
		}
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEmployeeRepo) ExistsByCNIC(ctx context.Context, cnic, excludeID string) (bool, error) {
	if owner, ok := m.cnicIndex[cnic]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	if m.items == nil {
		m.items = make(map[string]*models.Employee)
	}
	if employee.ID == "" {
		employee.ID = "generated"
	}
	now := time.Now()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	cp := *employee
	m.items[employee.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	if m.items == nil {
		m.items = make(map[string]*models.Employee)
	}
	cp := *employee
	m.items[employee.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	if e, ok := m.items[id]; ok {
		e.Active = false
	}
	return nil
}

func (m *mockEmployeeRepo) ReplaceHistory(ctx context.Context, employeeID string, history []models.EmploymentBlock) error {
	if m.replaced == nil {
		m.replaced = make(map[string][]models.EmploymentBlock)
	}
	m.replaced[employeeID] = history
	return nil
}

func newEmployeeService(repo *mockEmployeeRepo) *EmployeeService {
	return NewEmployeeService(repo, nil, validator.New(), zap.NewNop(), nil, EmployeeServiceConfig{})
}

func seedEmployee(doa dateutil.Date) *models.Employee {
	return &models.Employee{
		ID:                "e1",
		FullName:          "Abdul Rehman",
		DateOfAppointment: doa,
		Active:            true,
	}
}

func TestEmployeeServiceCreate(t *testing.T) {
	repo := &mockEmployeeRepo{}
	svc := newEmployeeService(repo)

	cnic := " 35201-1234567-1 "
	employee, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:          "  Abdul Rehman ",
		CNIC:              &cnic,
		DateOfAppointment: dateutil.Date{Year: 2010, Month: 1, Day: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "Abdul Rehman", employee.FullName)
	require.NotNil(t, employee.CNIC)
	assert.Equal(t, "35201-1234567-1", *employee.CNIC)
	assert.True(t, employee.Active)
	assert.Len(t, repo.items, 1)
}

func TestEmployeeServiceCreateRequiresAppointmentDate(t *testing.T) {
	svc := newEmployeeService(&mockEmployeeRepo{})

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{FullName: "Abdul Rehman"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestEmployeeServiceCreateRejectsInvalidCalendarDate(t *testing.T) {
	svc := newEmployeeService(&mockEmployeeRepo{})

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:          "Abdul Rehman",
		DateOfAppointment: dateutil.Date{Year: 2011, Month: 2, Day: 30},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestEmployeeServiceCreateDuplicateCNIC(t *testing.T) {
	repo := &mockEmployeeRepo{cnicIndex: map[string]string{"35201-1234567-1": "other"}}
	svc := newEmployeeService(repo)

	cnic := "35201-1234567-1"
	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:          "Abdul Rehman",
		CNIC:              &cnic,
		DateOfAppointment: dateutil.Date{Year: 2010, Month: 1, Day: 1},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestEmployeeServiceUpdateAppointmentDateRevalidatesHistory(t *testing.T) {
	employee := seedEmployee(dateutil.Date{Year: 2010, Month: 1, Day: 1})
	from := dateutil.Date{Year: 2010, Month: 1, Day: 1}
	employee.EmploymentHistory = []models.EmploymentBlock{{
		ID:               "b1",
		EmployeeID:       "e1",
		Status:           models.StatusInService,
		FromDate:         &from,
		CurrentlyWorking: true,
	}}
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{"e1": employee}}
	svc := newEmployeeService(repo)

	// Moving the appointment after the first posting's start breaks the
	// anchor rule, so the update must be rejected.
	_, err := svc.Update(context.Background(), "e1", UpdateEmployeeRequest{
		FullName:          "Abdul Rehman",
		DateOfAppointment: dateutil.Date{Year: 2011, Month: 1, Day: 1},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrTimelineInvalid.Code, appErr.Code)
	assert.NotEmpty(t, appErr.Details)
}

func TestEmployeeServiceDeactivate(t *testing.T) {
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{"e1": seedEmployee(dateutil.Date{Year: 2010, Month: 1, Day: 1})}}
	svc := newEmployeeService(repo)

	err := svc.Deactivate(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, repo.deactivated)
}

func TestEmployeeServiceValidateHistoryReportsErrorsAndAutoFill(t *testing.T) {
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{"e1": seedEmployee(dateutil.Date{Year: 2010, Month: 1, Day: 1})}}
	svc := newEmployeeService(repo)

	from := dateutil.Date{Year: 2010, Month: 1, Day: 1}
	retired := dateutil.Date{Year: 2020, Month: 6, Day: 1}
	req := dto.UpdateHistoryRequest{EmploymentHistory: []dto.EmploymentBlockPayload{
		{Status: models.StatusInService, FromDate: &from, PostingPlaceTitle: "District Courts Lahore"},
		{Status: models.StatusRetired, StatusDate: &retired},
	}}

	resp, err := svc.ValidateHistory(context.Background(), "e1", req)
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	require.NotNil(t, resp.AutoFill)
	assert.Equal(t, 0, resp.AutoFill.Block)
	assert.Equal(t, timeline.FieldToDate, resp.AutoFill.Field)
}

func TestEmployeeServiceValidateHistoryUnknownEmployee(t *testing.T) {
	svc := newEmployeeService(&mockEmployeeRepo{})

	_, err := svc.ValidateHistory(context.Background(), "missing", dto.UpdateHistoryRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestEmployeeServiceReplaceHistoryAppliesAutoFill(t *testing.T) {
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{"e1": seedEmployee(dateutil.Date{Year: 2010, Month: 1, Day: 1})}}
	svc := newEmployeeService(repo)

	from := dateutil.Date{Year: 2010, Month: 1, Day: 1}
	retired := dateutil.Date{Year: 2020, Month: 6, Day: 1}
	req := dto.UpdateHistoryRequest{EmploymentHistory: []dto.EmploymentBlockPayload{
		{Status: models.StatusInService, FromDate: &from, PostingPlaceTitle: "District Courts Lahore"},
		{Status: models.StatusRetired, StatusDate: &retired},
	}}

	saved, err := svc.ReplaceHistory(context.Background(), "e1", req)
	require.NoError(t, err)
	require.Len(t, saved.EmploymentHistory, 2)

	// The open posting must have been closed at the retirement date.
	stored := repo.replaced["e1"]
	require.Len(t, stored, 2)
	require.NotNil(t, stored[0].ToDate)
	assert.Equal(t, retired, *stored[0].ToDate)
}

func TestEmployeeServiceReplaceHistoryRejectsOverlap(t *testing.T) {
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{"e1": seedEmployee(dateutil.Date{Year: 2010, Month: 1, Day: 1})}}
	svc := newEmployeeService(repo)

	from1 := dateutil.Date{Year: 2010, Month: 1, Day: 1}
	to1 := dateutil.Date{Year: 2016, Month: 1, Day: 1}
	from2 := dateutil.Date{Year: 2015, Month: 1, Day: 1}
	req := dto.UpdateHistoryRequest{EmploymentHistory: []dto.EmploymentBlockPayload{
		{Status: models.StatusInService, FromDate: &from1, ToDate: &to1, PostingPlaceTitle: "District Courts Lahore"},
		{Status: models.StatusInService, FromDate: &from2, CurrentlyWorking: true, PostingPlaceTitle: "District Courts Kasur"},
	}}

	_, err := svc.ReplaceHistory(context.Background(), "e1", req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrTimelineInvalid.Code, appErr.Code)
	require.NotEmpty(t, appErr.Details)
	assert.Empty(t, repo.replaced)
}

func TestEmployeeServiceReplaceHistoryRecomputesLeaveDays(t *testing.T) {
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{"e1": seedEmployee(dateutil.Date{Year: 2010, Month: 1, Day: 1})}}
	svc := newEmployeeService(repo)

	from := dateutil.Date{Year: 2010, Month: 1, Day: 1}
	leaveStart := dateutil.Date{Year: 2011, Month: 3, Day: 1}
	leaveEnd := dateutil.Date{Year: 2011, Month: 3, Day: 10}
	req := dto.UpdateHistoryRequest{EmploymentHistory: []dto.EmploymentBlockPayload{
		{
			Status:            models.StatusInService,
			FromDate:          &from,
			CurrentlyWorking:  true,
			PostingPlaceTitle: "District Courts Lahore",
			Leaves: []dto.LeavePayload{
				{Type: "MEDICAL", StartDate: &leaveStart, EndDate: &leaveEnd},
			},
		},
	}}

	_, err := svc.ReplaceHistory(context.Background(), "e1", req)
	require.NoError(t, err)
	stored := repo.replaced["e1"]
	require.Len(t, stored, 1)
	require.Len(t, stored[0].Leaves, 1)
	assert.Equal(t, 10, stored[0].Leaves[0].Days)
}

func TestEmployeeServiceListWrapsRepoError(t *testing.T) {
	repo := &mockEmployeeRepo{listErr: errors.New("boom")}
	svc := newEmployeeService(repo)

	_, _, err := svc.List(context.Background(), models.EmployeeFilter{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}
