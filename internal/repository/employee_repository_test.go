package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
)

func newEmployeeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func employeeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name", "father_name", "cnic", "date_of_birth", "date_of_appointment", "active", "created_at", "updated_at"}).
		AddRow("e1", "Muhammad Aslam", nil, "35202-1234567-1", nil, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), true, time.Now(), time.Now())
}

func TestEmployeeRepositoryList(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery("SELECT e.id, e.full_name, e.father_name, e.cnic, e.date_of_birth, e.date_of_appointment, e.active, e.created_at, e.updated_at FROM employees e WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WillReturnRows(employeeRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM employees e WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, dateutil.Date{Year: 2010, Month: 1, Day: 1}, list[0].DateOfAppointment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryGetWithHistory(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery("SELECT id, full_name, .+ FROM employees WHERE id = \\$1").
		WithArgs("e1").
		WillReturnRows(employeeRows())

	historyRows := sqlmock.NewRows([]string{
		"id", "employee_id", "status", "from_date", "to_date", "status_date", "currently_working",
		"posting_place_title", "hq_id", "tehsil_id", "posting_category_id", "unit_id", "designation_id", "bps",
		"order_number", "order_date", "status_remarks", "position", "created_at", "updated_at",
	}).
		AddRow("h1", "e1", "IN_SERVICE", time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), nil, nil, true,
			"Civil Court Okara", nil, nil, nil, nil, nil, nil, "EST/2010/001", nil, "", 0, time.Now(), time.Now())
	mock.ExpectQuery("SELECT .+ FROM employment_history WHERE employee_id = \\$1 ORDER BY position ASC").
		WithArgs("e1").
		WillReturnRows(historyRows)

	leaveRows := sqlmock.NewRows([]string{"id", "employment_history_id", "type", "start_date", "end_date", "days", "remarks"}).
		AddRow("l1", "h1", "Medical", time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2020, 3, 20, 0, 0, 0, 0, time.UTC), 11, "")
	mock.ExpectQuery("SELECT .+ FROM leaves WHERE employment_history_id IN").
		WithArgs("h1").
		WillReturnRows(leaveRows)

	actionRows := sqlmock.NewRows([]string{"id", "employment_history_id", "complaint_inquiry", "allegation", "inquiry_status",
		"court_name", "hearing_date", "decision_date", "decision", "action_date", "remarks"})
	mock.ExpectQuery("SELECT .+ FROM disciplinary_actions WHERE employment_history_id IN").
		WithArgs("h1").
		WillReturnRows(actionRows)

	employee, err := repo.GetWithHistory(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, employee.EmploymentHistory, 1)
	block := employee.EmploymentHistory[0]
	assert.Equal(t, models.StatusInService, block.Status)
	assert.True(t, block.CurrentlyWorking)
	require.Len(t, block.Leaves, 1)
	assert.Equal(t, 11, block.Leaves[0].Days)
	assert.Empty(t, block.DisciplinaryActions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryCreateAndDeactivate(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("INSERT INTO employees").
		WithArgs(sqlmock.AnyArg(), "Muhammad Aslam", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	employee := &models.Employee{
		FullName:          "Muhammad Aslam",
		DateOfAppointment: dateutil.Date{Year: 2010, Month: 1, Day: 1},
		Active:            true,
	}
	require.NoError(t, repo.Create(context.Background(), employee))
	assert.NotEmpty(t, employee.ID)

	mock.ExpectExec("UPDATE employees SET active = FALSE").
		WithArgs("e1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryReplaceHistory(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM leaves WHERE employment_history_id IN").
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM disciplinary_actions WHERE employment_history_id IN").
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM employment_history WHERE employee_id = \\$1").
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO employment_history").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO leaves").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE employees SET updated_at").
		WithArgs("e1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	from := dateutil.Date{Year: 2010, Month: 1, Day: 1}
	history := []models.EmploymentBlock{{
		Status:            models.StatusInService,
		FromDate:          &from,
		CurrentlyWorking:  true,
		PostingPlaceTitle: "Civil Court Okara",
		Leaves: []models.Leave{{
			Type:      "Medical",
			StartDate: &dateutil.Date{Year: 2020, Month: 3, Day: 10},
			EndDate:   &dateutil.Date{Year: 2020, Month: 3, Day: 20},
			Days:      11,
		}},
	}}

	require.NoError(t, repo.ReplaceHistory(context.Background(), "e1", history))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryExistsByCNIC(t *testing.T) {
	db, mock, cleanup := newEmployeeRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM employees WHERE cnic = $1 LIMIT 1")).
		WithArgs("35202-1234567-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByCNIC(context.Background(), "35202-1234567-1", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCNIC(context.Background(), "  ", "")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
