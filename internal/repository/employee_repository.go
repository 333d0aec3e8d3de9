package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zafarh/dsj-hrms-api/internal/models"
)

const employeeColumns = "id, full_name, father_name, cnic, date_of_birth, date_of_appointment, active, created_at, updated_at"

const historyColumns = `id, employee_id, status, from_date, to_date, status_date, currently_working,
	posting_place_title, hq_id, tehsil_id, posting_category_id, unit_id, designation_id, bps,
	order_number, order_date, status_remarks, position, created_at, updated_at`

// EmployeeRepository manages persistence for employees and their nested
// service histories.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employees matching filters along with total count. History is
// not loaded for list screens.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	base := "FROM employees e WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("e.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(e.full_name) LIKE $%d OR LOWER(COALESCE(e.father_name, '')) LIKE $%d OR COALESCE(e.cnic, '') LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM employment_history h WHERE h.employee_id = e.id AND h.currently_working AND h.status = $%d)", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.HQID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM employment_history h WHERE h.employee_id = e.id AND h.currently_working AND h.hq_id = $%d)", len(args)+1))
		args = append(args, filter.HQID)
	}
	if filter.TehsilID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM employment_history h WHERE h.employee_id = e.id AND h.currently_working AND h.tehsil_id = $%d)", len(args)+1))
		args = append(args, filter.TehsilID)
	}
	if filter.DesignationID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM employment_history h WHERE h.employee_id = e.id AND h.currently_working AND h.designation_id = $%d)", len(args)+1))
		args = append(args, filter.DesignationID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	allowedSorts := map[string]string{
		"full_name":           "full_name",
		"date_of_appointment": "date_of_appointment",
		"created_at":          "created_at",
		"updated_at":          "updated_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT e.%s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		strings.ReplaceAll(employeeColumns, ", ", ", e."), base, column, order, size, offset)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	return employees, total, nil
}

// FindByID fetches an employee master record without history.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees WHERE id = $1", employeeColumns)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByCNIC fetches an employee by national identity number.
func (r *EmployeeRepository) FindByCNIC(ctx context.Context, cnic string) (*models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees WHERE cnic = $1", employeeColumns)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, cnic); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ExistsByCNIC checks if another employee carries the same CNIC.
func (r *EmployeeRepository) ExistsByCNIC(ctx context.Context, cnic string, excludeID string) (bool, error) {
	if strings.TrimSpace(cnic) == "" {
		return false, nil
	}
	query := "SELECT 1 FROM employees WHERE cnic = $1"
	args := []interface{}{cnic}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check employee cnic: %w", err)
	}
	return true, nil
}

// GetWithHistory loads an employee with the full nested service history:
// blocks ordered by position, each with its leaves and disciplinary actions.
func (r *EmployeeRepository) GetWithHistory(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := r.loadHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	employee.EmploymentHistory = history
	return employee, nil
}

func (r *EmployeeRepository) loadHistory(ctx context.Context, employeeID string) ([]models.EmploymentBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM employment_history WHERE employee_id = $1 ORDER BY position ASC", historyColumns)
	var blocks []models.EmploymentBlock
	if err := r.db.SelectContext(ctx, &blocks, query, employeeID); err != nil {
		return nil, fmt.Errorf("load employment history: %w", err)
	}
	if len(blocks) == 0 {
		return blocks, nil
	}

	ids := make([]string, len(blocks))
	byID := make(map[string]int, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
		byID[b.ID] = i
	}

	leaveQuery, args, err := sqlx.In("SELECT id, employment_history_id, type, start_date, end_date, days, remarks FROM leaves WHERE employment_history_id IN (?) ORDER BY start_date ASC", ids)
	if err != nil {
		return nil, fmt.Errorf("build leave query: %w", err)
	}
	var leaves []models.Leave
	if err := r.db.SelectContext(ctx, &leaves, r.db.Rebind(leaveQuery), args...); err != nil {
		return nil, fmt.Errorf("load leaves: %w", err)
	}
	for _, l := range leaves {
		if i, ok := byID[l.EmploymentHistoryID]; ok {
			blocks[i].Leaves = append(blocks[i].Leaves, l)
		}
	}

	actionQuery, args, err := sqlx.In(`SELECT id, employment_history_id, complaint_inquiry, allegation, inquiry_status,
		court_name, hearing_date, decision_date, decision, action_date, remarks
		FROM disciplinary_actions WHERE employment_history_id IN (?) ORDER BY action_date ASC NULLS LAST`, ids)
	if err != nil {
		return nil, fmt.Errorf("build disciplinary query: %w", err)
	}
	var actions []models.DisciplinaryAction
	if err := r.db.SelectContext(ctx, &actions, r.db.Rebind(actionQuery), args...); err != nil {
		return nil, fmt.Errorf("load disciplinary actions: %w", err)
	}
	for _, a := range actions {
		if i, ok := byID[a.EmploymentHistoryID]; ok {
			blocks[i].DisciplinaryActions = append(blocks[i].DisciplinaryActions, a)
		}
	}

	return blocks, nil
}

// Create inserts a new employee master record.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now

	const query = `INSERT INTO employees (id, full_name, father_name, cnic, date_of_birth, date_of_appointment, active, created_at, updated_at)
		VALUES (:id, :full_name, :father_name, :cnic, :date_of_birth, :date_of_appointment, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update modifies an existing employee master record.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET full_name = :full_name, father_name = :father_name, cnic = :cnic,
		date_of_birth = :date_of_birth, date_of_appointment = :date_of_appointment, active = :active, updated_at = :updated_at
		WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// Deactivate sets an employee's active flag to false.
func (r *EmployeeRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE employees SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	return nil
}

// ReplaceHistory swaps an employee's entire service history inside one
// transaction: the nested rows are deleted and reinserted in slice order so
// the stored position always matches the validated timeline.
func (r *EmployeeRepository) ReplaceHistory(ctx context.Context, employeeID string, history []models.EmploymentBlock) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace history: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leaves WHERE employment_history_id IN (SELECT id FROM employment_history WHERE employee_id = $1)`, employeeID); err != nil {
		return fmt.Errorf("clear leaves: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM disciplinary_actions WHERE employment_history_id IN (SELECT id FROM employment_history WHERE employee_id = $1)`, employeeID); err != nil {
		return fmt.Errorf("clear disciplinary actions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM employment_history WHERE employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("clear employment history: %w", err)
	}

	now := time.Now().UTC()
	for i := range history {
		block := history[i]
		if block.ID == "" {
			block.ID = uuid.NewString()
		}
		block.EmployeeID = employeeID
		block.Position = i
		if block.CreatedAt.IsZero() {
			block.CreatedAt = now
		}
		block.UpdatedAt = now

		const blockQuery = `INSERT INTO employment_history (id, employee_id, status, from_date, to_date, status_date, currently_working,
			posting_place_title, hq_id, tehsil_id, posting_category_id, unit_id, designation_id, bps,
			order_number, order_date, status_remarks, position, created_at, updated_at)
			VALUES (:id, :employee_id, :status, :from_date, :to_date, :status_date, :currently_working,
			:posting_place_title, :hq_id, :tehsil_id, :posting_category_id, :unit_id, :designation_id, :bps,
			:order_number, :order_date, :status_remarks, :position, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, blockQuery, block); err != nil {
			return fmt.Errorf("insert employment block %d: %w", i, err)
		}

		for j := range block.Leaves {
			leave := block.Leaves[j]
			if leave.ID == "" {
				leave.ID = uuid.NewString()
			}
			leave.EmploymentHistoryID = block.ID
			const leaveQuery = `INSERT INTO leaves (id, employment_history_id, type, start_date, end_date, days, remarks)
				VALUES (:id, :employment_history_id, :type, :start_date, :end_date, :days, :remarks)`
			if _, err := tx.NamedExecContext(ctx, leaveQuery, leave); err != nil {
				return fmt.Errorf("insert leave %d of block %d: %w", j, i, err)
			}
		}

		for j := range block.DisciplinaryActions {
			action := block.DisciplinaryActions[j]
			if action.ID == "" {
				action.ID = uuid.NewString()
			}
			action.EmploymentHistoryID = block.ID
			const actionQuery = `INSERT INTO disciplinary_actions (id, employment_history_id, complaint_inquiry, allegation, inquiry_status,
				court_name, hearing_date, decision_date, decision, action_date, remarks)
				VALUES (:id, :employment_history_id, :complaint_inquiry, :allegation, :inquiry_status,
				:court_name, :hearing_date, :decision_date, :decision, :action_date, :remarks)`
			if _, err := tx.NamedExecContext(ctx, actionQuery, action); err != nil {
				return fmt.Errorf("insert disciplinary action %d of block %d: %w", j, i, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE employees SET updated_at = $2 WHERE id = $1`, employeeID, now); err != nil {
		return fmt.Errorf("touch employee: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace history: %w", err)
	}
	return nil
}
