package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zafarh/dsj-hrms-api/internal/dto"
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/internal/timeline"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
	appErrors "github.com/zafarh/dsj-hrms-api/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	GetWithHistory(ctx context.Context, id string) (*models.Employee, error)
	ExistsByCNIC(ctx context.Context, cnic, excludeID string) (bool, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Deactivate(ctx context.Context, id string) error
	ReplaceHistory(ctx context.Context, employeeID string, history []models.EmploymentBlock) error
}

type employeeCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// CreateEmployeeRequest represents payload for registering employees.
type CreateEmployeeRequest struct {
	FullName          string         `json:"full_name" validate:"required"`
	FatherName        *string        `json:"father_name" validate:"omitempty,max=200"`
	CNIC              *string        `json:"cnic" validate:"omitempty,max=20"`
	DateOfBirth       *dateutil.Date `json:"date_of_birth"`
	DateOfAppointment dateutil.Date  `json:"date_of_appointment"`
}

// UpdateEmployeeRequest represents payload for updating employee masters.
type UpdateEmployeeRequest struct {
	FullName          string         `json:"full_name" validate:"required"`
	FatherName        *string        `json:"father_name" validate:"omitempty,max=200"`
	CNIC              *string        `json:"cnic" validate:"omitempty,max=20"`
	DateOfBirth       *dateutil.Date `json:"date_of_birth"`
	DateOfAppointment dateutil.Date  `json:"date_of_appointment"`
	Active            *bool          `json:"active"`
}

// EmployeeServiceConfig tunes caching behaviour.
type EmployeeServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// EmployeeService orchestrates employee masters and their service
// histories. Every history write runs through the timeline engine; an
// inconsistent timeline is rejected wholesale, never partially saved.
type EmployeeService struct {
	repo      employeeRepository
	cache     employeeCache
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cfg       EmployeeServiceConfig
}

// NewEmployeeService constructs an EmployeeService. metrics may be nil.
func NewEmployeeService(repo employeeRepository, cache employeeCache, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, cfg EmployeeServiceConfig) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &EmployeeService{repo: repo, cache: cache, validator: validate, logger: logger, metrics: metrics, cfg: cfg}
}

// List returns employees plus pagination data.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, *models.Pagination, error) {
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return employees, pagination, nil
}

// Get returns an employee with the normalised service history: blocks in
// chronological order, leaves clamped into their block and day counts
// refreshed. Reads go through the cache when enabled.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, bool, error) {
	if s.cacheActive() {
		var cached models.Employee
		if hit, err := s.cache.Get(ctx, s.cacheKey(id), &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	employee, err := s.repo.GetWithHistory(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	s.normalizeHistory(employee)

	if s.cacheActive() {
		if err := s.cache.Set(ctx, s.cacheKey(id), employee, s.cfg.CacheTTL); err != nil {
			s.logger.Sugar().Warnw("employee cache write failed", "employee_id", id, "error", err)
		}
	}
	return employee, false, nil
}

// Create registers a new employee master record with an empty history.
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	if req.DateOfAppointment.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date of appointment is required")
	}
	if err := req.DateOfAppointment.Validate(); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date of appointment is not a valid calendar date")
	}
	if err := s.ensureUniqueCNIC(ctx, req.CNIC, ""); err != nil {
		return nil, err
	}

	employee := &models.Employee{
		FullName:          strings.TrimSpace(req.FullName),
		FatherName:        normalizeOptional(req.FatherName),
		CNIC:              normalizeOptional(req.CNIC),
		DateOfBirth:       req.DateOfBirth,
		DateOfAppointment: req.DateOfAppointment,
		Active:            true,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return employee, nil
}

// Update modifies an employee master record. Changing the date of
// appointment revalidates the stored history against the new anchor.
func (s *EmployeeService) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	if req.DateOfAppointment.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date of appointment is required")
	}

	employee, err := s.repo.GetWithHistory(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	if err := s.ensureUniqueCNIC(ctx, req.CNIC, id); err != nil {
		return nil, err
	}

	if !req.DateOfAppointment.Equal(employee.DateOfAppointment) && len(employee.EmploymentHistory) > 0 {
		if res := s.runChecks(req.DateOfAppointment, employee.EmploymentHistory); !res.OK() {
			return nil, appErrors.WithDetails(
				appErrors.Clone(appErrors.ErrTimelineInvalid, "new date of appointment conflicts with the recorded service history"),
				res.Errors)
		}
	}

	employee.FullName = strings.TrimSpace(req.FullName)
	employee.FatherName = normalizeOptional(req.FatherName)
	employee.CNIC = normalizeOptional(req.CNIC)
	employee.DateOfBirth = req.DateOfBirth
	employee.DateOfAppointment = req.DateOfAppointment
	if req.Active != nil {
		employee.Active = *req.Active
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	s.invalidate(ctx, id)
	return employee, nil
}

// Deactivate retires an employee master record from list screens.
func (s *EmployeeService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate employee")
	}
	s.invalidate(ctx, id)
	return nil
}

// ValidateHistory dry-runs the timeline engine against a submitted history
// without persisting anything. The form calls this on every change.
func (s *EmployeeService) ValidateHistory(ctx context.Context, id string, req dto.UpdateHistoryRequest) (*dto.HistoryValidationResponse, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	history := req.ToModels(id)
	res := s.runChecks(employee.DateOfAppointment, history)

	resp := &dto.HistoryValidationResponse{Valid: res.OK(), Errors: res.Errors}
	if patch, ok := timeline.ProposeAutoFill(employee.DateOfAppointment, history); ok {
		resp.AutoFill = &patch
	}
	return resp, nil
}

// ReplaceHistory validates and persists a full replacement service history.
// Pending auto-fills are applied before validation, so an open posting
// followed by an exit record is closed automatically rather than rejected.
func (s *EmployeeService) ReplaceHistory(ctx context.Context, id string, req dto.UpdateHistoryRequest) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	history := req.ToModels(id)
	history = s.applyAutoFills(employee.DateOfAppointment, history)

	if res := s.runChecks(employee.DateOfAppointment, history); !res.OK() {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrTimelineInvalid, ""), res.Errors)
	}

	history = timeline.SortChronological(history)
	for i := range history {
		history[i].Leaves = recomputeLeaveDays(history[i].Leaves)
	}

	if err := s.repo.ReplaceHistory(ctx, id, history); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save employment history")
	}
	s.invalidate(ctx, id)

	saved, _, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// runChecks is the complete engine pass: block dates, overlaps, sequencing,
// anchor, completeness, current-flag uniqueness, then the nested leave and
// disciplinary rules per block.
func (s *EmployeeService) runChecks(doa dateutil.Date, history []models.EmploymentBlock) *timeline.Result {
	res := timeline.ValidateHistory(doa, history)
	for i, block := range history {
		res.Merge(timeline.ValidateLeaves(i, block))
		res.Merge(timeline.ValidateDisciplinaryActions(i, block))
	}
	s.metrics.RecordTimelineCheck(res.OK())
	return res
}

func (s *EmployeeService) applyAutoFills(doa dateutil.Date, history []models.EmploymentBlock) []models.EmploymentBlock {
	for i := 0; i < len(history); i++ {
		patch, ok := timeline.ProposeAutoFill(doa, history)
		if !ok {
			break
		}
		history = timeline.ApplyPatch(history, patch)
	}
	return history
}

func (s *EmployeeService) normalizeHistory(employee *models.Employee) {
	employee.EmploymentHistory = timeline.SortChronological(employee.EmploymentHistory)
	for i := range employee.EmploymentHistory {
		employee.EmploymentHistory[i].Leaves = timeline.ClampLeaves(employee.EmploymentHistory[i])
	}
}

func recomputeLeaveDays(leaves []models.Leave) []models.Leave {
	for i := range leaves {
		leaves[i].Days = timeline.LeaveDays(leaves[i])
	}
	return leaves
}

func (s *EmployeeService) ensureUniqueCNIC(ctx context.Context, cnic *string, excludeID string) error {
	if cnic == nil || strings.TrimSpace(*cnic) == "" {
		return nil
	}
	exists, err := s.repo.ExistsByCNIC(ctx, strings.TrimSpace(*cnic), excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check cnic uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "another employee already uses this CNIC")
	}
	return nil
}

func (s *EmployeeService) cacheActive() bool {
	return s.cfg.CacheEnabled && s.cache != nil
}

func (s *EmployeeService) cacheKey(id string) string {
	return fmt.Sprintf("employee:%s", id)
}

func (s *EmployeeService) invalidate(ctx context.Context, id string) {
	if !s.cacheActive() {
		return
	}
	if err := s.cache.Invalidate(ctx, s.cacheKey(id)); err != nil {
		s.logger.Sugar().Warnw("employee cache invalidation failed", "employee_id", id, "error", err)
	}
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
