package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/zafarh/dsj-hrms-api/internal/dto"
	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/internal/timeline"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
	appErrors "github.com/zafarh/dsj-hrms-api/pkg/errors"
)

type lifecycleEmployeeStore interface {
	GetWithHistory(ctx context.Context, id string) (*models.Employee, error)
	ReplaceHistory(ctx context.Context, employeeID string, history []models.EmploymentBlock) error
}

type classifierSource interface {
	ListDesignations(ctx context.Context) ([]models.Designation, error)
	ListPostingCategories(ctx context.Context) ([]models.PostingCategory, error)
}

type auditRecorder interface {
	Record(action, resource string, resourceID *string, actorID *string, payload interface{})
}

// LifecycleService runs the transactional career operations: transfer,
// rejoin and succession. Each one loads the full history, hands it to the
// engine, and persists the replacement only when the engine returns a clean
// revalidation. Nothing is written on any violation.
type LifecycleService struct {
	employees lifecycleEmployeeStore
	lookups   classifierSource
	audit     auditRecorder
	logger    *zap.Logger
}

// NewLifecycleService constructs a LifecycleService.
func NewLifecycleService(employees lifecycleEmployeeStore, lookups classifierSource, audit auditRecorder, logger *zap.Logger) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{employees: employees, lookups: lookups, audit: audit, logger: logger}
}

// Transfer relocates the employee to a new posting.
func (s *LifecycleService) Transfer(ctx context.Context, employeeID string, req dto.TransferRequest, actorID string) (*models.Employee, error) {
	employee, err := s.load(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	next, res := timeline.Transfer(*employee, req.ToInput())
	if !res.OK() {
		return nil, timelineError(res)
	}

	saved, err := s.persist(ctx, employee, next)
	if err != nil {
		return nil, err
	}
	s.recordAudit(models.AuditActionTransfer, employeeID, actorID, req)
	return saved, nil
}

// RejoinPreview reports the absence span a rejoin would record without
// writing anything.
func (s *LifecycleService) RejoinPreview(ctx context.Context, employeeID string, rejoinDate dateutil.Date) (*dto.RejoinPreviewResponse, error) {
	employee, err := s.load(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	idx := timeline.LatestExitBlock(employee.EmploymentHistory)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrIneligible, "employee has no exit record to rejoin from")
	}
	exit := employee.EmploymentHistory[idx]
	if exit.StatusDate == nil {
		return nil, appErrors.Clone(appErrors.ErrIneligible, "exit record has no status date")
	}
	if !rejoinDate.After(*exit.StatusDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejoin date must be after the exit date")
	}

	return &dto.RejoinPreviewResponse{
		ExitStatus: exit.Status,
		ExitDate:   *exit.StatusDate,
		RejoinDate: rejoinDate,
		AbsentDays: timeline.AbsentDays(*exit.StatusDate, rejoinDate),
	}, nil
}

// Rejoin reopens service after a rejoinable exit and reports the recorded
// absence.
func (s *LifecycleService) Rejoin(ctx context.Context, employeeID string, req dto.RejoinRequest, actorID string) (*models.Employee, int, error) {
	employee, err := s.load(ctx, employeeID)
	if err != nil {
		return nil, 0, err
	}

	next, absentDays, res := timeline.Rejoin(*employee, req.ToInput())
	if !res.OK() {
		return nil, 0, timelineError(res)
	}

	saved, err := s.persist(ctx, employee, next)
	if err != nil {
		return nil, 0, err
	}
	s.recordAudit(models.AuditActionRejoin, employeeID, actorID, req)
	return saved, absentDays, nil
}

// Succession renames the employee's current seat.
func (s *LifecycleService) Succession(ctx context.Context, employeeID string, req dto.SuccessionRequest, actorID string) (*models.Employee, error) {
	employee, err := s.load(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	classifier, err := s.buildClassifier(ctx)
	if err != nil {
		return nil, err
	}

	next, res := timeline.Succession(*employee, req.ToInput(), classifier)
	if !res.OK() {
		return nil, timelineError(res)
	}

	saved, err := s.persist(ctx, employee, next)
	if err != nil {
		return nil, err
	}
	s.recordAudit(models.AuditActionSuccession, employeeID, actorID, req)
	return saved, nil
}

func (s *LifecycleService) load(ctx context.Context, employeeID string) (*models.Employee, error) {
	employee, err := s.employees.GetWithHistory(ctx, employeeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	employee.EmploymentHistory = timeline.SortChronological(employee.EmploymentHistory)
	return employee, nil
}

func (s *LifecycleService) persist(ctx context.Context, employee *models.Employee, next []models.EmploymentBlock) (*models.Employee, error) {
	if err := s.employees.ReplaceHistory(ctx, employee.ID, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save employment history")
	}
	saved := *employee
	saved.EmploymentHistory = next
	return &saved, nil
}

// buildClassifier closes the succession predicates over the master data.
func (s *LifecycleService) buildClassifier(ctx context.Context) (timeline.Classifier, error) {
	designations, err := s.lookups.ListDesignations(ctx)
	if err != nil {
		return timeline.Classifier{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load designations")
	}
	categories, err := s.lookups.ListPostingCategories(ctx)
	if err != nil {
		return timeline.Classifier{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load posting categories")
	}

	judicial := make(map[string]bool, len(designations))
	for _, d := range designations {
		judicial[d.ID] = d.IsJudicial
	}
	office := make(map[string]bool, len(categories))
	for _, c := range categories {
		office[c.ID] = c.IsOffice
	}

	return timeline.Classifier{
		IsJudicial:       func(id string) bool { return judicial[id] },
		IsOfficeCategory: func(id string) bool { return office[id] },
	}, nil
}

func (s *LifecycleService) recordAudit(action, employeeID, actorID string, payload interface{}) {
	if s.audit == nil {
		return
	}
	var actor *string
	if actorID != "" {
		actor = &actorID
	}
	id := employeeID
	s.audit.Record(action, "employee", &id, actor, payload)
}

func timelineError(res *timeline.Result) error {
	for _, e := range res.Errors {
		if e.Kind == timeline.KindEligibility {
			return appErrors.WithDetails(appErrors.Clone(appErrors.ErrIneligible, e.Message), res.Errors)
		}
	}
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrTimelineInvalid, ""), res.Errors)
}
