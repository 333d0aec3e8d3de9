package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/pkg/jobs"
)

type auditStore interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuditService writes audit trail entries off the request path. Entries are
// pushed onto an in-memory queue and persisted by background workers; a
// failed write is retried by the queue and never fails the user's request.
type AuditService struct {
	store  auditStore
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService constructs the audit service with its worker queue.
func NewAuditService(store auditStore, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{store: store, logger: logger}
	s.queue = jobs.NewQueue("audit", s.handle, jobs.QueueConfig{
		Workers: 1,
		Logger:  logger,
	})
	return s
}

// Start boots the queue workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record enqueues one audit entry. Payload is serialised into NewValues.
func (s *AuditService) Record(action, resource string, resourceID *string, actorID *string, payload interface{}) {
	entry := &models.AuditLog{
		UserID:     actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			s.logger.Sugar().Warnw("audit payload marshal failed", "action", action, "error", err)
		} else {
			entry.NewValues = body
		}
	}
	if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: action, Payload: entry}); err != nil {
		s.logger.Sugar().Warnw("audit enqueue failed", "action", action, "error", err)
	}
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.AuditLog)
	if !ok {
		s.logger.Sugar().Warnw("audit job carried unexpected payload", "job_id", job.ID)
		return nil
	}
	return s.store.CreateAuditLog(ctx, entry)
}
