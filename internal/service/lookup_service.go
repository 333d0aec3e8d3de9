package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zafarh/dsj-hrms-api/internal/models"
	appErrors "github.com/zafarh/dsj-hrms-api/pkg/errors"
)

type lookupRepository interface {
	ListDesignations(ctx context.Context) ([]models.Designation, error)
	ListPostingCategories(ctx context.Context) ([]models.PostingCategory, error)
}

// LookupService serves the master-data dropdowns. The tables are tiny and
// change only by migration, so results are cached aggressively.
type LookupService struct {
	repo   lookupRepository
	cache  employeeCache
	logger *zap.Logger
	ttl    time.Duration
}

// NewLookupService constructs a LookupService.
func NewLookupService(repo lookupRepository, cache employeeCache, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{repo: repo, cache: cache, logger: logger, ttl: time.Hour}
}

// Designations returns all designations.
func (s *LookupService) Designations(ctx context.Context) ([]models.Designation, error) {
	if s.cache != nil {
		var cached []models.Designation
		if hit, err := s.cache.Get(ctx, "lookup:designations", &cached); err == nil && hit {
			return cached, nil
		}
	}
	designations, err := s.repo.ListDesignations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list designations")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, "lookup:designations", designations, s.ttl); err != nil {
			s.logger.Sugar().Warnw("designation cache write failed", "error", err)
		}
	}
	return designations, nil
}

// PostingCategories returns all posting categories.
func (s *LookupService) PostingCategories(ctx context.Context) ([]models.PostingCategory, error) {
	if s.cache != nil {
		var cached []models.PostingCategory
		if hit, err := s.cache.Get(ctx, "lookup:posting_categories", &cached); err == nil && hit {
			return cached, nil
		}
	}
	categories, err := s.repo.ListPostingCategories(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list posting categories")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, "lookup:posting_categories", categories, s.ttl); err != nil {
			s.logger.Sugar().Warnw("posting category cache write failed", "error", err)
		}
	}
	return categories, nil
}
