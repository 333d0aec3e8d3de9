package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zafarh/dsj-hrms-api/internal/models"
)

// LookupRepository reads the master-data tables backing form dropdowns and
// the succession classifier. These tables are seeded by migration and never
// written through the API.
type LookupRepository struct {
	db *sqlx.DB
}

// NewLookupRepository constructs a LookupRepository.
func NewLookupRepository(db *sqlx.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// ListDesignations returns all designations ordered by title.
func (r *LookupRepository) ListDesignations(ctx context.Context) ([]models.Designation, error) {
	const query = `SELECT id, title, is_judicial FROM designations ORDER BY title ASC`
	var designations []models.Designation
	if err := r.db.SelectContext(ctx, &designations, query); err != nil {
		return nil, fmt.Errorf("list designations: %w", err)
	}
	return designations, nil
}

// ListPostingCategories returns all posting categories ordered by title.
func (r *LookupRepository) ListPostingCategories(ctx context.Context) ([]models.PostingCategory, error) {
	const query = `SELECT id, title, is_office FROM posting_categories ORDER BY title ASC`
	var categories []models.PostingCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list posting categories: %w", err)
	}
	return categories, nil
}

// FindDesignation fetches one designation by ID.
func (r *LookupRepository) FindDesignation(ctx context.Context, id string) (*models.Designation, error) {
	const query = `SELECT id, title, is_judicial FROM designations WHERE id = $1`
	var designation models.Designation
	if err := r.db.GetContext(ctx, &designation, query, id); err != nil {
		return nil, err
	}
	return &designation, nil
}

// FindPostingCategory fetches one posting category by ID.
func (r *LookupRepository) FindPostingCategory(ctx context.Context, id string) (*models.PostingCategory, error) {
	const query = `SELECT id, title, is_office FROM posting_categories WHERE id = $1`
	var category models.PostingCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}
	return &category, nil
}
