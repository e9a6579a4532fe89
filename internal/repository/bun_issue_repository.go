package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Harsh-0z/civic-flow-backend/internal/db/models"
)

// BunIssueRepository implements IssueRepository using Bun ORM
type BunIssueRepository struct {
	db *bun.DB
}

// NewBunIssueRepository creates a new Bun-based issue repository
func NewBunIssueRepository(db *bun.DB) *BunIssueRepository {
	return &BunIssueRepository{db: db}
}

// Create inserts a new issue
func (r *BunIssueRepository) Create(ctx context.Context, issue *models.Issue) error {
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	if issue.Status == "" {
		issue.Status = models.IssueOpen
	}
	now := time.Now()
	issue.CreatedAt = now
	issue.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(issue).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create issue: %w", err)
	}
	return nil
}

// GetByID retrieves an issue by its ID
func (r *BunIssueRepository) GetByID(ctx context.Context, id string) (*models.Issue, error) {
	issue := new(models.Issue)
	err := r.db.NewSelect().
		Model(issue).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("issue %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get issue by ID: %w", err)
	}
	return issue, nil
}

// List retrieves all issues, newest first
func (r *BunIssueRepository) List(ctx context.Context) ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.NewSelect().
		Model(&issues).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

// ListByReporter retrieves all issues reported by a given user
func (r *BunIssueRepository) ListByReporter(ctx context.Context, reporterID string) ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.NewSelect().
		Model(&issues).
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list issues by reporter: %w", err)
	}
	return issues, nil
}

// UpdateStatus sets a new status on an issue and returns the updated row
func (r *BunIssueRepository) UpdateStatus(ctx context.Context, id string, status models.IssueStatus) (*models.Issue, error) {
	result, err := r.db.NewUpdate().
		Model((*models.Issue)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update issue status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("issue %s: %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, id)
}
