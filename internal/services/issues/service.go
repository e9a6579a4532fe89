// Package issues implements the issue-reporting domain. It is a consumer
// of the auth core: the reporter identity always comes from the request
// context, never from the request body.
package issues

import (
	"context"
	"fmt"

	"github.com/Harsh-0z/civic-flow-backend/internal/db/models"
	"github.com/Harsh-0z/civic-flow-backend/internal/repository"
)

// Service provides issue CRUD on top of the repositories.
type Service struct {
	issues repository.IssueRepository
	users  repository.UserRepository
}

// NewService creates the issue service.
func NewService(issues repository.IssueRepository, users repository.UserRepository) *Service {
	return &Service{issues: issues, users: users}
}

// CreateParams carries a new issue report.
type CreateParams struct {
	Title       string
	Description string
	Latitude    *float64
	Longitude   *float64
	ImageURL    string
}

// Create records a new issue reported by the given identity.
func (s *Service) Create(ctx context.Context, reporterEmail string, params CreateParams) (*models.Issue, error) {
	if params.Title == "" || params.Description == "" {
		return nil, fmt.Errorf("title and description are required")
	}

	reporter, err := s.users.GetByEmail(ctx, reporterEmail)
	if err != nil {
		return nil, fmt.Errorf("resolve reporter: %w", err)
	}

	issue := &models.Issue{
		Title:       params.Title,
		Description: params.Description,
		Latitude:    params.Latitude,
		Longitude:   params.Longitude,
		ImageURL:    params.ImageURL,
		Status:      models.IssueOpen,
		ReporterID:  reporter.ID,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// List returns all issues for the map view.
func (s *Service) List(ctx context.Context) ([]models.Issue, error) {
	return s.issues.List(ctx)
}

// ListMine returns the issues reported by the given identity.
func (s *Service) ListMine(ctx context.Context, reporterEmail string) ([]models.Issue, error) {
	reporter, err := s.users.GetByEmail(ctx, reporterEmail)
	if err != nil {
		return nil, fmt.Errorf("resolve reporter: %w", err)
	}
	return s.issues.ListByReporter(ctx, reporter.ID)
}

// UpdateStatus moves an issue to a new lifecycle state.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.IssueStatus) (*models.Issue, error) {
	return s.issues.UpdateStatus(ctx, id, status)
}
