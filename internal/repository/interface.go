package repository

import (
	"context"
	"errors"

	"github.com/Harsh-0z/civic-flow-backend/internal/db/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// UserRepository is the credential store adapter. The auth core consumes
// only these operations; storage format is the repository's concern.
type UserRepository interface {
	// Create inserts a new user. A duplicate email surfaces the store's
	// uniqueness violation (detectable via IsUniqueViolation), which is
	// what closes the concurrent-registration race.
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id string) error
	// DeleteWithIssues removes the user and every issue they reported in
	// one transaction; a failure on either statement leaves both intact.
	DeleteWithIssues(ctx context.Context, id string) error
}

// IssueRepository provides persistence for reported issues.
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	GetByID(ctx context.Context, id string) (*models.Issue, error)
	List(ctx context.Context) ([]models.Issue, error)
	ListByReporter(ctx context.Context, reporterID string) ([]models.Issue, error)
	UpdateStatus(ctx context.Context, id string, status models.IssueStatus) (*models.Issue, error)
}
