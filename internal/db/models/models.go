package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
)

// User represents a registered principal. The email is the login identity
// and is unique; uniqueness is enforced by the database constraint, not by
// a read-then-write check, so concurrent registrations cannot both succeed.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string    `bun:"id,pk,type:uuid" json:"id"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"` // bcrypt hash, never serialized
	Role         auth.Role `bun:"role,notnull" json:"role"`
	Department   string    `bun:"department" json:"department,omitempty"` // only meaningful for officials
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// IssueStatus is the lifecycle state of a reported issue.
type IssueStatus string

const (
	IssueOpen       IssueStatus = "OPEN"
	IssueInProgress IssueStatus = "IN_PROGRESS"
	IssueResolved   IssueStatus = "RESOLVED"
)

// ParseIssueStatus validates a status string from a request.
func ParseIssueStatus(s string) (IssueStatus, bool) {
	switch IssueStatus(s) {
	case IssueOpen, IssueInProgress, IssueResolved:
		return IssueStatus(s), true
	default:
		return "", false
	}
}

// Issue is a citizen-reported problem with an optional geotag and photo.
type Issue struct {
	bun.BaseModel `bun:"table:issues,alias:i"`

	ID          string      `bun:"id,pk,type:uuid" json:"id"`
	Title       string      `bun:"title,notnull" json:"title"`
	Description string      `bun:"description,notnull" json:"description"`
	Latitude    *float64    `bun:"latitude" json:"latitude,omitempty"`
	Longitude   *float64    `bun:"longitude" json:"longitude,omitempty"`
	ImageURL    string      `bun:"image_url" json:"imageUrl,omitempty"`
	Status      IssueStatus `bun:"status,notnull,default:'OPEN'" json:"status"`
	ReporterID  string      `bun:"reporter_id,notnull,type:uuid" json:"reporterId"` // FK to users(id)
	CreatedAt   time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time   `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
