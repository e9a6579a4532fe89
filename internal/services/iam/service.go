// Package iam implements credential issuance: registration and login.
// Token verification on later requests lives in the middleware package;
// this service is only touched by the /auth endpoints and the bootstrap CLI.
package iam

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
	"github.com/Harsh-0z/civic-flow-backend/internal/db/models"
	"github.com/Harsh-0z/civic-flow-backend/internal/repository"
)

var (
	// ErrDuplicateIdentity is returned when the email is already registered.
	ErrDuplicateIdentity = errors.New("email is already taken")

	// ErrElevationRequired is returned when a privileged role is requested
	// without a valid admin signup token.
	ErrElevationRequired = errors.New("missing or invalid elevation token")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password. Callers must not be able to tell which factor
	// failed, so the two cases share one error value.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service orchestrates registration and login against the credential store.
type Service struct {
	users            repository.UserRepository
	tokens           *auth.TokenCodec
	adminSignupToken string
}

// NewService creates the authentication service. adminSignupToken is the
// shared secret that gates privileged-role registration.
func NewService(users repository.UserRepository, tokens *auth.TokenCodec, adminSignupToken string) *Service {
	return &Service{
		users:            users,
		tokens:           tokens,
		adminSignupToken: adminSignupToken,
	}
}

// RegisterParams carries the registration request fields.
type RegisterParams struct {
	Email      string
	Password   string
	Role       auth.Role
	Department string
	// AdminToken must match the configured signup secret when Role is
	// privileged; ignored for citizens.
	AdminToken string
}

// Register creates a new principal.
//
// The ExistsByEmail pre-check gives a friendly error for the common case,
// but the race between two concurrent registrations is closed by the
// database's unique constraint, whose violation is also mapped to
// ErrDuplicateIdentity.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	if params.Email == "" || params.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	if params.Role.Privileged() && !s.elevationTokenValid(params.AdminToken) {
		return nil, ErrElevationRequired
	}

	exists, err := s.users.ExistsByEmail(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, ErrDuplicateIdentity
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        params.Email,
		PasswordHash: hash,
		Role:         params.Role,
		Department:   params.Department,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("persist user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and issues a bearer token embedding the
// principal's stored role at issuance time. Lookup and password failures
// are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// elevationTokenValid compares the provided token against the configured
// secret in constant time.
func (s *Service) elevationTokenValid(provided string) bool {
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(s.adminSignupToken)) == 1
}
