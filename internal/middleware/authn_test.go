package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
	"github.com/Harsh-0z/civic-flow-backend/internal/db/models"
	"github.com/Harsh-0z/civic-flow-backend/internal/repository"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

// stubUserRepo answers GetByEmail from a fixed set; the authentication
// filter only ever touches that one method.
type stubUserRepo struct {
	users  map[string]*models.User
	getErr error
}

func (s *stubUserRepo) Create(context.Context, *models.User) error { return nil }

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	user, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
	}
	return user, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
}

func (s *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := s.users[email]
	return ok, nil
}

func (s *stubUserRepo) List(context.Context) ([]models.User, error) { return nil, nil }
func (s *stubUserRepo) Delete(context.Context, string) error        { return nil }

func (s *stubUserRepo) DeleteWithIssues(context.Context, string) error { return nil }

// capture records whether the downstream handler ran and what principal it saw.
type capture struct {
	called    bool
	principal *auth.AuthenticatedPrincipal
}

func (c *capture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		if p, ok := auth.GetUserFromContext(r.Context()); ok {
			c.principal = &p
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthn_NoHeader(t *testing.T) {
	codec := auth.NewTokenCodec(testKey)
	repo := &stubUserRepo{users: map[string]*models.User{}}

	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "Token abc", "bearer lowercase"} {
		cap := &capture{}
		req := httptest.NewRequest(http.MethodGet, "/issues", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		NewAuthnMiddleware(codec, repo)(cap.handler()).ServeHTTP(rec, req)

		assert.True(t, cap.called, "header %q", header)
		assert.Nil(t, cap.principal, "header %q", header)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestAuthn_InvalidToken(t *testing.T) {
	codec := auth.NewTokenCodec(testKey)
	repo := &stubUserRepo{users: map[string]*models.User{}}

	cap := &capture{}
	req := httptest.NewRequest(http.MethodGet, "/issues", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()

	NewAuthnMiddleware(codec, repo)(cap.handler()).ServeHTTP(rec, req)

	assert.True(t, cap.called)
	assert.Nil(t, cap.principal)
}

func TestAuthn_ExpiredToken(t *testing.T) {
	issuedAt := time.Now().Add(-2 * auth.TokenLifetime)
	issuer := auth.NewTokenCodec(testKey).WithClock(func() time.Time { return issuedAt })
	token, err := issuer.Issue("alice@example.com", auth.RoleCitizen)
	require.NoError(t, err)

	codec := auth.NewTokenCodec(testKey)
	repo := &stubUserRepo{users: map[string]*models.User{
		"alice@example.com": {Email: "alice@example.com", Role: auth.RoleCitizen},
	}}

	cap := &capture{}
	req := httptest.NewRequest(http.MethodGet, "/issues", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewAuthnMiddleware(codec, repo)(cap.handler()).ServeHTTP(rec, req)

	assert.True(t, cap.called)
	assert.Nil(t, cap.principal)
}

func TestAuthn_ValidToken(t *testing.T) {
	codec := auth.NewTokenCodec(testKey)
	token, err := codec.Issue("alice@example.com", auth.RoleOfficial)
	require.NoError(t, err)

	repo := &stubUserRepo{users: map[string]*models.User{
		"alice@example.com": {Email: "alice@example.com", Role: auth.RoleOfficial},
	}}

	cap := &capture{}
	req := httptest.NewRequest(http.MethodGet, "/issues", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewAuthnMiddleware(codec, repo)(cap.handler()).ServeHTTP(rec, req)

	assert.True(t, cap.called)
	require.NotNil(t, cap.principal)
	assert.Equal(t, "alice@example.com", cap.principal.Identity)
	assert.Equal(t, auth.RoleOfficial, cap.principal.Role)
}

func TestAuthn_DeletedPrincipal(t *testing.T) {
	codec := auth.NewTokenCodec(testKey)
	token, err := codec.Issue("gone@example.com", auth.RoleCitizen)
	require.NoError(t, err)

	// Token is signed and unexpired, but the account no longer exists.
	repo := &stubUserRepo{users: map[string]*models.User{}}

	cap := &capture{}
	req := httptest.NewRequest(http.MethodGet, "/issues", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewAuthnMiddleware(codec, repo)(cap.handler()).ServeHTTP(rec, req)

	assert.True(t, cap.called)
	assert.Nil(t, cap.principal)
}

func TestAuthn_StoreFailure(t *testing.T) {
	codec := auth.NewTokenCodec(testKey)
	token, err := codec.Issue("alice@example.com", auth.RoleCitizen)
	require.NoError(t, err)

	repo := &stubUserRepo{getErr: errors.New("connection refused")}

	cap := &capture{}
	req := httptest.NewRequest(http.MethodGet, "/issues", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	NewAuthnMiddleware(codec, repo)(cap.handler()).ServeHTTP(rec, req)

	assert.False(t, cap.called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthn_ExistingPrincipalKept(t *testing.T) {
	codec := auth.NewTokenCodec(testKey)
	token, err := codec.Issue("mallory@example.com", auth.RoleAdmin)
	require.NoError(t, err)

	repo := &stubUserRepo{users: map[string]*models.User{
		"mallory@example.com": {Email: "mallory@example.com", Role: auth.RoleAdmin},
	}}

	cap := &capture{}
	req := httptest.NewRequest(http.MethodGet, "/issues", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req = req.WithContext(auth.SetUserContext(req.Context(), auth.AuthenticatedPrincipal{
		Identity: "alice@example.com",
		Role:     auth.RoleCitizen,
	}))
	rec := httptest.NewRecorder()

	NewAuthnMiddleware(codec, repo)(cap.handler()).ServeHTTP(rec, req)

	assert.True(t, cap.called)
	require.NotNil(t, cap.principal)
	assert.Equal(t, "alice@example.com", cap.principal.Identity)
	assert.Equal(t, auth.RoleCitizen, cap.principal.Role)
}
