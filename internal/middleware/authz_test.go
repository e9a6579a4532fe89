package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
)

func principal(role auth.Role) *auth.AuthenticatedPrincipal {
	return &auth.AuthenticatedPrincipal{Identity: "user@example.com", Role: role}
}

func TestDefaultPolicy_Decide(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name      string
		path      string
		method    string
		principal *auth.AuthenticatedPrincipal
		allow     bool
		reason    DenyReason
	}{
		{name: "login is public", path: "/auth/login", method: http.MethodPost, allow: true},
		{name: "register is public", path: "/auth/register", method: http.MethodPost, allow: true},
		{name: "health is public", path: "/health", method: http.MethodGet, allow: true},
		{name: "uploads are public", path: "/uploads/abc.jpg", method: http.MethodGet, allow: true},

		{name: "admin anonymous", path: "/admin/users", method: http.MethodGet, reason: DenyUnauthenticated},
		{name: "admin as citizen", path: "/admin/users", method: http.MethodGet, principal: principal(auth.RoleCitizen), reason: DenyForbidden},
		{name: "admin as official", path: "/admin/users", method: http.MethodGet, principal: principal(auth.RoleOfficial), reason: DenyForbidden},
		{name: "admin as admin", path: "/admin/users", method: http.MethodGet, principal: principal(auth.RoleAdmin), allow: true},

		{name: "issue collection put as citizen", path: "/issues", method: http.MethodPut, principal: principal(auth.RoleCitizen), reason: DenyForbidden},
		{name: "issue collection put as official", path: "/issues", method: http.MethodPut, principal: principal(auth.RoleOfficial), allow: true},
		{name: "issue put as citizen", path: "/issues/5", method: http.MethodPut, principal: principal(auth.RoleCitizen), reason: DenyForbidden},
		{name: "issue put as official", path: "/issues/5", method: http.MethodPut, principal: principal(auth.RoleOfficial), allow: true},
		{name: "issue put as admin", path: "/issues/5", method: http.MethodPut, principal: principal(auth.RoleAdmin), allow: true},

		{name: "status update anonymous", path: "/issues/5/status", method: http.MethodPut, reason: DenyUnauthenticated},
		{name: "status update as citizen", path: "/issues/5/status", method: http.MethodPut, principal: principal(auth.RoleCitizen), reason: DenyForbidden},
		{name: "status update as official", path: "/issues/5/status", method: http.MethodPut, principal: principal(auth.RoleOfficial), allow: true},
		{name: "status update as admin", path: "/issues/5/status", method: http.MethodPut, principal: principal(auth.RoleAdmin), allow: true},

		// Non-PUT issue reads fall through to the authenticated default.
		{name: "issue read anonymous", path: "/issues/5", method: http.MethodGet, reason: DenyUnauthenticated},
		{name: "issue read as citizen", path: "/issues/5", method: http.MethodGet, principal: principal(auth.RoleCitizen), allow: true},
		{name: "issue list anonymous", path: "/issues", method: http.MethodGet, reason: DenyUnauthenticated},
		{name: "issue list as citizen", path: "/issues", method: http.MethodGet, principal: principal(auth.RoleCitizen), allow: true},

		// Unlisted paths are never public.
		{name: "unknown path anonymous", path: "/my-reports", method: http.MethodGet, reason: DenyUnauthenticated},
		{name: "unknown path as citizen", path: "/my-reports", method: http.MethodGet, principal: principal(auth.RoleCitizen), allow: true},
		{name: "unknown path as admin", path: "/my-reports", method: http.MethodGet, principal: principal(auth.RoleAdmin), allow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := policy.Decide(tt.path, tt.method, tt.principal)
			assert.Equal(t, tt.allow, decision.Allow)
			if !tt.allow {
				assert.Equal(t, tt.reason, decision.Reason)
			}
		})
	}
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	// A broad public rule declared first shadows a later restricted one.
	policy := NewPolicy(
		Rule{Pattern: "/api/", Access: AccessPublic},
		Rule{Pattern: "/api/secret", Access: AccessRestricted, Roles: []auth.Role{auth.RoleAdmin}},
	)

	decision := policy.Decide("/api/secret", http.MethodGet, nil)
	assert.True(t, decision.Allow)

	// Reversed order, the restricted rule governs.
	policy = NewPolicy(
		Rule{Pattern: "/api/secret", Access: AccessRestricted, Roles: []auth.Role{auth.RoleAdmin}},
		Rule{Pattern: "/api/", Access: AccessPublic},
	)

	decision = policy.Decide("/api/secret", http.MethodGet, nil)
	assert.False(t, decision.Allow)
	assert.Equal(t, DenyUnauthenticated, decision.Reason)
}

func TestPolicy_ExactVersusPrefix(t *testing.T) {
	policy := NewPolicy(Rule{Pattern: "/health", Access: AccessPublic})

	assert.True(t, policy.Decide("/health", http.MethodGet, nil).Allow)
	// Exact pattern does not cover descendants.
	assert.False(t, policy.Decide("/health/live", http.MethodGet, nil).Allow)
}

func TestAuthzMiddleware_StatusCodes(t *testing.T) {
	policy := DefaultPolicy()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := NewAuthzMiddleware(policy)(next)

	t.Run("public passes without identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing identity yields 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/issues", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("insufficient role yields 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req = req.WithContext(auth.SetUserContext(req.Context(), auth.AuthenticatedPrincipal{
			Identity: "alice@example.com",
			Role:     auth.RoleCitizen,
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("sufficient role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req = req.WithContext(auth.SetUserContext(req.Context(), auth.AuthenticatedPrincipal{
			Identity: "root@example.com",
			Role:     auth.RoleAdmin,
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
