package middleware

import (
	"net/http"
	"strings"

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
)

// Access classifies what a matched route demands of the caller.
type Access int

const (
	// AccessPublic routes allow everyone, identity or not.
	AccessPublic Access = iota
	// AccessAuthenticated routes require any authenticated identity.
	AccessAuthenticated
	// AccessRestricted routes require one of the rule's roles.
	AccessRestricted
)

// Rule maps a path pattern (and optional method) to a role requirement.
// A pattern ending in "/" matches by prefix, otherwise exactly; an empty
// Method matches every method.
type Rule struct {
	Pattern string
	Method  string
	Access  Access
	Roles   []auth.Role
}

// DenyReason says why a request was refused.
type DenyReason int

const (
	// DenyUnauthenticated: the route needs an identity and none was presented.
	DenyUnauthenticated DenyReason = iota
	// DenyForbidden: an identity was presented but its role is insufficient.
	DenyForbidden
)

// Decision is the outcome of evaluating the policy for one request.
type Decision struct {
	Allow  bool
	Reason DenyReason
}

// Policy is an ordered rule table. Evaluation walks the rules in
// declaration order and the first match governs; anything unmatched
// defaults to authenticated-only, so a forgotten route can never be
// accidentally public.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from rules in evaluation order.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy mirrors the route requirements of the API:
// auth, health and uploaded images are public, the admin surface is
// admin-only, issue status updates need an official or admin, and
// everything else needs a login.
func DefaultPolicy() *Policy {
	return NewPolicy(
		Rule{Pattern: "/auth/", Access: AccessPublic},
		Rule{Pattern: "/health", Access: AccessPublic},
		Rule{Pattern: "/uploads/", Access: AccessPublic},
		Rule{Pattern: "/admin/", Access: AccessRestricted, Roles: []auth.Role{auth.RoleAdmin}},
		Rule{Pattern: "/issues", Method: http.MethodPut, Access: AccessRestricted, Roles: []auth.Role{auth.RoleOfficial, auth.RoleAdmin}},
		Rule{Pattern: "/issues/", Method: http.MethodPut, Access: AccessRestricted, Roles: []auth.Role{auth.RoleOfficial, auth.RoleAdmin}},
	)
}

// Decide evaluates the policy for a request. Pure and I/O-free, so it can
// run synchronously before every handler dispatch.
func (p *Policy) Decide(path, method string, principal *auth.AuthenticatedPrincipal) Decision {
	rule, matched := p.match(path, method)
	if !matched {
		rule = Rule{Access: AccessAuthenticated}
	}

	switch rule.Access {
	case AccessPublic:
		return Decision{Allow: true}
	case AccessAuthenticated:
		if principal == nil {
			return Decision{Reason: DenyUnauthenticated}
		}
		return Decision{Allow: true}
	default:
		if principal == nil {
			return Decision{Reason: DenyUnauthenticated}
		}
		for _, role := range rule.Roles {
			if principal.Role == role {
				return Decision{Allow: true}
			}
		}
		return Decision{Reason: DenyForbidden}
	}
}

func (p *Policy) match(path, method string) (Rule, bool) {
	for _, rule := range p.rules {
		if rule.Method != "" && rule.Method != method {
			continue
		}
		if strings.HasSuffix(rule.Pattern, "/") {
			if strings.HasPrefix(path, rule.Pattern) {
				return rule, true
			}
			continue
		}
		if path == rule.Pattern {
			return rule, true
		}
	}
	return Rule{}, false
}

// NewAuthzMiddleware enforces the policy before handler dispatch. The
// authentication middleware must run first so the principal, if any, is
// already on the context. CORS preflight is allowed through because the
// cors handler answers OPTIONS before this middleware sees real work.
func NewAuthzMiddleware(policy *Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var principal *auth.AuthenticatedPrincipal
			if p, ok := auth.GetUserFromContext(r.Context()); ok {
				principal = &p
			}

			decision := policy.Decide(r.URL.Path, r.Method, principal)
			if !decision.Allow {
				switch decision.Reason {
				case DenyForbidden:
					http.Error(w, "forbidden", http.StatusForbidden)
				default:
					http.Error(w, "unauthenticated", http.StatusUnauthorized)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
