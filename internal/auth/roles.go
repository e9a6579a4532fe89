package auth

import "fmt"

// Role is the closed set of account roles. Matching on Role values is
// exhaustive everywhere; there is no prefixed-string dispatch.
type Role string

const (
	// RoleCitizen can report issues and view their own reports.
	RoleCitizen Role = "CITIZEN"
	// RoleOfficial can update issue status; may carry a department.
	RoleOfficial Role = "OFFICIAL"
	// RoleAdmin can manage users.
	RoleAdmin Role = "ADMIN"
)

// ParseRole validates a role string from a request or token claim.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCitizen, RoleOfficial, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Privileged reports whether registering with this role requires the
// admin signup token.
func (r Role) Privileged() bool {
	return r == RoleOfficial || r == RoleAdmin
}
