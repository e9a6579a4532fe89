package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUserFromContext(ctx)
	assert.False(t, ok)

	ctx = SetUserContext(ctx, AuthenticatedPrincipal{Identity: "alice@example.com", Role: RoleCitizen})
	principal, ok := GetUserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", principal.Identity)
	assert.Equal(t, RoleCitizen, principal.Role)
}

func TestSetUserContext_NeverOverwrites(t *testing.T) {
	ctx := SetUserContext(context.Background(), AuthenticatedPrincipal{Identity: "alice@example.com", Role: RoleCitizen})
	ctx = SetUserContext(ctx, AuthenticatedPrincipal{Identity: "mallory@example.com", Role: RoleAdmin})

	principal, ok := GetUserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", principal.Identity)
	assert.Equal(t, RoleCitizen, principal.Role)
}
