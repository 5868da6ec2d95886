package guard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greenhouse-iot/console/internal/console/models"
)

func TestDecide_Anonymous(t *testing.T) {
	require.Equal(t, ToLogin, Decide(false, nil, "", HomeRoute))
	require.Equal(t, ToLogin, Decide(false, nil, models.RoleAdmin, "users"))
	// authed flag without a user is still anonymous
	require.Equal(t, ToLogin, Decide(true, nil, "", HomeRoute))
}

func TestDecide_FirstLoginForcedToReset(t *testing.T) {
	u := &models.User{ID: "1", UserName: "alice", Roles: []string{models.RoleAdmin}, IsFirstLogin: true}

	require.Equal(t, ToReset, Decide(true, u, "", HomeRoute))
	require.Equal(t, ToReset, Decide(true, u, models.RoleAdmin, "users"))
	// the reset view itself stays reachable
	require.Equal(t, Grant, Decide(true, u, "", ResetRoute))
}

func TestDecide_InsufficientRoleGoesHomeNotLogin(t *testing.T) {
	u := &models.User{ID: "2", UserName: "bob", Roles: []string{models.RoleUser}}
	require.Equal(t, ToHome, Decide(true, u, models.RoleAdmin, "users"))
}

func TestDecide_RoleMatchRenders(t *testing.T) {
	u := &models.User{ID: "1", UserName: "alice", Roles: []string{models.RoleAdmin}}
	require.Equal(t, Grant, Decide(true, u, models.RoleAdmin, "users"))
}

func TestDecide_NoRequiredRoleRenders(t *testing.T) {
	u := &models.User{ID: "2", UserName: "bob", Roles: []string{models.RoleUser}}
	require.Equal(t, Grant, Decide(true, u, "", HomeRoute))
}

func TestVerdict_Target(t *testing.T) {
	require.Equal(t, "", Grant.Target())
	require.Equal(t, LoginRoute, ToLogin.Target())
	require.Equal(t, ResetRoute, ToReset.Target())
	require.Equal(t, HomeRoute, ToHome.Target())
}
