package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "accueil", "caisse", "graphiste", "super_admin"} {
		role, ok := ParseRole(s)
		assert.True(t, ok, s)
		assert.Equal(t, Role(s), role)
	}

	_, ok := ParseRole("manager")
	assert.False(t, ok)
	_, ok = ParseRole("")
	assert.False(t, ok)
}

func TestPermissionMatrix(t *testing.T) {
	cases := []struct {
		role    Role
		granted []Permission
		denied  []Permission
	}{
		{
			role:    RoleAccueil,
			granted: []Permission{PermOrdersWrite, PermClientsWrite, PermUploadsWrite, PermMaterialsRead},
			denied:  []Permission{PermPaymentsWrite, PermEmployeesWrite, PermMaterialsWrite, PermOrdersProduce},
		},
		{
			role:    RoleCaisse,
			granted: []Permission{PermPaymentsRead, PermPaymentsWrite, PermOrdersRead},
			denied:  []Permission{PermOrdersWrite, PermMaterialsRead, PermUploadsWrite},
		},
		{
			role:    RoleGraphiste,
			granted: []Permission{PermOrdersProduce, PermOrdersRead, PermUploadsWrite},
			denied:  []Permission{PermOrdersWrite, PermPaymentsRead, PermClientsRead},
		},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			for _, p := range tc.granted {
				assert.True(t, tc.role.Can(p), "%s should have %s", tc.role, p)
			}
			for _, p := range tc.denied {
				assert.False(t, tc.role.Can(p), "%s should not have %s", tc.role, p)
			}
		})
	}
}

func TestAdminRolesHaveEverything(t *testing.T) {
	all := []Permission{
		PermOrdersRead, PermOrdersWrite, PermOrdersProduce,
		PermPaymentsRead, PermPaymentsWrite,
		PermMaterialsRead, PermMaterialsWrite,
		PermClientsRead, PermClientsWrite,
		PermEmployeesRead, PermEmployeesWrite,
		PermUploadsWrite, PermNotificationsRW,
	}
	for _, p := range all {
		assert.True(t, RoleAdmin.Can(p))
		assert.True(t, RoleSuperAdmin.Can(p))
	}
}

func TestTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	user := UserContext{ShopID: "shop-1", UserID: "emp-1", Role: RoleCaisse}

	token, err := IssueToken(secret, time.Hour, user)
	require.NoError(t, err)

	got, err := VerifyToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := IssueToken("secret-a", time.Hour, UserContext{ShopID: "s", UserID: "u", Role: RoleAdmin})
	require.NoError(t, err)

	_, err = VerifyToken("secret-b", token)
	assert.Error(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	token, err := IssueToken("secret", -time.Minute, UserContext{ShopID: "s", UserID: "u", Role: RoleAdmin})
	require.NoError(t, err)

	_, err = VerifyToken("secret", token)
	assert.Error(t, err)
}
