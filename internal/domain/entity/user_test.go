package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoles(t *testing.T) {
	assert.Equal(t, Roles{RoleMerchant}, (&User{}).Roles())
	assert.Equal(t, []string{"merchant", "staff"}, (&User{IsStaff: true}).Roles().ToStrings())
}

func TestRolesFromStrings(t *testing.T) {
	roles := RolesFromStrings([]string{"staff", "admin", "merchant", "staff", ""})

	assert.Equal(t, Roles{RoleStaff, RoleMerchant}, roles)
	assert.True(t, roles.Contains(RoleStaff))
	assert.False(t, RolesFromStrings(nil).Contains(RoleMerchant))
}
