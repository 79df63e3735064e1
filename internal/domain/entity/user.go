package entity

import (
	"slices"
	"time"
)

// Role is carried in access tokens and gates the staff endpoints.
type Role string

const (
	// RoleMerchant is granted to every account; each account owns at least one store.
	RoleMerchant Role = "merchant"
	// RoleStaff grants access to the administrative store and payment-method endpoints.
	RoleStaff Role = "staff"
)

// Roles is the role set of one account.
type Roles []Role

func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings is the token claim form.
func (rs Roles) ToStrings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}

	return out
}

// RolesFromStrings parses token claims, dropping unknown and repeated roles.
func RolesFromStrings(ss []string) Roles {
	roles := make(Roles, 0, len(ss))
	for _, s := range ss {
		role := Role(s)
		if role != RoleMerchant && role != RoleStaff {
			continue
		}
		if !roles.Contains(role) {
			roles = append(roles, role)
		}
	}

	return roles
}

// User is an authenticated account. Every user is a merchant; staff users additionally
// administer all stores.
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Roles returns the roles carried in the user's access token.
func (u *User) Roles() Roles {
	roles := Roles{RoleMerchant}
	if u.IsStaff {
		roles = append(roles, RoleStaff)
	}

	return roles
}

// MerchantProfile is the one-per-user merchant identity created at signup.
type MerchantProfile struct {
	ID          uint
	UserID      uint
	DisplayName string
	Slug        string
	Email       string
	Plan        Plan
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
