package domain

import (
	"strings"
	"time"
)

// Role is a user's authorization level. Values are the wire names clients send.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleModerator  Role = "Moderator"
	RoleAdmin      Role = "Admin"
	RoleSuperAdmin Role = "Super Admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleStudent, RoleModerator, RoleAdmin, RoleSuperAdmin}

// ParseRole returns the role matching s exactly.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// RoleOrDefault maps a claim value to a role, falling back to Student.
func RoleOrDefault(s string) Role {
	if r, ok := ParseRole(strings.TrimSpace(s)); ok {
		return r
	}
	return RoleStudent
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// User is a record in the user directory.
type User struct {
	ID               string    `json:"id"        db:"id"`
	Name             string    `json:"name"      db:"name"`
	Email            string    `json:"email"     db:"email"`
	Role             Role      `json:"role"      db:"role"`
	ClaimSyncPending bool      `json:"claimSyncPending,omitempty" db:"claim_sync_pending"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// UserUpdate carries the profile fields that may change outside the role policy.
type UserUpdate struct {
	Name  *string
	Email *string
}

// Identity is what the identity provider reports for a verified credential.
type Identity struct {
	UID   string
	Role  Role
	Name  string
	Email string
}

// Principal is the authenticated caller injected into request handlers.
// It lives for one request and is never persisted.
type Principal struct {
	UID   string `json:"uid"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// IsStaff reports whether the principal may moderate content.
func (p *Principal) IsStaff() bool {
	return p.Role.In(RoleModerator, RoleAdmin, RoleSuperAdmin)
}
