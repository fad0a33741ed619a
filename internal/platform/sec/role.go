// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The set is closed: every switch over UserRole handles all three values.
type UserRole string

const (
	// Default role for signed-up accounts. Writes only their own reviews and comments.
	RoleUser UserRole = "user"

	// May edit or delete any review or comment.
	RoleModerator UserRole = "moderator"

	// Full catalog and user management.
	RoleAdmin UserRole = "admin"
)

// Roles lists every valid role in ascending privilege order.
var Roles = []UserRole{RoleUser, RoleModerator, RoleAdmin}

// ParseRole converts raw input into a [UserRole].
func ParseRole(raw string) (UserRole, error) {
	role := UserRole(raw)
	if !role.IsValid() {
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}
	return role, nil
}

// IsValid reports whether r is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanChangeOwnRole reports whether a holder of r may modify their own role
// through self-service profile updates.
func (r UserRole) CanChangeOwnRole() bool {
	switch r {
	case RoleUser:
		return false
	case RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r UserRole) String() string { return string(r) }
