// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the YaMDb database so that
// dynamically built queries never spell identifiers by hand.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Bio         string
	Role        string
	IsSuperuser string
	IsVerified  string
	CreatedAt   string
	UpdatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	FirstName:   "first_name",
	LastName:    "last_name",
	Bio:         "bio",
	Role:        "role",
	IsSuperuser: "is_superuser",
	IsVerified:  "is_verified",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

// Columns returns the columns in the order repositories scan them.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FirstName, t.LastName, t.Bio,
		t.Role, t.IsSuperuser, t.IsVerified, t.CreatedAt, t.UpdatedAt,
	}
}
