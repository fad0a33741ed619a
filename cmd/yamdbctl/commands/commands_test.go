// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

func TestNewSuperuser(t *testing.T) {
	user, err := newSuperuser("  root ", "root@yamdb.io")
	require.NoError(t, err)
	assert.Equal(t, "root", user.Username)
	assert.Equal(t, sec.RoleAdmin, user.Role)
	assert.True(t, user.IsSuperuser)
	assert.True(t, user.IsVerified)
	assert.NotEmpty(t, user.ID)

	_, err = newSuperuser("me", "not-an-email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
	assert.Contains(t, err.Error(), "email")
}

func TestRootCommand_Validation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"superuser_missing_flags", []string{"createsuperuser", "--db", "postgres://x"}, "required flag"},
		{"superuser_without_db", []string{"createsuperuser", "--db", "", "--username", "root", "--email", "r@x.io"}, "database URL"},
		{"down_without_steps", []string{"migrate", "down", "--db", "postgres://x"}, "--steps"},
		{"down_both_flags", []string{"migrate", "down", "--db", "postgres://x", "--steps", "1", "--all"}, "none of the others"},
		{"up_without_db", []string{"migrate", "up", "--db", ""}, "database URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCommand()
			var output bytes.Buffer
			root.SetOut(&output)
			root.SetErr(&output)
			root.SetArgs(tt.args)

			err := root.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
