package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		role    Role
		isValid bool
	}{
		{RoleAdmin, true},
		{RoleAccountant, true},
		{RoleViewer, true},
		{Role("superuser"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.role.IsValid())
		})
	}
}

func TestRole_Permissions(t *testing.T) {
	assert.True(t, RoleAdmin.CanWrite())
	assert.True(t, RoleAdmin.CanAdminister())
	assert.True(t, RoleAccountant.CanWrite())
	assert.False(t, RoleAccountant.CanAdminister())
	assert.False(t, RoleViewer.CanWrite())
	assert.False(t, RoleViewer.CanAdminister())
}

func TestNewUser(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		user, err := NewUser("Owner@Example.com", "Owner", "correct-horse", RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", user.Email)
		assert.NotEqual(t, "correct-horse", user.PasswordHash)
		assert.True(t, user.CheckPassword("correct-horse"))
		assert.False(t, user.CheckPassword("wrong"))
	})

	tests := []struct {
		name     string
		email    string
		userName string
		password string
		role     Role
	}{
		{"invalid email", "not-an-email", "Owner", "correct-horse", RoleAdmin},
		{"empty name", "owner@example.com", " ", "correct-horse", RoleAdmin},
		{"short password", "owner@example.com", "Owner", "short", RoleAdmin},
		{"unknown role", "owner@example.com", "Owner", "correct-horse", Role("boss")},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := NewUser(tt.email, tt.userName, tt.password, tt.role)
			assert.Error(t, err)
		})
	}
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("owner@example.com", "Owner", "correct-horse", RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, user.ChangePassword("battery-staple"))
	assert.True(t, user.CheckPassword("battery-staple"))
	assert.False(t, user.CheckPassword("correct-horse"))

	assert.Error(t, user.ChangePassword("short"))
}

func TestUser_ChangeRole(t *testing.T) {
	user, err := NewUser("owner@example.com", "Owner", "correct-horse", RoleViewer)
	require.NoError(t, err)

	require.NoError(t, user.ChangeRole(RoleAccountant))
	assert.Equal(t, RoleAccountant, user.Role)

	assert.Error(t, user.ChangeRole(Role("boss")))
}

func TestUser_RecordLogin(t *testing.T) {
	user, err := NewUser("owner@example.com", "Owner", "correct-horse", RoleAdmin)
	require.NoError(t, err)
	require.Nil(t, user.LastLoginAt)

	now := time.Now()
	user.RecordLogin(now)
	require.NotNil(t, user.LastLoginAt)
	assert.Equal(t, now, *user.LastLoginAt)
}
