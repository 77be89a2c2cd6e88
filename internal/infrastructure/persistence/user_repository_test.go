package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyber/backend/internal/domain/identity"
	"github.com/kyber/backend/internal/domain/shared"
)

func TestGormUserRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("admin@example.com", "Admin", "super-secret", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", found.Email)
	assert.True(t, found.CheckPassword("super-secret"))
}

func TestGormUserRepository_FindByEmail_CaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("Admin@Example.com", "Admin", "super-secret", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByEmail(ctx, "ADMIN@example.COM")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_CountAdmins(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	admin, err := identity.NewUser("admin@example.com", "Admin", "super-secret", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, admin))

	viewer, err := identity.NewUser("viewer@example.com", "Viewer", "super-secret", identity.RoleViewer)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, viewer))

	count, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	filter := shared.DefaultFilter()
	filter.Filters["role"] = identity.RoleViewer
	viewers, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, viewers, 1)
	assert.Equal(t, "viewer@example.com", viewers[0].Email)
}

func TestGormUserRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("admin@example.com", "Admin", "super-secret", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, user.ID), shared.ErrNotFound)
}
