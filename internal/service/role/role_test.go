package role

import (
	"context"
	"testing"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"
	"auth-service/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func addUser(t *testing.T, store *memory.Store) uuid.UUID {
	t.Helper()
	u, err := store.Users().Create(context.Background(), &auth.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	return u.ID
}

func TestRoleCRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewRoleService(memory.New().Roles(), zap.NewNop())

	admin, err := svc.Create(ctx, &auth.CreateRoleRequest{Title: "admin", Description: strPtr("full access")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &auth.CreateRoleRequest{Title: "admin"})
	assert.ErrorIs(t, err, xerrors.ErrRoleAlreadyExists)
	assert.ErrorIs(t, err, xerrors.ErrConflict)

	got, err := svc.Get(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "full access", *got.Description)

	updated, err := svc.Update(ctx, admin.ID, &auth.UpdateRoleRequest{Title: strPtr("owner")})
	require.NoError(t, err)
	assert.Equal(t, "owner", updated.Title)
	assert.Equal(t, "full access", *updated.Description, "unset fields are kept")

	roles, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	require.NoError(t, svc.Delete(ctx, admin.ID))
	assert.ErrorIs(t, svc.Delete(ctx, admin.ID), xerrors.ErrRoleNotFound)

	_, err = svc.Get(ctx, admin.ID)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestRoleUpdateTitleConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewRoleService(memory.New().Roles(), zap.NewNop())

	_, err := svc.Create(ctx, &auth.CreateRoleRequest{Title: "admin"})
	require.NoError(t, err)
	viewer, err := svc.Create(ctx, &auth.CreateRoleRequest{Title: "viewer"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, viewer.ID, &auth.UpdateRoleRequest{Title: strPtr("admin")})
	assert.ErrorIs(t, err, xerrors.ErrRoleAlreadyExists)

	_, err = svc.Update(ctx, viewer.ID, &auth.UpdateRoleRequest{Title: strPtr("viewer")})
	assert.NoError(t, err, "keeping the same title is not a conflict")

	_, err = svc.Update(ctx, uuid.New(), &auth.UpdateRoleRequest{})
	assert.ErrorIs(t, err, xerrors.ErrRoleNotFound)
}

func TestUserRoleAssignment(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	userID := addUser(t, store)

	roles := NewRoleService(store.Roles(), zap.NewNop())
	svc := NewUserRoleService(store.Users(), store.Roles(), store.UserRoles(), zap.NewNop())

	viewer, err := roles.Create(ctx, &auth.CreateRoleRequest{Title: "viewer"})
	require.NoError(t, err)

	require.NoError(t, svc.Assign(ctx, userID, viewer.ID))
	assert.ErrorIs(t, svc.Assign(ctx, userID, viewer.ID), xerrors.ErrRoleAlreadyAssigned)

	list, err := svc.ListUserRoles(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "viewer", list[0].Title)

	user, err := store.Users().GetByID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, user.Roles, 1, "assigned roles are loaded with the user")

	require.NoError(t, svc.Revoke(ctx, userID, viewer.ID))
	assert.ErrorIs(t, svc.Revoke(ctx, userID, viewer.ID), xerrors.ErrRoleNotAssigned)
}

func TestUserRoleMissingEntities(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	userID := addUser(t, store)
	svc := NewUserRoleService(store.Users(), store.Roles(), store.UserRoles(), zap.NewNop())

	_, err := svc.ListUserRoles(ctx, uuid.New())
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	assert.ErrorIs(t, svc.Assign(ctx, userID, uuid.New()), xerrors.ErrRoleNotFound)
	assert.ErrorIs(t, svc.Revoke(ctx, uuid.New(), uuid.New()), xerrors.ErrNotFound)
}
