package memory

import (
	"context"
	"testing"

	"auth-service/internal/domain/auth"
	xerrors "auth-service/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	alice, err := users.Create(ctx, &auth.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = users.Create(ctx, &auth.User{ID: uuid.New(), Username: "bob@example.com", Email: "bob@corp.example"})
	require.NoError(t, err)

	got, err := users.GetByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = users.GetByLogin(ctx, "bob@example.com")
	require.NoError(t, err, "an email-shaped login falls back to the username")
	assert.Equal(t, "bob@corp.example", got.Email)

	_, err = users.GetByLogin(ctx, "carol")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	got, err = users.GetByCredentials(ctx, "nobody@example.com", "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = users.Create(ctx, &auth.User{ID: uuid.New(), Username: "alice", Email: "new@example.com"})
	assert.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestRoleDeleteDropsAssignments(t *testing.T) {
	ctx := context.Background()
	s := New()

	u, err := s.Users().Create(ctx, &auth.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	role, err := s.Roles().Create(ctx, &auth.Role{ID: uuid.New(), Title: "admin"})
	require.NoError(t, err)

	require.NoError(t, s.UserRoles().Assign(ctx, u.ID, role.ID))
	assert.ErrorIs(t, s.UserRoles().Assign(ctx, u.ID, role.ID), xerrors.ErrConflict)

	require.NoError(t, s.Roles().Delete(ctx, role.ID))
	roles, err := s.UserRoles().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestHistoryPaging(t *testing.T) {
	ctx := context.Background()
	h := New().History()
	userID := uuid.New()

	for _, agent := range []string{"a", "b", "c"} {
		require.NoError(t, h.Create(ctx, &auth.LoginHistory{ID: uuid.New(), UserID: userID, UserAgent: agent}))
	}
	require.NoError(t, h.Create(ctx, &auth.LoginHistory{ID: uuid.New(), UserID: uuid.New(), UserAgent: "other"}))

	page, err := h.ListByUser(ctx, userID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].UserAgent)

	page, err = h.ListByUser(ctx, userID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].UserAgent)

	page, err = h.ListByUser(ctx, userID, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}
