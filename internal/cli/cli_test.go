package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"auth-service/internal/pkg/hash"
	"auth-service/internal/repository/memory"
	authUsecase "auth-service/internal/service/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeEnv struct {
	env        *Env
	migrations []string
}

func newFakeEnv() *fakeEnv {
	store := memory.New()
	f := &fakeEnv{}
	f.env = &Env{
		Auth: authUsecase.NewAuthService(nil, store.Users(), store.History(), store.Socials(), nil,
			hash.NewBcrypt(bcrypt.MinCost), nil, zap.NewNop()),
		Close: func() {},
		Migrate: func(direction string) error {
			f.migrations = append(f.migrations, direction)
			return nil
		},
	}
	return f
}

func (f *fakeEnv) open(context.Context) (*Env, error) { return f.env, nil }

func run(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(open)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreateAndListUsers(t *testing.T) {
	f := newFakeEnv()

	out, err := run(t, f.open, "create-user", "--username", "admin", "--email", "admin@example.com", "--password", "s3cretpass", "--superuser")
	require.NoError(t, err)
	assert.Contains(t, out, "created user admin")

	_, err = run(t, f.open, "create-user", "--username", "admin", "--email", "other@example.com", "--password", "s3cretpass")
	assert.Error(t, err, "duplicate username")

	out, err = run(t, f.open, "list-users")
	require.NoError(t, err)
	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "admin@example.com")
	assert.Contains(t, out, "true")
}

func TestCreateUserRequiresFlags(t *testing.T) {
	_, err := run(t, newFakeEnv().open, "create-user", "--username", "admin")
	assert.ErrorContains(t, err, "required")
}

func TestMigrate(t *testing.T) {
	f := newFakeEnv()

	_, err := run(t, f.open, "migrate", "up")
	require.NoError(t, err)
	_, err = run(t, f.open, "migrate", "down")
	require.NoError(t, err)
	assert.Equal(t, []string{"up", "down"}, f.migrations)

	_, err = run(t, f.open, "migrate", "sideways")
	assert.Error(t, err)
}

func TestDatabaseUnavailable(t *testing.T) {
	open := func(context.Context) (*Env, error) {
		return &Env{Close: func() {}, authErr: errors.New("connection refused")}, nil
	}

	_, err := run(t, open, "list-users")
	assert.ErrorContains(t, err, "connection refused")
}
