// Package cli implements the authctl administration commands.
package cli

import (
	"context"
	"fmt"

	"auth-service/internal/config"
	"auth-service/internal/db"
	"auth-service/internal/pkg/hash"
	"auth-service/internal/repository/postgres"
	authUsecase "auth-service/internal/service/auth"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Env is what the commands run against.
type Env struct {
	Auth    *authUsecase.AuthService
	Close   func()
	Migrate func(direction string) error

	// authErr explains why Auth is nil
	authErr error
}

// Opener builds an Env. It is called once per command invocation.
type Opener func(ctx context.Context) (*Env, error)

// NewRootCmd returns the authctl command tree.
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "authctl",
		Short: "Administer the auth service",
		Long: `authctl manages users and the database schema of the auth service.

It reads the same environment (and .env file) as the server.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newCreateUserCmd(open),
		newListUsersCmd(open),
		newMigrateCmd(open),
	)
	return root
}

// OpenFromConfig connects to PostgreSQL with the server's configuration.
// Sessions are not touched by any command, so Redis is not needed.
func OpenFromConfig(logger *zap.Logger) Opener {
	return func(ctx context.Context) (*Env, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}

		hasher, err := hash.New(cfg.PasswordHasher)
		if err != nil {
			return nil, err
		}

		env := &Env{
			Close: func() {},
			Migrate: func(direction string) error {
				return db.Migrate(cfg.DatabaseURL, direction)
			},
		}

		// migrate manages its own connection, so a failed pool only
		// matters to the user commands.
		pool, err := db.ConnectDB(ctx, db.PostgresConfig{DSN: cfg.DatabaseURL, MaxConns: 2})
		if err != nil {
			env.authErr = err
			return env, nil
		}
		dbWrapper := postgres.NewDB(pool)
		env.Auth = authUsecase.NewAuthService(
			nil,
			postgres.NewUserRepository(dbWrapper),
			postgres.NewHistoryRepository(dbWrapper),
			postgres.NewSocialRepository(dbWrapper),
			nil,
			hasher,
			nil,
			logger,
		)
		env.Close = pool.Close
		return env, nil
	}
}

func withEnv(open Opener, cmd *cobra.Command, fn func(env *Env) error) error {
	env, err := open(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(env)
}

func requireAuth(env *Env) error {
	if env.Auth == nil {
		return fmt.Errorf("database is not reachable: %w", env.authErr)
	}
	return nil
}
