package cli

import (
	"fmt"

	"auth-service/internal/db"

	"github.com/spf13/cobra"
)

func newMigrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the embedded schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{db.MigrateUp, db.MigrateDown},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(open, cmd, func(env *Env) error {
				if err := env.Migrate(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: done\n", args[0])
				return nil
			})
		},
	}
}
