package cli

import (
	"fmt"
	"text/tabwriter"

	"auth-service/internal/domain/auth"

	"github.com/spf13/cobra"
)

func newCreateUserCmd(open Opener) *cobra.Command {
	var (
		req       auth.RegisterRequest
		superuser bool
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		Example: `  authctl create-user --username admin --email admin@example.com --password s3cret --superuser`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Username == "" || req.Email == "" || req.Password == "" {
				return fmt.Errorf("--username, --email and --password are required")
			}
			return withEnv(open, cmd, func(env *Env) error {
				if err := requireAuth(env); err != nil {
					return err
				}
				user, err := env.Auth.CreateUser(cmd.Context(), &req, superuser)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "username")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address, used as the token login")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password")
	cmd.Flags().BoolVar(&superuser, "superuser", false, "grant superuser privileges")
	return cmd
}

func newListUsersCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(open, cmd, func(env *Env) error {
				if err := requireAuth(env); err != nil {
					return err
				}
				users, err := env.Auth.ListUsers(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tSUPERUSER\tROLES")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\n", u.ID, u.Username, u.Email, u.IsSuperuser, len(u.Roles))
				}
				return w.Flush()
			})
		},
	}
}
