package users

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/kcmvp/clanadmin/admin"
	"github.com/kcmvp/clanadmin/cmd/internal"
	"github.com/spf13/cobra"
)

// UsersCmd groups platform user management.
var UsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage platform users.",
}

var (
	email    string
	password string
	name     string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a platform user.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		console, ok := internal.FromContext(ctx)
		if !ok {
			return errors.New("console is not initialized")
		}
		if err := console.SignIn(ctx); err != nil {
			return err
		}
		u := admin.NewUser{Email: email, Password: password}
		if name != "" {
			u.Name = &name
		}
		user, err := console.Resources.CreateUser(ctx, u)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("created %s (id %d, role %s)", user.Email, user.ID, user.Role))
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&email, "email", "", "email of the new user")
	createCmd.Flags().StringVar(&password, "password", "", "password of the new user")
	createCmd.Flags().StringVar(&name, "name", "", "display name")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")
	UsersCmd.AddCommand(createCmd)
}
