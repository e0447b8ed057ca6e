package list

import (
	"errors"

	"github.com/kcmvp/clanadmin/cmd/internal"
	"github.com/kcmvp/clanadmin/view"
	"github.com/spf13/cobra"
)

var filter string

// ListCmd prints one admin list as a table.
var ListCmd = &cobra.Command{
	Use:       "list <products|customers|orders|discounts|promo|users>",
	Short:     "Print an admin list, optionally filtered.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"products", "customers", "orders", "discounts", "promo", "users"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		console, ok := internal.FromContext(ctx)
		if !ok {
			return errors.New("console is not initialized")
		}
		if err := console.SignIn(ctx); err != nil {
			return err
		}
		table, err := console.Page(ctx, args[0])
		if err != nil {
			return err
		}
		return view.Render(cmd.OutOrStdout(), view.Filter(table, filter))
	},
}

func init() {
	ListCmd.Flags().StringVarP(&filter, "filter", "f", "", "case-insensitive pattern; * and ? are wildcards")
}
