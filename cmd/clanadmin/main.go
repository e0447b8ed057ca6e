package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/kcmvp/clanadmin/app"
	"github.com/kcmvp/clanadmin/cmd/clanadmin/list"
	"github.com/kcmvp/clanadmin/cmd/clanadmin/mock"
	"github.com/kcmvp/clanadmin/cmd/clanadmin/serve"
	"github.com/kcmvp/clanadmin/cmd/clanadmin/users"
	"github.com/kcmvp/clanadmin/cmd/internal"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clanadmin",
	Short: "clanadmin is the operator console of the Clan shop platform.",
	Long: `clanadmin signs in to the administrative API once and serves the admin
dashboard, lists shop data in the terminal, or runs a local mock of the API.

Configuration comes from application.yml, an optional .env file and
CLANADMIN_* environment variables (CLANADMIN_API_URL, CLANADMIN_API_EMAIL, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg := app.Config()
		if cfg.IsError() {
			return cfg.Error()
		}
		v := cfg.MustGet()
		for key, flag := range map[string]string{"api.url": "api-url", "log.level": "log-level"} {
			if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
				return fmt.Errorf("bind %s: %w", flag, err)
			}
		}
		settings := app.Decode(v)
		if settings.IsError() {
			return settings.Error()
		}
		s := settings.MustGet()
		console, err := internal.Bootstrap(s, app.Logger(s.Log))
		if err != nil {
			return err
		}
		cmd.SetContext(internal.WithConsole(cmd.Context(), console))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "base URL of the administrative API (api.url)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (log.level)")

	rootCmd.AddCommand(serve.ServeCmd)
	rootCmd.AddCommand(mock.MockAPICmd)
	rootCmd.AddCommand(list.ListCmd)
	rootCmd.AddCommand(users.UsersCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
