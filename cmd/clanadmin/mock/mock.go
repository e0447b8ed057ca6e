package mock

import (
	"errors"

	"github.com/kcmvp/clanadmin/cmd/internal"
	"github.com/kcmvp/clanadmin/echo/mockapi"
	"github.com/kcmvp/clanadmin/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	seedPassword string
	secure       bool
)

// MockAPICmd runs the local stand-in for the administrative API.
var MockAPICmd = &cobra.Command{
	Use:   "mock-api",
	Short: "Run a local administrative API seeded with sample data on mockapi.addr.",
	Long: `mock-api serves /admin/* with sample data. With mockapi.datasource naming a
datasource (datasource.<name>.driver/url) the data is kept in that database,
otherwise in memory.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		console, ok := internal.FromContext(ctx)
		if !ok {
			return errors.New("console is not initialized")
		}
		seed, err := mockapi.SampleData(seedPassword, bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		var store mockapi.Store = mockapi.NewMemoryStore(seed)
		if name := console.Settings.MockAPI.Datasource; name != "" {
			sqlx.SetSQLLogger(console.Logger)
			db, err := sqlx.GetDS(name)
			if err != nil {
				return err
			}
			defer sqlx.CloseAllDataSources()
			if store, err = mockapi.NewSQLStore(ctx, db, seed); err != nil {
				return err
			}
		}
		srv := mockapi.New(store, mockapi.WithLogger(console.Logger), mockapi.WithSecureCookie(secure),
			mockapi.WithSecret(console.Settings.MockAPI.Secret))
		console.Logger.Info("mock api listening", "addr", console.Settings.MockAPI.Addr, "datasource", console.Settings.MockAPI.Datasource)
		return srv.Start(ctx, console.Settings.MockAPI.Addr)
	},
}

func init() {
	MockAPICmd.Flags().StringVar(&seedPassword, "seed-password", "clanadmin", "password of every seeded account")
	MockAPICmd.Flags().BoolVar(&secure, "secure", false, "mark the session cookie Secure (https only)")
}
