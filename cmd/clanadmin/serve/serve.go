package serve

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kcmvp/clanadmin/cmd/internal"
	"github.com/kcmvp/clanadmin/gin/dashboard"
	"github.com/spf13/cobra"
)

// ServeCmd serves the admin dashboard.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin dashboard on dashboard.addr.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		console, ok := internal.FromContext(ctx)
		if !ok {
			return errors.New("console is not initialized")
		}
		if err := console.SignIn(ctx); err != nil {
			// the login page is still there
			console.Logger.Warn("automatic sign in skipped", "err", err)
		}
		if console.Settings.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := &http.Server{
			Addr:              console.Settings.Dashboard.Addr,
			Handler:           dashboard.New(console.Gate, console.Resources, console.CDN, console.Logger,
				dashboard.WithFlashSecret(console.Settings.Dashboard.Secret)).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()
		console.Logger.Info("dashboard listening", "addr", srv.Addr, "api", console.Settings.API.URL)
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	},
}
