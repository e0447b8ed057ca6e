// Package internal wires the pieces every clanadmin command needs.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kcmvp/clanadmin/admin"
	"github.com/kcmvp/clanadmin/app"
	"github.com/kcmvp/clanadmin/gateway"
	"github.com/kcmvp/clanadmin/query"
	"github.com/kcmvp/clanadmin/session"
	"github.com/kcmvp/clanadmin/view"
)

// ErrNoCredentials is returned by SignIn when api.email or api.password is unset.
var ErrNoCredentials = errors.New("api.email and api.password must be set")

// Console is one operator session against the admin API.
type Console struct {
	Settings  app.Settings
	Logger    *slog.Logger
	API       *admin.API
	Gate      *session.Gate
	Resources *admin.Resources
	CDN       view.CDN
}

// Bootstrap builds the gateway, cache and session gate from settings.
func Bootstrap(settings app.Settings, logger *slog.Logger) (*Console, error) {
	gw, err := gateway.New(settings.API.URL,
		gateway.WithLogger(logger),
		gateway.WithTimeout(settings.API.Timeout),
	)
	if err != nil {
		return nil, err
	}
	api := admin.New(gw)
	return &Console{
		Settings:  settings,
		Logger:    logger,
		API:       api,
		Gate:      session.New(api, settings.Session.Login, session.WithHome(settings.Session.Home), session.WithLogger(logger)),
		Resources: admin.NewResources(api, query.New(settings.Cache.Stale, logger)),
		CDN:       view.CDN{Host: settings.CDN.Host, Quality: settings.CDN.Quality},
	}, nil
}

// Navigation records where the gate sent the operator.
type Navigation struct {
	Path string
}

func (n *Navigation) Navigate(path string) {
	n.Path = path
}

// SignIn signs in with the configured credentials.
func (c *Console) SignIn(ctx context.Context) error {
	if c.Settings.API.Email == "" || c.Settings.API.Password == "" {
		return ErrNoCredentials
	}
	creds := admin.Credentials{Email: c.Settings.API.Email, Password: c.Settings.API.Password}
	if err := c.Gate.SignIn(ctx, creds, &Navigation{}); err != nil {
		return fmt.Errorf("sign in as %s: %w", creds.Email, err)
	}
	return nil
}

// Page returns the table of resource, which is one of the admin resource keys or "promo".
func (c *Console) Page(ctx context.Context, resource string) (view.Table, error) {
	nav := &Navigation{}
	var (
		table view.Table
		state session.State
	)
	switch resource {
	case admin.KeyProducts:
		table, state = view.ProductsPage(c.Gate, c.Resources.Products, nil, c.CDN).Load(ctx, nav)
	case admin.KeyCustomers:
		table, state = view.CustomersPage(c.Gate, c.Resources.Customers).Load(ctx, nav)
	case admin.KeyOrders:
		table, state = view.OrdersPage(c.Gate, c.Resources.Orders).Load(ctx, nav)
	case admin.KeyDiscounts:
		table, state = view.DiscountsPage(c.Gate, c.Resources.Discounts).Load(ctx, nav)
	case "promo":
		table, state = view.PromoPage(c.Gate, c.Resources.Discounts).Load(ctx, nav)
	case admin.KeyUsers:
		table, state = view.UsersPage(c.Gate, c.Resources.Users).Load(ctx, nav)
	default:
		return table, fmt.Errorf("%w: %s", admin.ErrUnknownResource, resource)
	}
	if state != session.Authenticated {
		return table, fmt.Errorf("not signed in (redirected to %s): %w", nav.Path, c.Gate.Reason())
	}
	return table, nil
}

type consoleKey struct{}

func WithConsole(ctx context.Context, c *Console) context.Context {
	return context.WithValue(ctx, consoleKey{}, c)
}

// FromContext returns the console stored by WithConsole.
func FromContext(ctx context.Context) (*Console, bool) {
	c, ok := ctx.Value(consoleKey{}).(*Console)
	return c, ok
}
