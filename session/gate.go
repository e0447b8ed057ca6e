// Package session gates every page on the identity of the API session.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kcmvp/clanadmin/admin"
	"github.com/kcmvp/clanadmin/app"
	"github.com/kcmvp/clanadmin/entity"
	"github.com/kcmvp/clanadmin/gateway"
	"github.com/samber/mo"
)

type State int

const (
	Unknown State = iota
	Authenticated
	Redirecting
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Redirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// Authenticator is the part of the admin API the gate depends on.
type Authenticator interface {
	Me(ctx context.Context) (entity.User, error)
	SignIn(ctx context.Context, c admin.Credentials) (entity.User, error)
}

// Navigator moves the operator to another route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type Option func(*Gate)

// WithHome sets the route SignIn navigates to on success. Defaults to "/".
func WithHome(path string) Option {
	return func(g *Gate) { g.home = path }
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Gate holds the session user. One Gate serves the whole process and is
// handed to every page explicitly.
type Gate struct {
	mu     sync.Mutex
	auth   Authenticator
	login  string
	home   string
	logger *slog.Logger
	user   *entity.User
	state  State
	reason error
}

func New(auth Authenticator, loginPath string, opts ...Option) *Gate {
	g := &Gate{
		auth:   auth,
		login:  loginPath,
		home:   "/",
		logger: app.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) LoginPath() string { return g.login }

func (g *Gate) HomePath() string { return g.home }

func (g *Gate) User() mo.Option[entity.User] {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil {
		return mo.None[entity.User]()
	}
	return mo.Some(*g.user)
}

// SetUser replaces the session user; nil signs the operator out.
func (g *Gate) SetUser(u *entity.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if u == nil {
		g.user = nil
		g.state = Unknown
		return
	}
	cp := *u
	g.user = &cp
	g.state = Authenticated
	g.reason = nil
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Reason is the error behind the last redirect. It is an *gateway.APIError
// when the API refused the session and a transport error otherwise.
func (g *Gate) Reason() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reason
}

// Mount resolves the session user by asking /admin/me, on every call, so an
// API session that ended since the last mount is noticed. Any failure clears
// the user and sends nav to the login route exactly once. Authorization
// failures and network failures redirect alike.
//
// The check runs without holding the gate's lock; readers of User and State
// see the previous outcome until it resolves.
func (g *Gate) Mount(ctx context.Context, nav Navigator) State {
	user, err := g.auth.Me(ctx)
	g.mu.Lock()
	if err != nil {
		g.user = nil
		g.state = Redirecting
		g.reason = err
		g.mu.Unlock()
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			g.logger.Info("session rejected", "status", apiErr.Status, "msg", apiErr.Message)
		} else {
			g.logger.Warn("session check failed", "err", err)
		}
		nav.Navigate(g.login)
		return Redirecting
	}
	g.user = &user
	g.state = Authenticated
	g.reason = nil
	g.mu.Unlock()
	g.logger.Debug("session resolved", "user", user.Email, "role", user.Role)
	return Authenticated
}

// SignIn runs the login route. The returned error carries the message to show
// the operator; on success the user is stored and nav goes home.
func (g *Gate) SignIn(ctx context.Context, c admin.Credentials, nav Navigator) error {
	user, err := g.auth.SignIn(ctx, c)
	if err != nil {
		g.logger.Info("sign in failed", "email", c.Email, "err", err)
		return err
	}
	g.SetUser(&user)
	g.logger.Info("signed in", "user", user.Email)
	nav.Navigate(g.home)
	return nil
}
