// Package mockapi is a local stand-in for the administrative API.
//
// It serves the /admin endpoints with cookie sessions, backed by a Store that
// is either in memory or persisted through sqlx.
package mockapi

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kcmvp/clanadmin/admin"
	"github.com/kcmvp/clanadmin/app"
	"github.com/kcmvp/clanadmin/entity"
	"github.com/kcmvp/clanadmin/internal"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName = "clan_cookie"
	sessionTTL = 24 * time.Hour
)

type session struct {
	accountID int64
	expires   time.Time
}

type Server struct {
	store    Store
	logger   *slog.Logger
	secure   bool
	cost     int
	secret   []byte
	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]session
	echo     *echo.Echo
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSecureCookie marks the session cookie Secure. Clients only send such a
// cookie over https.
func WithSecureCookie(secure bool) Option {
	return func(s *Server) { s.secure = secure }
}

// WithSecret sets the HMAC key signing session tokens. Without it a random
// key is generated, so sessions end with the process.
func WithSecret(secret string) Option {
	return func(s *Server) {
		if secret != "" {
			s.secret = []byte(secret)
		}
	}
}

// WithBcryptCost sets the cost used to hash new passwords.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.cost = cost }
}

func New(store Store, opts ...Option) *Server {
	s := &Server{
		store:    store,
		logger:   app.Discard(),
		cost:     bcrypt.DefaultCost,
		secret:   randomSecret(),
		now:      time.Now,
		sessions: map[string]session{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.echo = s.routes()
	return s
}

// Handler is the echo instance serving every route.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}

// Start serves on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.echo.Start(addr) }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	g := e.Group("/admin", s.authenticate)
	g.POST("/sign-in", s.signIn, Bind(admin.SignInSchema))
	g.POST("/sign-out", s.signOut)
	g.GET("/me", s.me)
	g.GET("/products", list(s.store.Products))
	g.GET("/customers", list(s.store.Customers))
	g.GET("/orders", list(s.store.Orders))
	g.GET("/discounts", list(s.store.Discounts))
	g.GET("/users", list(s.store.Users))
	g.POST("/users", s.createUser, Bind(admin.CreateUserSchema))
	return e
}

// errorHandler renders every failure as {"error": message}.
func (s *Server) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "err", err)
	}
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]string{"error": msg})
	}
	if err != nil {
		s.logger.Error("write error response", "err", err)
	}
}

// authenticate resolves the session cookie; sign-in is public.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if strings.HasSuffix(c.Path(), "/sign-in") {
			return next(c)
		}
		cookie, err := c.Cookie(CookieName)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		cl, err := s.verify(cookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(err)
		}
		account, err := s.store.AccountByID(c.Request().Context(), cl.UID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(err)
		}
		req := c.Request()
		c.SetRequest(req.WithContext(context.WithValue(req.Context(), internal.AccountKey, account)))
		return next(c)
	}
}

func currentAccount(c echo.Context) (Account, bool) {
	a, ok := c.Request().Context().Value(internal.AccountKey).(Account)
	return a, ok
}

func (s *Server) signIn(c echo.Context) error {
	p := Payload(c)
	email, password := p.String("email").MustGet(), p.String("password").MustGet()
	account, err := s.store.AccountByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := s.issue(account.ID)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Info("signed in", "email", account.Email)
	return c.JSON(http.StatusOK, account.User)
}

func (s *Server) signOut(c echo.Context) error {
	if cookie, err := c.Cookie(CookieName); err == nil {
		s.revoke(cookie.Value)
	}
	c.SetCookie(&http.Cookie{Name: CookieName, Path: "/", MaxAge: -1, HttpOnly: true, Secure: s.secure})
	return c.JSON(http.StatusOK, struct{}{})
}

func (s *Server) me(c echo.Context) error {
	account, ok := currentAccount(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return c.JSON(http.StatusOK, account.User)
}

func (s *Server) createUser(c echo.Context) error {
	p := Payload(c)
	hash, err := HashPassword(p.String("password").MustGet(), s.cost)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	account := Account{PasswordHash: hash}
	account.Email = p.String("email").MustGet()
	account.Role = entity.RoleManager
	account.AvatarURL = avatar(rand.IntN(10) + 1)
	account.CreatedAt, account.UpdatedAt = now, now
	if name, ok := p.String("name").Get(); ok {
		account.Name = &name
	}
	created, err := s.store.CreateAccount(c.Request().Context(), account)
	if errors.Is(err, ErrDuplicate) {
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	}
	if err != nil {
		return err
	}
	s.logger.Info("user created", "email", created.Email)
	return c.JSON(http.StatusCreated, created.User)
}

func list[T any](load func(context.Context) ([]T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := load(c.Request().Context())
		if err != nil {
			return err
		}
		if items == nil {
			items = []T{}
		}
		return c.JSON(http.StatusOK, items)
	}
}
