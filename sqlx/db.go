package sqlx

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kcmvp/clanadmin/app"
	"github.com/spf13/viper"

	// Drivers selectable through datasource.<name>.driver.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the part of *sql.DB this package needs, plus the driver name so
// statements can be written with the right placeholders.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PingContext(ctx context.Context) error
	Close() error
	Driver() string
}

type stdDB struct {
	*sql.DB
	driver string
}

func (d stdDB) Driver() string { return d.driver }

// loggingDB logs every statement at debug level.
type loggingDB struct {
	inner  DB
	logger *slog.Logger
}

func (d loggingDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.inner.ExecContext(ctx, query, args...)
	d.logger.DebugContext(ctx, "sql exec", "dur", time.Since(start), "err", err, "sql", query, "args", args)
	return res, err
}

func (d loggingDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.inner.QueryContext(ctx, query, args...)
	d.logger.DebugContext(ctx, "sql query", "dur", time.Since(start), "err", err, "sql", query, "args", args)
	return rows, err
}

func (d loggingDB) PingContext(ctx context.Context) error {
	err := d.inner.PingContext(ctx)
	d.logger.DebugContext(ctx, "sql ping", "err", err)
	return err
}

func (d loggingDB) Close() error {
	err := d.inner.Close()
	d.logger.Debug("sql close", "err", err)
	return err
}

func (d loggingDB) Driver() string { return d.inner.Driver() }

// WithSQLLogger wraps db with a statement logger if logger is not nil.
func WithSQLLogger(db DB, logger *slog.Logger) DB {
	if logger == nil {
		return db
	}
	return loggingDB{inner: db, logger: logger}
}

var (
	dsRegistry = map[string]DB{}
	dsMu       sync.RWMutex

	initOnce sync.Once
	initErr  error

	sqlLogger *slog.Logger
)

// SetSQLLogger enables SQL logging for datasources registered after this call.
func SetSQLLogger(l *slog.Logger) {
	sqlLogger = l
}

const (
	UserKey     = "${user}"
	PasswordKey = "${password}"
	HostKey     = "${host}"
	dsKey       = "datasource"
)

// DataSource is one entry of the datasource section:
//
//	datasource:
//	  mock:
//	    driver: postgres
//	    url: postgres://${user}:${password}@${host}/clan?sslmode=disable
//	    user: clan
//	    password: secret
//	    host: localhost:5432
type DataSource struct {
	Driver   string `mapstructure:"driver"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	URL      string `mapstructure:"url"`
}

// DSNChecked returns DSN, failing when url is empty or a placeholder it uses has no value.
func (ds DataSource) DSNChecked() (string, error) {
	if strings.TrimSpace(ds.URL) == "" {
		return "", fmt.Errorf("dsn requires url")
	}
	if strings.Contains(ds.URL, UserKey) && ds.User == "" {
		return "", fmt.Errorf("dsn requires user")
	}
	if strings.Contains(ds.URL, PasswordKey) && ds.Password == "" {
		return "", fmt.Errorf("dsn requires password")
	}
	if strings.Contains(ds.URL, HostKey) && ds.Host == "" {
		return "", fmt.Errorf("dsn requires host")
	}
	return ds.DSN(), nil
}

// DSN substitutes ${user}, ${password} and ${host} in url. Drivers do not
// share a DSN format, so nothing else is interpreted.
func (ds DataSource) DSN() string {
	dsn := strings.ReplaceAll(ds.URL, UserKey, ds.User)
	dsn = strings.ReplaceAll(dsn, PasswordKey, ds.Password)
	return strings.ReplaceAll(dsn, HostKey, ds.Host)
}

// Register opens cfg, pings it and stores it under name, replacing and
// closing any datasource already registered there.
func Register(ctx context.Context, name string, cfg DataSource) (DB, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("driver is required to register datasource %q", name)
	}
	dsn, err := cfg.DSNChecked()
	if err != nil {
		return nil, fmt.Errorf("invalid dsn for datasource %q: %w", name, err)
	}
	raw, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open datasource %q: %w", name, err)
	}
	if cfg.Driver == "sqlite3" {
		// one writer; also keeps a shared in-memory database alive
		raw.SetMaxOpenConns(1)
	}
	if err = raw.PingContext(ctx); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping datasource %q: %w", name, err)
	}

	db := WithSQLLogger(stdDB{DB: raw, driver: cfg.Driver}, sqlLogger)

	dsMu.Lock()
	defer dsMu.Unlock()
	if old, ok := dsRegistry[name]; ok {
		_ = old.Close()
	}
	dsRegistry[name] = db
	return db, nil
}

func initDataSources() error {
	initOnce.Do(func() {
		res := app.Config()
		if res.IsError() {
			initErr = res.Error()
			return
		}
		raw := res.MustGet().GetStringMap(dsKey)
		for name, val := range raw {
			m, ok := val.(map[string]any)
			if !ok {
				initErr = fmt.Errorf("datasource %s: expected a mapping", name)
				return
			}
			child := viper.New()
			if err := child.MergeConfigMap(m); err != nil {
				initErr = fmt.Errorf("merge datasource %s: %w", name, err)
				return
			}
			var ds DataSource
			if err := child.Unmarshal(&ds); err != nil {
				initErr = fmt.Errorf("unmarshal datasource %s: %w", name, err)
				return
			}
			if _, err := Register(context.Background(), name, ds); err != nil {
				initErr = err
				return
			}
		}
	})
	return initErr
}

// GetDS returns the datasource registered under name, opening the configured
// datasources on first use.
func GetDS(name string) (DB, error) {
	if err := initDataSources(); err != nil {
		return nil, err
	}
	dsMu.RLock()
	defer dsMu.RUnlock()
	db, ok := dsRegistry[name]
	if !ok {
		return nil, fmt.Errorf("datasource %q is not configured", name)
	}
	return db, nil
}

// CloseDataSource closes and removes the named datasource.
func CloseDataSource(name string) error {
	dsMu.Lock()
	defer dsMu.Unlock()
	if db, ok := dsRegistry[name]; ok {
		delete(dsRegistry, name)
		return db.Close()
	}
	return nil
}

// CloseAllDataSources closes every registered datasource and returns the first error.
func CloseAllDataSources() error {
	dsMu.Lock()
	defer dsMu.Unlock()
	var firstErr error
	for name, db := range dsRegistry {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(dsRegistry, name)
	}
	return firstErr
}
