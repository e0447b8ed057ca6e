package app

import (
	"fmt"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Settings is the typed view of the configuration.
type Settings struct {
	API       APISettings       `mapstructure:"api"`
	CDN       CDNSettings       `mapstructure:"cdn"`
	Cache     CacheSettings     `mapstructure:"cache"`
	Session   SessionSettings   `mapstructure:"session"`
	Dashboard DashboardSettings `mapstructure:"dashboard"`
	MockAPI   MockAPISettings   `mapstructure:"mockapi"`
	Log       LogSettings       `mapstructure:"log"`
}

// APISettings points at the remote administrative API.
type APISettings struct {
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Email    string        `mapstructure:"email"`
	Password string        `mapstructure:"password"`
}

// CDNSettings drives image URL templating.
type CDNSettings struct {
	Host    string `mapstructure:"host"`
	Quality int    `mapstructure:"quality"`
}

// CacheSettings holds the query cache freshness window.
type CacheSettings struct {
	Stale time.Duration `mapstructure:"stale"`
}

// SessionSettings names the routes the session gate navigates to.
type SessionSettings struct {
	Login string `mapstructure:"login"`
	Home  string `mapstructure:"home"`
}

// DashboardSettings configures the HTML dashboard. Secret authenticates its
// flash cookie.
type DashboardSettings struct {
	Addr   string `mapstructure:"addr"`
	Secret string `mapstructure:"secret"`
}

// MockAPISettings configures the local stand-in for the remote API.
// An empty Datasource keeps everything in memory; an empty Secret signs
// session tokens with a per-process random key.
type MockAPISettings struct {
	Addr       string `mapstructure:"addr"`
	Datasource string `mapstructure:"datasource"`
	Secret     string `mapstructure:"secret"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "http://localhost:8080")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("api.email", "")
	v.SetDefault("api.password", "")
	v.SetDefault("cdn.host", "assets.clanplatform.com")
	v.SetDefault("cdn.quality", 80)
	v.SetDefault("cache.stale", 30*time.Second)
	v.SetDefault("session.login", "/auth/login")
	v.SetDefault("session.home", "/")
	v.SetDefault("dashboard.addr", "127.0.0.1:3000")
	v.SetDefault("dashboard.secret", "")
	v.SetDefault("mockapi.addr", "127.0.0.1:8080")
	v.SetDefault("mockapi.datasource", "")
	v.SetDefault("mockapi.secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load decodes the configuration into Settings.
func Load() mo.Result[Settings] {
	rs := Config()
	if rs.IsError() {
		return mo.Err[Settings](rs.Error())
	}
	return Decode(rs.MustGet())
}

// Decode unmarshals v into Settings; exposed so callers can decode a viper built elsewhere.
func Decode(v *viper.Viper) mo.Result[Settings] {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return mo.Err[Settings](fmt.Errorf("decode settings: %w", err))
	}
	return mo.Ok(s)
}

// Defaults returns Settings built from defaults only.
func Defaults() Settings {
	v := viper.New()
	setDefaults(v)
	return Decode(v).MustGet()
}
