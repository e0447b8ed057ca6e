package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/samber/lo"
)

const (
	flashCookie = "clanadmin_flash"
	flashNotice = "notice"
	flashAlert  = "alert"
)

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithFlashSecret sets the key authenticating the flash cookie. Without it a
// random key is used and pending messages do not survive a restart.
func WithFlashSecret(secret string) Option {
	return func(d *Dashboard) {
		if secret != "" {
			d.flashes = newFlashStore([]byte(secret))
		}
	}
}

func newFlashStore(key []byte) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
	return store
}

func randomFlashStore() *sessions.CookieStore {
	return newFlashStore(securecookie.GenerateRandomKey(32))
}

// flash queues a message for the next page the browser is redirected to.
func (d *Dashboard) flash(c *gin.Context, kind, msg string) {
	// Get hands back a fresh session when the cookie cannot be decoded.
	s, _ := d.flashes.Get(c.Request, flashCookie)
	s.AddFlash(msg, kind)
	if err := s.Save(c.Request, c.Writer); err != nil {
		d.logger.Warn("save flash", "err", err)
	}
}

// takeFlashes pops every pending message.
func (d *Dashboard) takeFlashes(c *gin.Context) (notices, alerts []string) {
	s, _ := d.flashes.Get(c.Request, flashCookie)
	toStrings := func(v any, _ int) (string, bool) {
		str, ok := v.(string)
		return str, ok
	}
	notices = lo.FilterMap(s.Flashes(flashNotice), toStrings)
	alerts = lo.FilterMap(s.Flashes(flashAlert), toStrings)
	if len(notices)+len(alerts) > 0 {
		if err := s.Save(c.Request, c.Writer); err != nil {
			d.logger.Warn("save flash", "err", err)
		}
	}
	return notices, alerts
}
