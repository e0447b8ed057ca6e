package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/kcmvp/clanadmin/entity"
)

const (
	DefaultCDNHost = "assets.clanplatform.com"
	DefaultQuality = 80
	// NoQuality leaves the quality parameter out of the image URL.
	NoQuality = -1
)

// FormatValue renders a discount amount: "10%" for percentages, "$15" otherwise.
func FormatValue(value int, typ string) string {
	if typ == entity.DiscountPercentage {
		return fmt.Sprintf("%d%%", value)
	}
	return fmt.Sprintf("$%d", value)
}

// FormatMoney concatenates the currency symbol and the amount as stored.
func FormatMoney(symbol string, amount int) string {
	return fmt.Sprintf("%s%d", symbol, amount)
}

// FormatDate renders "March 24".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2")
}

// CDN builds resized image URLs on the asset host.
type CDN struct {
	Host    string
	Quality int
}

type ImageOptions struct {
	Src   string
	Width int
	// Quality overrides the CDN default; NoQuality drops the parameter.
	Quality int
}

// Image returns https://<host>/cdn-cgi/image/width=W,quality=Q/<src>, with one
// leading slash of src removed.
func (c CDN) Image(opts ImageOptions) string {
	host := c.Host
	if host == "" {
		host = DefaultCDNHost
	}
	quality := opts.Quality
	if quality == 0 {
		quality = c.Quality
	}
	if quality == 0 {
		quality = DefaultQuality
	}
	params := []string{fmt.Sprintf("width=%d", opts.Width)}
	if quality > 0 {
		params = append(params, fmt.Sprintf("quality=%d", quality))
	}
	return fmt.Sprintf("https://%s/cdn-cgi/image/%s/%s", host, strings.Join(params, ","), strings.TrimPrefix(opts.Src, "/"))
}
