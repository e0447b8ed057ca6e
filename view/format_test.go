package view

import (
	"testing"
	"time"

	"github.com/kcmvp/clanadmin/entity"
	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "10%", FormatValue(10, entity.DiscountPercentage))
	assert.Equal(t, "$15", FormatValue(15, entity.DiscountFixed))
	assert.Equal(t, "$0", FormatValue(0, "unknown"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "March 24", FormatDate(time.Date(2024, time.March, 24, 18, 0, 0, 0, time.UTC)))
	assert.Empty(t, FormatDate(time.Time{}))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "€1999", FormatMoney("€", 1999))
}

func TestCDN_Image(t *testing.T) {
	tests := []struct {
		name string
		cdn  CDN
		opts ImageOptions
		want string
	}{
		{
			name: "default quality and leading slash stripped",
			opts: ImageOptions{Src: "/a/b.jpg", Width: 150},
			want: "https://assets.clanplatform.com/cdn-cgi/image/width=150,quality=80/a/b.jpg",
		},
		{
			name: "only one slash stripped",
			opts: ImageOptions{Src: "//a.jpg", Width: 10},
			want: "https://assets.clanplatform.com/cdn-cgi/image/width=10,quality=80//a.jpg",
		},
		{
			name: "configured host and quality",
			cdn:  CDN{Host: "cdn.test", Quality: 60},
			opts: ImageOptions{Src: "x.png", Width: 300},
			want: "https://cdn.test/cdn-cgi/image/width=300,quality=60/x.png",
		},
		{
			name: "explicit quality wins",
			cdn:  CDN{Quality: 60},
			opts: ImageOptions{Src: "x.png", Width: 300, Quality: 95},
			want: "https://assets.clanplatform.com/cdn-cgi/image/width=300,quality=95/x.png",
		},
		{
			name: "no quality",
			opts: ImageOptions{Src: "x.png", Width: 300, Quality: NoQuality},
			want: "https://assets.clanplatform.com/cdn-cgi/image/width=300/x.png",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.cdn.Image(test.opts))
		})
	}
}

func TestColors(t *testing.T) {
	assert.Equal(t, Red, RoleColor(entity.RoleAdmin))
	assert.Equal(t, Green, RoleColor(entity.RoleOwner))
	assert.Equal(t, Blue, RoleColor(entity.RoleManager))
	assert.Equal(t, None, RoleColor("Guest"))

	assert.Equal(t, Green, StatusColor(entity.StatusNew))
	assert.Equal(t, Red, StatusColor(entity.StatusOverdue))
	assert.Equal(t, Purple, StatusColor(entity.StatusRefund))
	assert.Equal(t, Yellow, StatusColor(entity.StatusDelivering))
	assert.Equal(t, Neutral, StatusColor(entity.StatusCompleted))

	assert.Equal(t, "bg-purple-200 text-purple-800", Purple.Class())
	assert.Empty(t, None.Class())
}
