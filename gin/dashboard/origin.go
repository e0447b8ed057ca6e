package dashboard

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// sameOrigin refuses unsafe requests sent by another site. The dashboard acts
// with the operator's API session, so a form posted from elsewhere must not
// reach it. Browsers report the initiator in Sec-Fetch-Site; older ones only
// send Origin or Referer, which must then name this host.
func sameOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if site := c.GetHeader("Sec-Fetch-Site"); site != "" && site != "same-origin" && site != "none" {
			refuse(c)
			return
		}
		source := c.GetHeader("Origin")
		if source == "" {
			source = c.GetHeader("Referer")
		}
		if source != "" {
			u, err := url.Parse(source)
			if err != nil || u.Host != c.Request.Host {
				refuse(c)
				return
			}
		}
		c.Next()
	}
}

func refuse(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "cross-origin request refused"})
}
