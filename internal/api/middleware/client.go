package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ClientCookie = "ekusa_client"
	ClientHeader = "X-Client-ID"

	clientCookieMaxAge = 365 * 24 * 60 * 60
)

// ClientID identifies the browser behind a public request. The id comes from
// the ekusa_client cookie or the X-Client-ID header; a fresh one is issued as a
// cookie when neither carries a valid uuid.
func ClientID(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if cookie, err := c.Cookie(ClientCookie); err == nil && isUUID(cookie) {
			id = cookie
		} else if header := c.GetHeader(ClientHeader); isUUID(header) {
			id = header
		}

		if id == "" {
			id = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ClientCookie, id, clientCookieMaxAge, "/", "", secure, true)
		}

		c.Set("clientID", id)
		c.Next()
	}
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return s != "" && err == nil
}

// GetClientID returns the id set by ClientID.
func GetClientID(c *gin.Context) string {
	return c.GetString("clientID")
}
