package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowedMethods = "GET, POST, OPTIONS"
	corsAllowedHeaders = "Authorization, Content-Type, X-Request-ID"
	corsWildcard       = "*"
)

// CORS reflects explicitly listed origins and allows credentials for them so
// the token cookies reach the browser. A "*" entry answers other origins with
// a wildcard and no credentials. An empty list sends no CORS headers at all.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		header := c.Writer.Header()
		switch originPolicy(origin, allowedOrigins) {
		case originListed:
			header.Set("Vary", "Origin")
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
		case originWildcard:
			header.Set("Access-Control-Allow-Origin", corsWildcard)
		default:
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next()
			return
		}
		header.Set("Access-Control-Allow-Methods", corsAllowedMethods)
		header.Set("Access-Control-Allow-Headers", corsAllowedHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type originMatch int

const (
	originDenied originMatch = iota
	originWildcard
	originListed
)

func originPolicy(origin string, allowed []string) originMatch {
	match := originDenied
	for _, candidate := range allowed {
		candidate = strings.TrimSpace(candidate)
		switch {
		case candidate == corsWildcard:
			match = originWildcard
		case candidate != "" && strings.EqualFold(candidate, origin):
			return originListed
		}
	}
	return match
}
