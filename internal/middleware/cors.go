package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const corsMaxAge = 10 * time.Minute

var (
	corsAllowHeaders  = strings.Join([]string{"Content-Type", "Authorization", HeaderRequestID}, ", ")
	corsAllowMethods  = strings.Join([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}, ", ")
	corsExposeHeaders = HeaderRequestID
)

// originPolicy aceita origens exatas ou "*.dominio" para subdomínios.
// Sem entradas, qualquer Origin é refletida.
type originPolicy struct {
	exact    []string
	suffixes []string
}

func newOriginPolicy(allowed []string) originPolicy {
	var p originPolicy
	for _, o := range allowed {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch {
		case o == "":
		case strings.HasPrefix(o, "*."):
			p.suffixes = append(p.suffixes, o[1:])
		default:
			p.exact = append(p.exact, o)
		}
	}
	return p
}

func (p originPolicy) open() bool {
	return len(p.exact) == 0 && len(p.suffixes) == 0
}

func (p originPolicy) allows(origin string) bool {
	if p.open() || slices.Contains(p.exact, origin) {
		return true
	}
	_, host, ok := strings.Cut(origin, "://")
	if !ok {
		return false
	}
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	return slices.ContainsFunc(p.suffixes, func(suffix string) bool {
		return strings.HasSuffix(host, suffix)
	})
}

func CORSMiddleware(allowed []string) gin.HandlerFunc {
	policy := newOriginPolicy(allowed)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		preflight := c.Request.Method == http.MethodOptions

		if origin == "" {
			if preflight {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		if !policy.allows(origin) {
			if preflight {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Expose-Headers", corsExposeHeaders)

		if preflight {
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Max-Age", strconv.Itoa(int(corsMaxAge.Seconds())))
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
