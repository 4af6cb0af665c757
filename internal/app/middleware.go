package app

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// corsMiddleware applies the configured origin allow-list. "*" allows every
// origin; anything else is matched exactly.
func (a *App) corsMiddleware() gin.HandlerFunc {
	origins := map[string]struct{}{}
	for _, o := range strings.Split(a.config.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins[o] = struct{}{}
		}
	}
	_, allowAll := origins["*"]

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if allowAll {
				c.Header("Access-Control-Allow-Origin", "*")
			} else if _, ok := origins[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Add("Vary", "Origin")
				c.Header("Access-Control-Allow-Credentials", "true")
			} else {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "CORS origin denied"})
				return
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// visitor tracks one client's token bucket and when it was last seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimitMiddleware applies a per-client-IP token bucket. Stale buckets are
// pruned in-line once the map grows, so there is no background goroutine to
// manage.
func (a *App) rateLimitMiddleware() gin.HandlerFunc {
	var (
		mu       sync.Mutex
		visitors = map[string]*visitor{}
	)
	rps := rate.Limit(a.config.RateLimitRPS)
	burst := a.config.RateLimitBurst

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		v, ok := visitors[ip]
		if !ok {
			if len(visitors) > 1000 {
				cutoff := time.Now().Add(-time.Hour)
				for k, old := range visitors {
					if old.lastSeen.Before(cutoff) {
						delete(visitors, k)
					}
				}
			}
			v = &visitor{limiter: rate.NewLimiter(rps, burst)}
			visitors[ip] = v
		}
		v.lastSeen = time.Now()
		allowed := v.limiter.Allow()
		remaining := int(v.limiter.Tokens())
		mu.Unlock()

		c.Header("X-RateLimit-Limit", strconv.Itoa(burst))
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
