package http

import (
	"strings"
	"time"

	"shop-service/internal/domain"
	"shop-service/internal/metrics"

	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

// Authenticate resolves the bearer token to a user and aborts with an
// authentication error before any authorization check can run.
func (h *Handler) Authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "no token provided"})
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		fail(c, err)
		c.Abort()
		return
	}

	c.Set(userContextKey, user)
	c.Next()
}

// RequireRoles allows the request through only when the authenticated user's
// role is in the allow-list.
func (h *Handler) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			fail(c, domain.E(domain.KindPermission, "access denied"))
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.RoleName() == role {
				c.Next()
				return
			}
		}
		fail(c, domain.E(domain.KindPermission, "you do not have permission to perform this action"))
		c.Abort()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func Metrics(m *metrics.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.RecordHTTPRequest(c.Request.Context(), c.Request.Method, c.FullPath(), c.Writer.Status(), start)
	}
}
