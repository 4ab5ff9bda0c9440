// README: Access log middleware; attaches a request-scoped zerolog logger to the context.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Logging must run after RequestID. Handlers reach the request logger through
// zerolog.Ctx(c.Request.Context()).
func Logging(base *zerolog.Logger) gin.HandlerFunc {
	if base == nil {
		nop := zerolog.Nop()
		base = &nop
	}
	return func(c *gin.Context) {
		start := time.Now()
		l := base.With().Str("request_id", GetRequestID(c)).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		evt := l.Info()
		switch {
		case status >= 500:
			evt = l.Error()
		case status >= 400:
			evt = l.Warn()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
