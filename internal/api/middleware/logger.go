package middleware

import (
	"time"

	"ev-charge-planner/internal/logger"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request. Server errors are logged at error level.
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(began)
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}
		switch {
		case status >= 500:
			log.Errorf("%s %s %d %s %s", c.Request.Method, path, status, latency, c.Errors.String())
		case status >= 400:
			log.Warnf("%s %s %d %s", c.Request.Method, path, status, latency)
		default:
			log.Infof("%s %s %d %s", c.Request.Method, path, status, latency)
		}
	}
}
