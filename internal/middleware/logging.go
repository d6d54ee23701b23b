package middleware

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// debugLog logs only when LOG_LEVEL=debug
func debugLog(format string, v ...interface{}) {
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.Printf(format, v...)
	}
}

// RequestLogger writes one line per request with the request id, method,
// path, status and duration. Query strings only appear at debug level.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Printf("[%s] %s %s %d %s",
			GetRequestID(c), c.Request.Method, path,
			c.Writer.Status(), time.Since(start))
		if raw := c.Request.URL.RawQuery; raw != "" {
			debugLog("[%s] query: %s", GetRequestID(c), raw)
		}
	}
}
