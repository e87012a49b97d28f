package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alecgard/dot-goal-journal/internal/observability"
)

// Metrics records every request under its route template, so /goals/:id is
// one series no matter how many goals exist.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observability.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
