package middleware

import (
	"strconv"
	"time"

	"github.com/Payphone-Digital/hospital-registry/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records in-flight requests, request counts and latency per route
// template, so path parameters do not explode label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight(1)
		defer m.InFlight(-1)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
