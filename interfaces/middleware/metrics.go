package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"yt-insights/infrastructure/metrics"
)

// Metrics records request duration per route template. Unmatched routes
// are grouped under "unmatched".
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		m.RequestStarted()
		defer m.RequestFinished()

		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, ctx.Request.Method, strconv.Itoa(ctx.Writer.Status()), time.Since(start))
	}
}
