package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gin-gonic/gin"
)

var durationBuckets = metrics.ExponentialBuckets(1e-3, 5, 6)

// MeterRequests counts requests and records their duration in set, labelled by
// method, route and status. Requests that match no route are labelled "unmatched".
func MeterRequests(set *metrics.Set) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		labels := fmt.Sprintf(`{method=%q,path=%q,status="%s"}`, c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
		set.GetOrCreateCounter("http_requests_total" + labels).Inc()
		set.GetOrCreatePrometheusHistogramExt("http_request_duration_seconds"+labels, durationBuckets).UpdateDuration(start)
	}
}
