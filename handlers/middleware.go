// backend/handlers/middleware.go
package handlers

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/smartagri/cropadvisor/backend/metrics"
)

// RequestLogger logs one line per request, tags it with a request id and
// records its duration.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := req.Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, reqID)

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.Since(metrics.RequestDuration.WithLabelValues(req.Method, route, strconv.Itoa(status)), start)
			elapsed := time.Since(start)

			entry := log.WithFields(log.Fields{
				"request_id": reqID,
				"method":     req.Method,
				"path":       req.URL.Path,
				"status":     status,
				"latency_ms": elapsed.Milliseconds(),
			})
			if status >= 500 {
				entry.Warn("Handler: request")
			} else {
				entry.Debug("Handler: request")
			}
			return nil
		}
	}
}
