// backend/handlers/error_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/smartagri/cropadvisor/backend/services"
)

// JSONErrorHandler replies {"error": reason} with the status code that
// matches the error kind. Unknown errors are 500s.
func JSONErrorHandler(err error, c echo.Context) {
	code, msg := statusFor(err)
	if code >= 500 {
		log.WithError(err).WithField("path", c.Path()).Error("Handler: request failed")
	}
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = respondWithError(c, code, msg)
	}
	if err != nil {
		log.WithError(err).Error("Handler: could not write error response")
	}
}

const internalErrorMessage = "internal server error"

func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest, services.Reason(err)
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, services.Reason(err)
	case errors.Is(err, services.ErrModelUnavailable):
		return http.StatusServiceUnavailable, services.Reason(err)
	case errors.Is(err, services.ErrScoring):
		return http.StatusInternalServerError, "Prediction failed: " + services.Reason(err)
	default:
		// Detail stays in the log line written by JSONErrorHandler.
		return http.StatusInternalServerError, internalErrorMessage
	}
}

func respondWithError(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]string{"error": message})
}

func badRequest(format string, args ...interface{}) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}
