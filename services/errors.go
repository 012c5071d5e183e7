// backend/services/errors.go
package services

import (
	"strings"

	"github.com/pkg/errors"
)

// Error taxonomy of the serving path. Callers test with errors.Is; the
// handlers map each kind to a status code.
var (
	// ErrInvalidRequest converts to a 400.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound converts to a 404.
	ErrNotFound = errors.New("not found")
	// ErrModelLoad marks an artifact that could not be opened. The resolver
	// recovers from it by trying the next candidate.
	ErrModelLoad = errors.New("model load failure")
	// ErrModelUnavailable means no candidate artifact could be loaded.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrScoring means a loaded model failed on a feature vector.
	ErrScoring = errors.New("scoring failure")
)

// AsInvalidRequest returns an error that wraps ErrInvalidRequest.
func AsInvalidRequest(msg string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidRequest, msg, args...)
}

// AsNotFound returns an error that wraps ErrNotFound.
func AsNotFound(msg string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, msg, args...)
}

// Reason strips the taxonomy suffix so clients see "No readings for farm 3"
// rather than "No readings for farm 3: not found".
func Reason(err error) string {
	msg := err.Error()
	for _, kind := range []error{ErrInvalidRequest, ErrNotFound, ErrModelUnavailable, ErrScoring, ErrModelLoad} {
		msg = strings.TrimSuffix(msg, ": "+kind.Error())
	}
	return msg
}
