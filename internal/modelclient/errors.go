// internal/modelclient/errors.go
package modelclient

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is returned without touching the network while the breaker
// is open. Callers match it to present "service unavailable" instead of a
// generic failure.
var ErrCircuitOpen = errors.New("model endpoint circuit open")

// StatusError classifies an HTTP-level failure from a model endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("model endpoint returned HTTP %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("model endpoint returned HTTP %d", e.Code)
}

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	switch e.Code {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// Auth reports an authentication or authorization failure. These are never
// transient and are surfaced immediately without retry.
func (e *StatusError) Auth() bool {
	return e.Code == 401 || e.Code == 403
}
