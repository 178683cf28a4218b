package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNetwork wraps transport failures: no HTTP response was received.
	ErrNetwork = errors.New("backend unreachable")

	// ErrMalformedResponse is returned when a 2xx body lacks the expected fields.
	ErrMalformedResponse = errors.New("malformed backend response")
)

// FieldError is one structured validation message returned by the backend.
// Path elements are strings or array indexes.
type FieldError struct {
	Path    []any  `json:"path"`
	Message string `json:"message"`
}

// Field returns the first path element, usually the form field name.
func (f FieldError) Field() string {
	if len(f.Path) == 0 {
		return ""
	}
	return fmt.Sprint(f.Path[0])
}

// Error is a non-2xx backend response.
type Error struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// FieldMessages joins the structured field messages with ", ".
func (e *Error) FieldMessages() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, ", ")
}

// MessageFor returns the first field message whose path mentions field.
func (e *Error) MessageFor(field string) string {
	for _, f := range e.Fields {
		for _, p := range f.Path {
			if fmt.Sprint(p) == field {
				return f.Message
			}
		}
	}
	return ""
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func hasStatus(err error, status int) bool {
	be, ok := AsError(err)
	return ok && be.Status == status
}

// IsUnauthorized reports an expired, missing or invalid credential.
func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

// IsForbidden reports a permission denial.
func IsForbidden(err error) bool { return hasStatus(err, http.StatusForbidden) }

// IsNotFound reports an unknown resource, e.g. an invalid share hash.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsBadRequest reports a malformed-input rejection.
func IsBadRequest(err error) bool { return hasStatus(err, http.StatusBadRequest) }

// IsNetwork reports that the backend could not be reached at all.
func IsNetwork(err error) bool { return errors.Is(err, ErrNetwork) }
