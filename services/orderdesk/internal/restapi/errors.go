package restapi

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrNotConfigured = errors.New("service client not configured")
	ErrCircuitOpen   = errors.New("circuit breaker is open")
)

// LoadError is returned by the initial load so the caller can tell a missing
// resource apart from any other failure.
type LoadError struct {
	NotFound bool
	Err      error
}

func (e *LoadError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("not found: %v", e.Err)
	}
	return fmt.Sprintf("load failed: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError wraps err, classifying it as not found when applicable.
func NewLoadError(err error) *LoadError {
	return &LoadError{NotFound: IsNotFound(err), Err: err}
}

// IsNotFound reports whether err means the requested resource does not exist.
// The service client only surfaces status codes in its error text.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "404") || strings.Contains(msg, "not found")
}

func classify(err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || !IsNotFound(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNotFound, err)
}
