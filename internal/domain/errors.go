package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountsNotFound       = errors.New("multi-account record not found")
	ErrLegacyNotFound         = errors.New("legacy credential not found")
	ErrNotConfigured          = errors.New("credential not configured")
	ErrOrganizationUnresolved = errors.New("could not determine organization")
	ErrTransport              = errors.New("network error")
	ErrDecode                 = errors.New("usage payload is not a JSON object")
)

// StatusError is returned when an endpoint answers with anything but 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// ErrorMessage maps a fetch pipeline error onto the short text shown next to
// an account.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "Not configured"
	case errors.Is(err, ErrOrganizationUnresolved):
		return "Could not determine organization"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP %d", statusErr.Code)
	case errors.Is(err, ErrDecode):
		return "Parse error"
	case errors.Is(err, ErrTransport):
		return "Network error"
	default:
		return "Network error"
	}
}
