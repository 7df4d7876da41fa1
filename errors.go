package vortex

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeTransportFailed   = "vortex_transport_failed"
	TextCodeRequestFailed     = "vortex_request_failed"
	TextCodeRenewalExhausted  = "vortex_renewal_exhausted"
	TextCodeInvalidTransition = "vortex_invalid_auth_transition"
	TextCodeClientClosed      = "vortex_client_closed"
)

// ErrRenewalExhausted is surfaced when the backoff ceiling is reached and no
// further automatic retries will be attempted.
var ErrRenewalExhausted = goerrors.New("credential renewal attempts exhausted", goerrors.CategoryAuth).
	WithTextCode(TextCodeRenewalExhausted).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidTransition is returned when the auth status table rejects an event.
var ErrInvalidTransition = goerrors.New("invalid auth status transition", goerrors.CategoryConflict).
	WithTextCode(TextCodeInvalidTransition).
	WithCode(goerrors.CodeConflict)

// ErrClientClosed is returned by operations invoked after Close.
var ErrClientClosed = goerrors.New("vortex client is closed", goerrors.CategoryOperation).
	WithTextCode(TextCodeClientClosed)

// APIError is the single shape every gateway failure is normalized into,
// whether the request died in the transport or came back with a non-success
// status. Status is zero for transport failures.
type APIError struct {
	Operation string
	Path      string
	Status    int
	Message   string
	RequestID string
	Err       error
}

func (e *APIError) Error() string {
	if e == nil {
		return "vortex api error"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s failed", e.Operation, e.Path)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Metadata exposes the error's fields for structured logging or telemetry.
func (e *APIError) Metadata() map[string]any {
	if e == nil {
		return nil
	}

	meta := map[string]any{}
	if e.Operation != "" {
		meta["operation"] = e.Operation
	}
	if e.Path != "" {
		meta["path"] = e.Path
	}
	if e.Status != 0 {
		meta["status"] = e.Status
	}
	if e.RequestID != "" {
		meta["request_id"] = e.RequestID
	}
	return meta
}

// IsTransportError checks whether a request failed before any response was
// obtained from the server.
func IsTransportError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 0
}

// IsMissingRouteError checks whether the server answered 404 for the request.
func IsMissingRouteError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorizedError checks whether the server rejected the credential.
func IsUnauthorizedError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		(apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}

// IsRetryExhaustedError checks whether a renewal failure is terminal, i.e.
// the backoff policy declined to schedule another attempt.
func IsRetryExhaustedError(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == TextCodeRenewalExhausted
}
