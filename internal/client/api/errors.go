package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every error returned by Client unwraps to exactly one of them.
var (
	// ErrAuthentication means bad credentials or a missing, invalid or expired token.
	ErrAuthentication = errors.New("authentication failed")
	// ErrRegistration means the backend refused to create the account.
	ErrRegistration = errors.New("registration failed")
	// ErrValidation means the backend rejected the payload.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means the addressed item does not exist (for this user).
	ErrNotFound = errors.New("not found")
	// ErrNetwork means the backend could not be reached.
	ErrNetwork = errors.New("network error")
	// ErrRateLimited means the backend throttled the request.
	ErrRateLimited = errors.New("rate limited")
	// ErrServer covers 5xx responses and unreadable success bodies.
	ErrServer = errors.New("server error")
)

// Error describes a failed request. Status is zero for transport failures.
type Error struct {
	Status  int
	Message string
	Kind    error
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%v: %d %s", e.Kind, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%v: %d", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func kindForStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrAuthentication
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code == http.StatusBadRequest, code == http.StatusConflict, code == http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrServer
	}
}

// Reclassify returns err with its kind replaced by kind, except for transport
// failures, which keep ErrNetwork. Non-*Error values are wrapped.
func Reclassify(err error, kind error) error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return &Error{Kind: kind, Err: err}
	}
	if errors.Is(apiErr.Kind, ErrNetwork) {
		return err
	}
	out := *apiErr
	out.Kind = kind
	return &out
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
