package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// FromHTTPStatus maps an upstream HTTP status to an error code.
// 2xx statuses have no code and return the empty string.
func FromHTTPStatus(status int) ErrorCode {
	switch {
	case status >= 200 && status < 300:
		return ""
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusConflict:
		return ErrCodeConflict
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrCodeValidation
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthenticated
	case status == http.StatusForbidden:
		return ErrCodeForbidden
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return ErrCodeTimeout
	case status == http.StatusTooManyRequests, status >= 500:
		return ErrCodeUnavailable
	default:
		return ErrCodeInternal
	}
}

// MapTransportError maps errors raised while talking to the upstream into AppErrors:
//   - context.DeadlineExceeded → Timeout
//   - context.Canceled → Canceled
//   - net.Error timeouts → Timeout
//   - other network failures → Unavailable
//
// AppErrors pass through unchanged. A nil error maps to nil.
func MapTransportError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrCodeTimeout, "request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeCanceled, "request canceled")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Wrap(err, ErrCodeTimeout, "request timed out")
	}

	return Wrap(err, ErrCodeUnavailable, "network server unavailable")
}
