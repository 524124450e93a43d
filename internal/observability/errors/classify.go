// Package errors classifies errors into low-cardinality metric tags.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strings"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

// Classify returns a short class for tagging metrics. Application errors
// classify by code, cancellations and timeouts by name; anything else by
// the innermost concrete type, e.g. "errors_errorstring".
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errorsx.GetCode(err) != "":
		return string(errorsx.GetCode(err))
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	return typeClass(innermost(err))
}

func innermost(err error) error {
	for {
		next := goerrors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func typeClass(err error) string {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.String() == "" {
		return "unknown"
	}
	return strings.ToLower(strings.NewReplacer(".", "_", "*", "").Replace(t.String()))
}
