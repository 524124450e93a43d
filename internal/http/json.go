package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Client went away; nothing left to report to.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	body := map[string]string{"error": p.ErrCode}
	if p.Err != nil {
		body["message"] = p.Err.Error()
	}
	WriteJSON(w, p.Code, body)
}

// StatusForError maps an application error to an HTTP status.
func StatusForError(err error) int {
	switch errorsx.GetCode(err) {
	case errorsx.ErrCodeValidation:
		return http.StatusBadRequest
	case errorsx.ErrCodeNotFound:
		return http.StatusNotFound
	case errorsx.ErrCodeConflict:
		return http.StatusConflict
	case errorsx.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case errorsx.ErrCodeForbidden:
		return http.StatusForbidden
	case errorsx.ErrCodeUnavailable, errorsx.ErrCodeDecode:
		return http.StatusBadGateway
	case errorsx.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errorsx.ErrCodeCanceled:
		// nginx's "client closed request"; never seen by a live client.
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError writes err as a JSON error using its application error code.
func WriteAppError(w http.ResponseWriter, err error) {
	code := errorsx.GetCode(err)
	if code == "" {
		code = errorsx.ErrCodeInternal
	}
	body := map[string]string{
		"error":   string(code),
		"message": errorsx.Message(err),
	}
	if field := errorsx.GetField(err); field != "" {
		body["field"] = field
	}
	WriteJSON(w, StatusForError(err), body)
}
