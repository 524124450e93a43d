package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

// APIError is a non-2xx upstream response.
type APIError struct {
	Status int
	// Code is the gRPC status code reported by the gateway, when present.
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned %d", e.Status)
	}
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// errorBody is the grpc-gateway error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// decodeError turns a non-2xx response into an AppError whose Message is the
// server-supplied text, falling back to the status text.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{Status: resp.StatusCode}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = strings.TrimSpace(body.Message)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(body.Error)
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 {
		apiErr.Message = text
	}

	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return errorsx.Wrap(apiErr, errorsx.FromHTTPStatus(resp.StatusCode), msg)
}
