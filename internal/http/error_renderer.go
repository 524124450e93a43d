package httpx

import (
	"net/http"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

// ErrorRenderer renders a page with the given data.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data any)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request
	// Err is the failure to report; may be nil when only field errors are set.
	Err error
	// FieldErrors maps form field names to messages.
	FieldErrors map[string]string
	// Renderer is typically h.renderDashboardPage.
	Renderer ErrorRenderer
	PageMeta PageMeta
	// Data is merged into the template data, e.g. to keep form values.
	Data map[string]any
	// StatusCode is written before rendering when non-zero.
	StatusCode int
	// ShowToast also sends the message as a showToast event.
	ShowToast bool
}

// DetermineErrorStatus returns the status a page should answer with for err,
// or 0 to keep the default (200, so htmx swaps the error into place).
func DetermineErrorStatus(err error) int {
	switch {
	case err == nil:
		return 0
	case errorsx.IsNotFound(err):
		return http.StatusNotFound
	case errorsx.IsConflict(err):
		return http.StatusConflict
	case errorsx.IsForbidden(err):
		return http.StatusForbidden
	default:
		return 0
	}
}

// RenderError renders a page carrying a general error message and any
// field-level errors.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	generalError := processError(opts.Err, &opts.FieldErrors)
	page := NewTemplateData(opts.R, opts.PageMeta).
		WithFailure(generalError, opts.FieldErrors).
		WithAll(opts.Data)

	if opts.ShowToast && generalError != "" {
		triggerToast(opts.W, generalError, "error")
	}
	if opts.StatusCode != 0 {
		opts.W.WriteHeader(opts.StatusCode)
	}
	opts.Renderer(opts.W, opts.R, page.Build())
}

// processError returns a user-facing message for err. Validation errors that
// name a field are moved into fieldErrors.
func processError(err error, fieldErrors *map[string]string) string {
	if err == nil {
		return ""
	}

	switch errorsx.GetCode(err) {
	case errorsx.ErrCodeTimeout:
		return "Request timed out. Please try again."
	case errorsx.ErrCodeCanceled:
		return "Request was canceled."
	case errorsx.ErrCodeUnavailable:
		return "The network server is unavailable. Please try again later."
	case errorsx.ErrCodeNotFound:
		return "The requested item no longer exists."
	case errorsx.ErrCodeForbidden:
		return "You do not have permission to do that."
	case errorsx.ErrCodeValidation:
		if field := errorsx.GetField(err); field != "" && fieldErrors != nil {
			if *fieldErrors == nil {
				*fieldErrors = make(map[string]string)
			}
			(*fieldErrors)[field] = errorsx.Message(err)
			return errMsgFixBelow
		}
		return errorsx.Message(err)
	case errorsx.ErrCodeConflict:
		return errorsx.Message(err)
	default:
		return "An error occurred. Please try again."
	}
}
