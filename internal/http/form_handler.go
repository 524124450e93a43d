package httpx

import (
	"context"
	"log/slog"
	"net/http"

	errorsx "github.com/mxc-foundation/lpwan-console/internal/errors"
)

// FormParser parses form data from an HTTP request and returns the parsed data
// along with any field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormService creates and updates entities of input type T.
type FormService[T any] interface {
	Create(ctx context.Context, in T) (string, error)
	Update(ctx context.Context, id string, in T) error
}

// FormRenderer renders the form template with the given data.
type FormRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// FormHandlerOpts contains all options needed to handle a form submission.
type FormHandlerOpts[T any] struct {
	W        http.ResponseWriter
	R        *http.Request
	Mode     FormMode
	Parser   FormParser[T]
	Service  FormService[T]
	Renderer FormRenderer
	// SuccessURL returns the redirect target for the saved entity's ID.
	SuccessURL func(id string) string
	PageMeta   PageMeta
	// ExtraData is merged into the template data on error.
	ExtraData map[string]any
	// GetID extracts the entity ID in edit mode; defaults to r.PathValue("id").
	GetID  func(r *http.Request) string
	Logger *slog.Logger
}

// HandleForm processes a create or edit submission: parse, validate, save,
// then redirect, or re-render the form with errors.
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Parser == nil || opts.Service == nil || opts.Renderer == nil || opts.SuccessURL == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}
	if opts.Mode != FormModeCreate && opts.Mode != FormModeEdit {
		http.Error(opts.W, "invalid form mode", http.StatusBadRequest)
		return
	}

	var id string
	if opts.Mode == FormModeEdit {
		id = getFormID(opts)
		if id == "" {
			http.NotFound(opts.W, opts.R)
			return
		}
	}

	data, fieldErrors := opts.Parser(opts.R)
	if len(fieldErrors) > 0 {
		opts.renderFormError(fieldErrors, "", data)
		return
	}

	var err error
	if opts.Mode == FormModeEdit {
		err = opts.Service.Update(opts.R.Context(), id, data)
	} else {
		id, err = opts.Service.Create(opts.R.Context(), data)
	}
	if err != nil {
		handleFormServiceError(opts, err, data)
		return
	}

	target := opts.SuccessURL(id)
	if IsHTMX(opts.R) {
		HTMX(opts.W).Redirect(target)
		return
	}
	http.Redirect(opts.W, opts.R, target, http.StatusSeeOther)
}

func getFormID[T any](opts FormHandlerOpts[T]) string {
	if opts.GetID != nil {
		return opts.GetID(opts.R)
	}
	return opts.R.PathValue("id")
}

// handleFormServiceError maps a save failure onto the form. The store has
// already toasted the upstream message.
func handleFormServiceError[T any](opts FormHandlerOpts[T], err error, data T) {
	if errorsx.IsCanceled(err) {
		http.Error(opts.W, "request canceled", http.StatusRequestTimeout)
		return
	}
	if errorsx.IsUnauthenticated(err) {
		redirectToLogin(opts.W, opts.R)
		return
	}

	if field := errorsx.GetField(err); field != "" && errorsx.IsValidation(err) {
		opts.renderFormError(map[string]string{field: errorsx.Message(err)}, "", data)
		return
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.WarnContext(opts.R.Context(), "form save failed",
		slog.String("mode", string(opts.Mode)),
		slog.Any("error", err),
	)

	switch {
	case errorsx.IsValidation(err), errorsx.IsConflict(err):
		opts.renderFormError(nil, errorsx.Message(err), data)
	case errorsx.IsTimeout(err), errorsx.IsUnavailable(err):
		opts.renderFormError(nil, "The network server is not responding. Please try again.", data)
	default:
		opts.renderFormError(nil, "Unable to save. Please try again.", data)
	}
}

// renderFormError renders the form with errors and preserves form data.
func (fh FormHandlerOpts[T]) renderFormError(fieldErrors map[string]string, generalError string, data T) {
	page := NewTemplateData(fh.R, fh.PageMeta).
		WithFailure(generalError, fieldErrors).
		With("Mode", fh.Mode).
		WithAll(fh.ExtraData).
		With("FormData", data)
	fh.Renderer(fh.W, fh.R, page.Build())
}
