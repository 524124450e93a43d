package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"

	httpassets "github.com/mxc-foundation/lpwan-console/internal/http/assets"
	assetfuncs "github.com/mxc-foundation/lpwan-console/internal/http/templates/assets"
	corefuncs "github.com/mxc-foundation/lpwan-console/internal/http/templates/core"
)

// Template names rendered outside the per-page content lookup.
const (
	tmplLayout     = "layout"
	tmplErrorPage  = "error-layout"
	tmplLogin      = "login-page"
	tmplSignedOut  = "signed-out-page"
	tmplTableFrame = "remote-table"
)

// templateGlobs are parsed in order; later files may redefine blocks.
var templateGlobs = []string{"*.tmpl", "pages/*.tmpl", "partials/*.tmpl"}

// TemplateRenderer executes the console's html/template set.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig configures NewTemplateRenderer. TemplateFS is required.
type TemplateRendererConfig struct {
	TemplateFS fs.FS
	Resolver   *httpassets.AssetResolver
	Logger     *slog.Logger
}

// NewTemplateRenderer parses the template tree in cfg.TemplateFS with the
// core and asset helper funcs installed.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}

	var t *template.Template
	funcs := template.FuncMap{}
	maps.Copy(funcs, corefuncs.Funcs(corefuncs.Deps{
		Template:           &t,
		ContentTemplateFor: ContentTemplateFor,
	}))
	maps.Copy(funcs, assetfuncs.Funcs(cfg.Resolver))

	t, err := template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS, templateGlobs...)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed", slog.Any("error", err))
		}
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: cfg.Logger}, nil
}

// Render executes name into a buffer and, only if that succeeds, writes it
// with status. The returned error is always an execution error; nothing has
// been written to w when it is non-nil.
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logError("template execution failed", name, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logError("template write failed", name, err)
	}
	return nil
}

// Stream executes name directly into w, for fragments appended to a
// response that has already started.
func (r *TemplateRenderer) Stream(w io.Writer, name string, data any) error {
	if err := r.t.ExecuteTemplate(w, name, data); err != nil {
		r.logError("template execution failed", name, err)
		return err
	}
	return nil
}

func (r *TemplateRenderer) logError(msg, name string, err error) {
	if r.logger == nil {
		return
	}
	r.logger.Error(msg, slog.String("template", name), slog.Any("error", err))
}
