// Package assets provides the template helpers that link static files.
package assets

import (
	"html/template"

	httpassets "github.com/mxc-foundation/lpwan-console/internal/http/assets"
)

// Funcs returns the "asset" helper resolving logical names through resolver.
// A nil resolver serves logical names unchanged.
func Funcs(resolver *httpassets.AssetResolver) template.FuncMap {
	return template.FuncMap{
		"asset": resolver.Resolve,
	}
}
