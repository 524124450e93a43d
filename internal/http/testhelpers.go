package httpx

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/mxc-foundation/lpwan-console/internal/store"
)

// templateDir is the frontend template tree seen from this package's tests.
func templateDir() fs.FS { return os.DirFS(TemplatePathFromTest) }

// RequireTemplateRenderer parses the on-disk templates or skips the test
// when the frontend tree is missing from the checkout.
func RequireTemplateRenderer(t testing.TB) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateDir()})
	if err != nil {
		t.Skipf("templates unavailable: %v", err)
		return nil
	}
	return tr
}

// SkipIfNoTemplates skips tests that read the template tree directly.
func SkipIfNoTemplates(t testing.TB) {
	t.Helper()
	if _, err := fs.Stat(templateDir(), "."); errors.Is(err, fs.ErrNotExist) {
		t.Skip("templates unavailable")
	}
}

// ContainsAll reports whether every fragment occurs in s.
func ContainsAll(s string, fragments []string) bool {
	return !slices.ContainsFunc(fragments, func(f string) bool {
		return !strings.Contains(s, f)
	})
}

// CreateUIHandlersForTest wires UIHandlers to backend with the disk templates,
// a context notifier and an empty controller registry. It returns nil when
// the test was skipped.
func CreateUIHandlersForTest(t testing.TB, backend store.Backend) *UIHandlers {
	t.Helper()
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return nil
	}
	set, err := store.NewSet(store.Options{Backend: backend, Notifier: store.ContextNotifier{}})
	if err != nil {
		t.Fatalf("store set: %v", err)
	}
	h := NewUIHandlers(set, NewControllerRegistry(DefaultRegistryConfig()))
	h.T = tr
	return h
}
