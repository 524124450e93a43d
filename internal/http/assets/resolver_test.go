package assets

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetResolver(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.json": {Data: []byte(`{"css/console.css":"css/console.3f2a.css"}`)},
	}
	ar, err := NewAssetResolver(Options{FS: fsys, ManifestPath: "manifest.json"})
	require.NoError(t, err)

	assert.Equal(t, "/static/css/console.3f2a.css", ar.Resolve("css/console.css"))
	assert.Equal(t, "/static/js/htmx.min.js", ar.Resolve("js/htmx.min.js"))
}

func TestAssetResolver_MissingManifest(t *testing.T) {
	ar, err := NewAssetResolver(Options{FS: fstest.MapFS{}, ManifestPath: "manifest.json"})
	require.NoError(t, err)
	assert.Equal(t, "/static/css/console.css", ar.Resolve("css/console.css"))

	var nilResolver *AssetResolver
	assert.Equal(t, "/static/x.js", nilResolver.Resolve("x.js"))
}

func TestAssetResolver_BadManifest(t *testing.T) {
	_, err := NewAssetResolver(Options{
		FS:           fstest.MapFS{"manifest.json": {Data: []byte(`{`)}},
		ManifestPath: "manifest.json",
	})
	require.Error(t, err)
}

func TestAssetResolver_ReloadPicksUpChanges(t *testing.T) {
	fsys := fstest.MapFS{"manifest.json": {Data: []byte(`{}`)}}
	ar, err := NewAssetResolver(Options{FS: fsys, ManifestPath: "manifest.json", Reload: true})
	require.NoError(t, err)
	assert.Equal(t, "/static/app.js", ar.Resolve("app.js"))

	fsys["manifest.json"] = &fstest.MapFile{Data: []byte(`{"app.js":"app.1.js"}`)}
	assert.Equal(t, "/static/app.1.js", ar.Resolve("app.js"))
}
