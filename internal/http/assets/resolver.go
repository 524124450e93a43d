// Package assets maps logical static asset names to their served paths.
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
)

// StaticPrefix is the URL prefix static files are served under.
const StaticPrefix = "/static/"

// AssetResolver resolves logical asset names (e.g. "css/console.css") through
// an optional manifest.json of fingerprinted names produced by the asset build.
type AssetResolver struct {
	fsys         fs.FS
	manifestPath string
	// reload re-reads the manifest on every lookup; used with on-disk assets in dev mode.
	reload bool
	logger *slog.Logger

	mu       sync.RWMutex
	manifest map[string]string
}

// Options configures NewAssetResolver.
type Options struct {
	FS           fs.FS
	ManifestPath string
	Reload       bool
	Logger       *slog.Logger
}

// NewAssetResolver loads the manifest from opts.FS. A missing manifest is
// not an error: every asset then resolves to its logical name.
func NewAssetResolver(opts Options) (*AssetResolver, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ar := &AssetResolver{
		fsys:         opts.FS,
		manifestPath: opts.ManifestPath,
		reload:       opts.Reload,
		logger:       logger,
		manifest:     map[string]string{},
	}
	if err := ar.Reload(); err != nil {
		return nil, err
	}
	return ar, nil
}

// Reload re-reads the manifest.
func (ar *AssetResolver) Reload() error {
	if ar.fsys == nil || ar.manifestPath == "" {
		return nil
	}
	data, err := fs.ReadFile(ar.fsys, ar.manifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		ar.set(map[string]string{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("read asset manifest: %w", err)
	}
	manifest := map[string]string{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &manifest); err != nil {
			return fmt.Errorf("parse asset manifest %s: %w", ar.manifestPath, err)
		}
	}
	ar.set(manifest)
	return nil
}

func (ar *AssetResolver) set(m map[string]string) {
	ar.mu.Lock()
	ar.manifest = m
	ar.mu.Unlock()
}

// Resolve returns the served path of logicalName.
func (ar *AssetResolver) Resolve(logicalName string) string {
	if ar == nil {
		return StaticPrefix + logicalName
	}
	if ar.reload {
		if err := ar.Reload(); err != nil {
			ar.logger.Error("failed to reload asset manifest",
				slog.String("manifest", ar.manifestPath),
				slog.Any("error", err),
			)
		}
	}
	ar.mu.RLock()
	defer ar.mu.RUnlock()
	if hashed, ok := ar.manifest[logicalName]; ok && hashed != "" {
		return StaticPrefix + hashed
	}
	return StaticPrefix + logicalName
}
