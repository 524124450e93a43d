package config

import "time"

// Page size bounds of remote tables.
const (
	DefaultListingPageSize = 10
	MaxListingPageSize     = 100
)

// ListingConfig controls remote table defaults and the per-session
// controller registry.
type ListingConfig struct {
	PageSize int `env:"PAGE_SIZE" envDefault:"10"`
	// ControllerCapacity bounds live list controllers across all sessions.
	ControllerCapacity int `env:"CONTROLLER_CAPACITY" envDefault:"4096"`
	// ControllerTTL evicts controllers idle for longer.
	ControllerTTL time.Duration `env:"CONTROLLER_TTL" envDefault:"30m"`
}

// Sanitize clamps the page size to the supported range.
func (c *ListingConfig) Sanitize() {
	if c.PageSize <= 0 {
		c.PageSize = DefaultListingPageSize
	}
	if c.PageSize > MaxListingPageSize {
		c.PageSize = MaxListingPageSize
	}
	if c.ControllerCapacity <= 0 {
		c.ControllerCapacity = 4096
	}
	if c.ControllerTTL < 0 {
		c.ControllerTTL = 0
	}
}
