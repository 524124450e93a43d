package httpx

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mxc-foundation/lpwan-console/internal/views"
)

// ControllerKey identifies the list controller of one view for one session.
type ControllerKey struct {
	SessionID string
	View      string
	OwnerID   string
}

// ControllerRegistry keeps list controllers between requests so paging and
// the latest-fetch sequence survive across htmx round trips. It is an LRU with
// per-entry idle TTL. Concurrency: methods are safe for concurrent use.
type ControllerRegistry struct {
	mu     sync.Mutex
	cap    int
	ttl    time.Duration
	ll     *list.List // front = most-recently used
	items  map[ControllerKey]*list.Element
	now    func() time.Time
	evicts atomic.Uint64
}

type registryEntry struct {
	key    ControllerKey
	list   views.Bound
	expiry time.Time // zero means no expiry
}

// RegistryConfig groups constructor options.
type RegistryConfig struct {
	Capacity int
	// TTL is how long an idle controller is kept; <= 0 keeps it until evicted.
	TTL time.Duration
	Now func() time.Time
}

// DefaultRegistryConfig returns the production defaults.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{Capacity: 4096, TTL: 30 * time.Minute, Now: time.Now}
}

// NewControllerRegistry creates a registry from cfg.
func NewControllerRegistry(cfg RegistryConfig) *ControllerRegistry {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 4096
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &ControllerRegistry{
		cap:   capacity,
		ttl:   cfg.TTL,
		ll:    list.New(),
		items: make(map[ControllerKey]*list.Element),
		now:   nowFn,
	}
}

// Acquire returns the controller stored under key, creating it with create
// when absent or expired. created reports whether create ran.
func (c *ControllerRegistry) Acquire(key ControllerKey, create func() (views.Bound, error)) (views.Bound, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, found := c.items[key]; found {
		ent, _ := el.Value.(*registryEntry)
		if ent != nil && !c.isExpired(ent) {
			ent.expiry = c.expiry()
			c.ll.MoveToFront(el)
			return ent.list, false, nil
		}
		c.removeElement(el)
	}

	b, err := create()
	if err != nil {
		return nil, false, err
	}
	el := c.ll.PushFront(&registryEntry{key: key, list: b, expiry: c.expiry()})
	c.items[key] = el
	c.evictIfNeeded()
	return b, true, nil
}

// DropSession forgets every controller of sessionID.
func (c *ControllerRegistry) DropSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, el := range c.items {
		if key.SessionID == sessionID {
			c.removeElement(el)
		}
	}
}

// Len returns the number of stored controllers.
func (c *ControllerRegistry) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Evictions returns how many controllers were pushed out by capacity.
func (c *ControllerRegistry) Evictions() uint64 { return c.evicts.Load() }

// Helpers (caller must hold c.mu).
func (c *ControllerRegistry) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *ControllerRegistry) isExpired(e *registryEntry) bool {
	if e.expiry.IsZero() {
		return false
	}
	return c.now().After(e.expiry)
}

func (c *ControllerRegistry) removeElement(el *list.Element) {
	c.ll.Remove(el)
	if ent, ok := el.Value.(*registryEntry); ok {
		delete(c.items, ent.key)
	}
}

func (c *ControllerRegistry) evictIfNeeded() {
	for c.ll.Len() > c.cap {
		el := c.ll.Back()
		if el == nil {
			return
		}
		c.removeElement(el)
		c.evicts.Add(1)
	}
}
