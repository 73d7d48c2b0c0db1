package benchmark

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

// Cache memoizes benchmark fetches for one analysis session. The window is
// fixed at construction so every series covers the same span regardless of
// which view asks first. Failures are remembered too, keeping a dead
// upstream from being re-hit on every render.
type Cache struct {
	service *Service
	from    time.Time
	to      time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	series models.ValueSeries
	ok     bool
}

func newCache(service *Service, from, to time.Time) *Cache {
	return &Cache{
		service: service,
		from:    from,
		to:      to,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the named benchmark, fetching it on first use.
func (c *Cache) Get(ctx context.Context, name string) (models.ValueSeries, bool) {
	key := strings.ToUpper(name)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, found := c.entries[key]; found {
		return entry.series, entry.ok
	}

	series, err := c.service.Fetch(ctx, name, c.from, c.to)
	entry := cacheEntry{series: series, ok: err == nil}
	c.entries[key] = entry
	return entry.series, entry.ok
}
