package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type CatalogCache struct {
	mu      sync.RWMutex
	items   []models.Instrument
	expires time.Time
	now     func() time.Time
}

func NewCatalogCache() *CatalogCache {
	return &CatalogCache{now: time.Now}
}

func (c *CatalogCache) Get(ctx context.Context) ([]models.Instrument, bool, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.items == nil || !c.now().Before(c.expires) {
		return nil, false, nil
	}
	return slices.Clone(c.items), true, nil
}

func (c *CatalogCache) Set(ctx context.Context, items []models.Instrument, ttl time.Duration) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = slices.Clone(items)
	if c.items == nil {
		c.items = []models.Instrument{}
	}
	c.expires = c.now().Add(ttl)
	return nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	return nil
}

var _ instrument.Cache = (*CatalogCache)(nil)
