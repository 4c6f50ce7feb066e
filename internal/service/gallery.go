package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// DefaultRefreshInterval is how often the gallery snapshot is reloaded
// from the embedding store.
const DefaultRefreshInterval = 10 * time.Second

// GallerySource loads the enrolled identities from the embedding store.
type GallerySource interface {
	GetAll(ctx context.Context) ([]domain.Identity, error)
}

// Gallery is an immutable snapshot of the enrolled identities. Matching
// and duplicate checks read it without locking; refreshes swap in a new
// snapshot atomically and never mutate one in place.
type Gallery struct {
	identities map[string]domain.Identity
}

// NewGallery builds a snapshot from a list of identities.
func NewGallery(identities []domain.Identity) *Gallery {
	m := make(map[string]domain.Identity, len(identities))
	for _, identity := range identities {
		m[identity.Name] = identity
	}
	return &Gallery{identities: m}
}

// Get returns the identity enrolled under name.
func (g *Gallery) Get(name string) (domain.Identity, bool) {
	identity, ok := g.identities[name]
	return identity, ok
}

// Len returns the number of enrolled identities in the snapshot.
func (g *Gallery) Len() int {
	return len(g.identities)
}

// GalleryCache keeps the current gallery snapshot, refreshing it on a
// fixed interval and immediately after any enrollment. Eventually
// consistent with the store, never strictly consistent.
type GalleryCache struct {
	source   GallerySource
	logger   *slog.Logger
	interval time.Duration
	snapshot atomic.Pointer[Gallery]
}

func NewGalleryCache(source GallerySource, logger *slog.Logger) *GalleryCache {
	cache := &GalleryCache{
		source:   source,
		logger:   logger,
		interval: DefaultRefreshInterval,
	}
	cache.snapshot.Store(NewGallery(nil))
	return cache
}

// WithInterval overrides the background refresh interval.
func (c *GalleryCache) WithInterval(interval time.Duration) *GalleryCache {
	c.interval = interval
	return c
}

// Snapshot returns the current gallery. The returned snapshot stays
// valid and unchanged even while a refresh is in flight.
func (c *GalleryCache) Snapshot() *Gallery {
	return c.snapshot.Load()
}

// Refresh reloads the snapshot from the store. On error the previous
// snapshot is kept.
func (c *GalleryCache) Refresh(ctx context.Context) error {
	identities, err := c.source.GetAll(ctx)
	if err != nil {
		return err
	}

	c.snapshot.Store(NewGallery(identities))
	return nil
}

// Run refreshes the snapshot on the configured interval until the
// context is cancelled.
func (c *GalleryCache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.logger.Warn("gallery refresh failed", "error", err)
			}
		}
	}
}
