package orselect

import (
	"context"
	"sync"
	"time"
)

// snapshotCache holds zero or one catalog snapshot and mediates all
// fetcher calls. The snapshot is replaced wholesale under the lock, so a
// reader never observes a half-written catalog, and a failed refresh
// leaves a prior successful snapshot in place.
type snapshotCache struct {
	mu    sync.Mutex
	snap  *Snapshot
	fetch func(ctx context.Context) ([]Model, error)
}

func newSnapshotCache(fetch func(ctx context.Context) ([]Model, error)) *snapshotCache {
	return &snapshotCache{fetch: fetch}
}

// records returns the held snapshot's models, refreshing from the fetcher
// when the cache is empty or forceRefresh is set.
func (c *snapshotCache) records(ctx context.Context, forceRefresh bool) ([]Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap != nil && !forceRefresh {
		return c.snap.Records(), nil
	}

	models, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.snap = &Snapshot{Models: models, FetchedAt: time.Now()}
	return c.snap.Records(), nil
}

// clear discards the held snapshot. Idempotent.
func (c *snapshotCache) clear() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

// snapshot returns the held snapshot, or nil when empty.
func (c *snapshotCache) snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}
