package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RefreshInterval is how long a fetched snapshot is considered fresh.
const RefreshInterval = 8 * time.Hour

// Source identifies where the current table came from.
type Source string

const (
	SourceNone   Source = "none"
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

// Options configures a Catalog. Fetch is required; everything else has a
// working default.
type Options struct {
	Fetch    FetchFunc
	Store    *Store // optional durable cache
	Interval time.Duration
	Logger   *logrus.Logger
	Now      func() time.Time // test hook
}

// Catalog is the process-wide capability table. Reads observe either the
// fully-old or the fully-new snapshot: a refresh swaps the whole table
// under the write lock, never mutating records in place.
type Catalog struct {
	fetch    FetchFunc
	store    *Store
	interval time.Duration
	logger   *logrus.Logger
	now      func() time.Time

	mu            sync.Mutex
	table         map[int]*LightCapability
	lastRefreshed time.Time
	source        Source
	inflight      *refreshResult
}

// refreshResult lets concurrent Refresh callers wait on one in-flight fetch
// and observe its single outcome.
type refreshResult struct {
	done chan struct{}
	err  error
}

// New creates a catalog. No I/O happens until LoadCache or Refresh.
func New(opts Options) *Catalog {
	c := &Catalog{
		fetch:    opts.Fetch,
		store:    opts.Store,
		interval: opts.Interval,
		logger:   opts.Logger,
		now:      opts.Now,
		source:   SourceNone,
	}
	if c.interval <= 0 {
		c.interval = RefreshInterval
	}
	if c.logger == nil {
		c.logger = logrus.New()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// LoadCache populates the table from the durable store, if a snapshot
// exists. Called once at startup before any network attempt; a missing or
// unparseable snapshot leaves the catalog empty and is not fatal.
func (c *Catalog) LoadCache() error {
	if c.store == nil {
		return nil
	}
	raw, fetchedAt, err := c.store.LoadSnapshot()
	if err != nil {
		return err
	}
	db, err := ParseDatabase(raw)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.table = db.table()
	c.lastRefreshed = fetchedAt
	c.source = SourceCache
	c.mu.Unlock()
	c.logger.WithFields(logrus.Fields{
		"lights":     len(db.Lights),
		"fetched_at": fetchedAt,
	}).Info("Loaded lights database from cache")
	return nil
}

// Refresh updates the table from the remote source if the current snapshot
// is older than the refresh interval. It is single-flight: concurrent
// callers share one fetch and all observe its outcome. On failure the
// existing table and lastRefreshed stand, so the next call retries.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.source != SourceNone && c.now().Sub(c.lastRefreshed) < c.interval {
		c.mu.Unlock()
		return nil
	}
	if c.inflight != nil {
		res := c.inflight
		c.mu.Unlock()
		select {
		case <-res.done:
			return res.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	res := &refreshResult{done: make(chan struct{})}
	c.inflight = res
	c.mu.Unlock()

	res.err = c.doRefresh(ctx)

	c.mu.Lock()
	c.inflight = nil
	c.mu.Unlock()
	close(res.done)
	return res.err
}

func (c *Catalog) doRefresh(ctx context.Context) error {
	raw, err := c.fetch(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Lights database fetch failed, keeping previous table")
		return err
	}
	db, err := ParseDatabase(raw)
	if err != nil {
		c.logger.WithError(err).Warn("Lights database rejected, keeping previous table")
		return err
	}

	fetchedAt := c.now()
	c.mu.Lock()
	c.table = db.table()
	c.lastRefreshed = fetchedAt
	c.source = SourceRemote
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.SaveSnapshot(raw, fetchedAt); err != nil {
			// In-memory table is already good; losing the disk copy only
			// costs the next cold start a network round trip.
			c.logger.WithError(err).Warn("Failed to persist lights database snapshot")
		}
	}
	c.logger.WithFields(logrus.Fields{
		"lights":  len(db.Lights),
		"version": db.Version,
	}).Info("Lights database refreshed from remote")
	return nil
}

// Lookup returns the capability record for a light type. A miss is not an
// error: callers fall back to the most conservative feature set. The
// returned record is shared and must be treated as read-only.
func (c *Catalog) Lookup(lightType int) (*LightCapability, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cap, ok := c.table[lightType]
	return cap, ok
}

// Len reports how many light types the current table holds.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.table)
}

// CurrentSource reports where the active table came from.
func (c *Catalog) CurrentSource() Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// LastRefreshed reports when the active table was fetched.
func (c *Catalog) LastRefreshed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefreshed
}
