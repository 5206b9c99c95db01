package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultSnapshotTTL is how long Load reuses a fetched list.
const DefaultSnapshotTTL = 5 * time.Minute

// Fetcher loads category documents. *Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, cat Category) (Document, error)
}

type snapshot struct {
	products []Product
	fetched  time.Time
}

// Store keeps the last mapped list per category and allows at most one
// in-flight fetch per category.
type Store struct {
	fetcher   Fetcher
	registry  *Registry
	assets    *AssetManifest
	ttl       time.Duration
	telemetry *Telemetry
	now       func() time.Time

	group singleflight.Group
	mu    sync.RWMutex
	snaps map[Category]snapshot
}

// NewStore wires a store. A zero ttl uses DefaultSnapshotTTL.
func NewStore(f Fetcher, reg *Registry, assets *AssetManifest, ttl time.Duration) *Store {
	if reg == nil {
		reg = DefaultRegistry()
	}
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &Store{
		fetcher:   f,
		registry:  reg,
		assets:    assets,
		ttl:       ttl,
		telemetry: defaultTelemetry,
		now:       time.Now,
		snaps:     make(map[Category]snapshot),
	}
}

// Registry returns the category table.
func (s *Store) Registry() *Registry { return s.registry }

// Assets returns the image manifest used for mapping.
func (s *Store) Assets() *AssetManifest { return s.assets }

// Load returns the snapshot of cat when it is fresh, fetching otherwise.
func (s *Store) Load(ctx context.Context, cat Category) ([]Product, error) {
	s.mu.RLock()
	snap, ok := s.snaps[cat]
	s.mu.RUnlock()
	if ok && s.now().Sub(snap.fetched) < s.ttl {
		s.telemetry.snapshotHit(ctx, cat)
		return snap.products, nil
	}
	return s.Refresh(ctx, cat)
}

// Refresh fetches cat again and replaces its snapshot. Concurrent callers share
// one fetch; a caller whose ctx ends stops waiting without cancelling the
// shared fetch for the others.
func (s *Store) Refresh(ctx context.Context, cat Category) ([]Product, error) {
	def, err := s.registry.Get(cat)
	if err != nil {
		return nil, err
	}
	ch := s.group.DoChan(string(cat), func() (any, error) {
		doc, err := s.fetcher.Fetch(context.WithoutCancel(ctx), cat)
		if err != nil {
			return nil, err
		}
		products := Map(def, doc, s.assets)
		s.mu.Lock()
		s.snaps[cat] = snapshot{products: products, fetched: s.now()}
		s.mu.Unlock()
		return products, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Product), nil
	}
}

// Lookup finds a product by id within cat, fetching when needed.
func (s *Store) Lookup(ctx context.Context, cat Category, id string) (Product, error) {
	products, err := s.Load(ctx, cat)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

// Invalidate drops every snapshot.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.snaps = make(map[Category]snapshot)
	s.mu.Unlock()
}
