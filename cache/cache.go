package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/sdfatlas"
)

const (
	// shardCount is the number of shards. Must be a power of 2.
	shardCount = 16
	shardMask  = shardCount - 1

	// DefaultCapacity is the default number of atlases per shard.
	DefaultCapacity = 4
)

// ErrBuildPanicked is returned to callers waiting on a build that panicked.
var ErrBuildPanicked = errors.New("cache: atlas build panicked")

// Backend is a persistent second level behind the in-memory cache.
type Backend interface {
	// Load returns the atlas stored under key. A missing or unusable entry
	// is reported as ok == false with a nil error.
	Load(ctx context.Context, key Key) (atlas *sdfatlas.FontAtlas, ok bool, err error)

	// Save stores atlas under key, replacing any previous entry.
	Save(ctx context.Context, key Key, atlas *sdfatlas.FontAtlas) error
}

// BuildFunc generates the atlas for a key that is cached nowhere.
type BuildFunc func(ctx context.Context) (*sdfatlas.FontAtlas, error)

// Cache is a thread-safe, sharded LRU cache of font atlases.
//
// Cached atlases are shared between callers and must not be modified.
type Cache struct {
	shards   [shardCount]*shard
	capacity int // per shard
	backend  Backend

	hits        atomic.Uint64
	misses      atomic.Uint64
	evictions   atomic.Uint64
	backendHits atomic.Uint64
	builds      atomic.Uint64
}

type shard struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	lru      lruList
	inflight map[Key]*call
}

type entry struct {
	atlas *sdfatlas.FontAtlas
	node  *lruNode
}

// call is a build in progress; waiters block on done.
type call struct {
	done  chan struct{}
	atlas *sdfatlas.FontAtlas
	err   error
}

// New creates a cache holding up to capacity atlases per shard. backend may
// be nil. If capacity <= 0, DefaultCapacity is used.
func New(capacity int, backend Backend) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{
		capacity: capacity,
		backend:  backend,
	}
	for i := range c.shards {
		c.shards[i] = &shard{
			entries:  make(map[Key]*entry),
			inflight: make(map[Key]*call),
		}
	}
	return c
}

func (c *Cache) shardFor(key Key) *shard {
	return c.shards[key.hash()&shardMask]
}

// Get returns the atlas cached in memory under key.
func (c *Cache) Get(key Key) (*sdfatlas.FontAtlas, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	s.lru.MoveToFront(e.node)
	c.hits.Add(1)
	return e.atlas, true
}

// Set stores atlas in memory under key, evicting the least recently used
// atlases of the shard when it is full.
func (c *Cache) Set(key Key, atlas *sdfatlas.FontAtlas) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	c.setLocked(s, key, atlas)
}

func (c *Cache) setLocked(s *shard, key Key, atlas *sdfatlas.FontAtlas) {
	if e, ok := s.entries[key]; ok {
		e.atlas = atlas
		s.lru.MoveToFront(e.node)
		return
	}
	for s.lru.Len() >= c.capacity {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}
	s.entries[key] = &entry{atlas: atlas, node: s.lru.PushFront(key)}
}

// GetOrBuild returns the atlas for key from memory, then from the backend,
// and finally by calling build. Concurrent calls for the same key wait for
// a single lookup and build. Built atlases are saved to the backend; a
// failed save is logged and does not fail the call.
//
// A waiter whose own context is still live retries when the build it waited
// for failed with a context error, so one caller's cancellation does not
// fail the others.
func (c *Cache) GetOrBuild(ctx context.Context, key Key, build BuildFunc) (*sdfatlas.FontAtlas, error) {
	s := c.shardFor(key)

	for first := true; ; first = false {
		s.mu.Lock()
		if e, ok := s.entries[key]; ok {
			s.lru.MoveToFront(e.node)
			s.mu.Unlock()
			c.hits.Add(1)
			return e.atlas, nil
		}
		if first {
			c.misses.Add(1)
		}
		cl, ok := s.inflight[key]
		if !ok {
			cl = &call{done: make(chan struct{})}
			s.inflight[key] = cl
			s.mu.Unlock()
			return c.lead(ctx, s, key, cl, build)
		}
		s.mu.Unlock()

		select {
		case <-cl.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if isContextError(cl.err) && ctx.Err() == nil {
			continue
		}
		return cl.atlas, cl.err
	}
}

// lead runs the lookup and build for cl and publishes the result to its
// waiters. A panicking build still releases the waiters; they receive an
// error and the panic continues in the leader.
func (c *Cache) lead(ctx context.Context, s *shard, key Key, cl *call, build BuildFunc) (*sdfatlas.FontAtlas, error) {
	defer func() {
		r := recover()
		if r != nil {
			cl.atlas, cl.err = nil, fmt.Errorf("%w: %v", ErrBuildPanicked, r)
		}

		s.mu.Lock()
		delete(s.inflight, key)
		if cl.err == nil {
			c.setLocked(s, key, cl.atlas)
		}
		s.mu.Unlock()
		close(cl.done)

		if r != nil {
			panic(r)
		}
	}()

	cl.atlas, cl.err = c.load(ctx, key, build)
	return cl.atlas, cl.err
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *Cache) load(ctx context.Context, key Key, build BuildFunc) (*sdfatlas.FontAtlas, error) {
	log := sdfatlas.Logger()

	if c.backend != nil {
		atlas, ok, err := c.backend.Load(ctx, key)
		switch {
		case err != nil:
			log.Warn("cache: backend load failed", "key", key.String(), "err", err)
		case ok:
			c.backendHits.Add(1)
			log.Info("cache: atlas loaded from backend", "key", key.String())
			return atlas, nil
		}
	}

	c.builds.Add(1)
	atlas, err := build(ctx)
	if err != nil {
		return nil, err
	}

	if c.backend != nil {
		if err := c.backend.Save(ctx, key, atlas); err != nil {
			log.Warn("cache: backend save failed", "key", key.String(), "err", err)
		}
	}
	return atlas, nil
}

// Delete removes key from memory. The backend is not modified.
func (c *Cache) Delete(key Key) bool {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.lru.Remove(e.node)
	delete(s.entries, key)
	return true
}

// Clear removes every atlas from memory.
func (c *Cache) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[Key]*entry)
		s.lru = lruList{}
		s.mu.Unlock()
	}
}

// Len returns the number of atlases held in memory.
func (c *Cache) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Stats holds cache statistics.
type Stats struct {
	// Len is the current number of atlases in memory.
	Len int
	// Capacity is the per-shard capacity.
	Capacity int
	// Hits and Misses count in-memory lookups.
	Hits   uint64
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0 without lookups.
	HitRate float64
	// Evictions is the number of atlases dropped for capacity.
	Evictions uint64
	// BackendHits counts misses served by the backend.
	BackendHits uint64
	// Builds counts calls of a build function.
	Builds uint64
}

// Stats returns current cache statistics.
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Len:         c.Len(),
		Capacity:    c.capacity,
		Hits:        hits,
		Misses:      misses,
		HitRate:     hitRate,
		Evictions:   c.evictions.Load(),
		BackendHits: c.backendHits.Load(),
		Builds:      c.builds.Load(),
	}
}
