package storage

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

// MemoryStore implements Store with sharded in-memory maps.
// This is the default store; all counters are lost when the process exits.
//
// Each shard has its own mutex, so unrelated keys rarely contend.
type MemoryStore struct {
	shards      []*memoryShard
	maxPerShard int
	closed      chan struct{}
	closeOnce   sync.Once
}

type memoryShard struct {
	mu      sync.Mutex
	records map[string]*Record
}

// MemoryConfig configures the memory store.
type MemoryConfig struct {
	// MaxEntries is the maximum number of tracked keys. When a shard is
	// full, its record with the oldest window is evicted.
	// Zero means unbounded.
	MaxEntries int

	// Shards is the number of partitions.
	// Default: 32
	Shards int
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	if cfg.Shards <= 0 {
		cfg.Shards = 32
	}

	maxPerShard := 0
	if cfg.MaxEntries > 0 {
		maxPerShard = (cfg.MaxEntries + cfg.Shards - 1) / cfg.Shards
	}

	s := &MemoryStore{
		shards:      make([]*memoryShard, cfg.Shards),
		maxPerShard: maxPerShard,
		closed:      make(chan struct{}),
	}
	for i := range s.shards {
		s.shards[i] = &memoryShard{records: make(map[string]*Record)}
	}
	return s
}

// Consume counts one request for key.
func (s *MemoryStore) Consume(ctx context.Context, key string, quota int64, window time.Duration, now time.Time) (Record, bool, error) {
	if err := validateConsume(key, quota, window); err != nil {
		return Record{}, false, err
	}
	if err := s.checkOpen(); err != nil {
		return Record{}, false, err
	}

	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	current, exists := sh.records[key]
	next, allowed := apply(current, key, quota, window, now)
	if !allowed {
		return next, false, nil
	}

	if !exists && s.maxPerShard > 0 && len(sh.records) >= s.maxPerShard {
		sh.evictOldestLocked()
	}
	if exists {
		*current = next
	} else {
		rec := next
		sh.records[key] = &rec
	}
	return next, true, nil
}

// Get returns a copy of the record for key.
func (s *MemoryStore) Get(ctx context.Context, key string) (*Record, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[key]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

// Delete removes the record for key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if err := s.checkOpen(); err != nil {
		return err
	}

	sh := s.shardFor(key)
	sh.mu.Lock()
	delete(sh.records, key)
	sh.mu.Unlock()
	return nil
}

// Sweep removes expired records one shard at a time.
func (s *MemoryStore) Sweep(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	deleted := 0
	for _, sh := range s.shards {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		sh.mu.Lock()
		for key, rec := range sh.records {
			if rec.Expired(now, window) {
				delete(sh.records, key)
				deleted++
			}
		}
		sh.mu.Unlock()
	}
	return deleted, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.records)
		sh.mu.Unlock()
	}
	return n, nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func (s *MemoryStore) checkOpen() error {
	select {
	case <-s.closed:
		return ErrClosed
	default:
		return nil
	}
}

func (s *MemoryStore) shardFor(key string) *memoryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// evictOldestLocked evicts the record with the oldest window.
// Caller must hold the shard lock.
func (sh *memoryShard) evictOldestLocked() {
	var (
		oldestKey   string
		oldestStart time.Time
		found       bool
	)
	for key, rec := range sh.records {
		if !found || rec.WindowStart.Before(oldestStart) {
			oldestKey = key
			oldestStart = rec.WindowStart
			found = true
		}
	}
	if found {
		delete(sh.records, oldestKey)
	}
}
