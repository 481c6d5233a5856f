package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// storeFactories lets every behavioural test run against each backend.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore(MemoryConfig{Shards: 4})
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(SQLiteConfig{Path: filepath.Join(t.TempDir(), "rl.db")})
			if err != nil {
				t.Fatalf("NewSQLiteStore: %v", err)
			}
			return s
		},
	}
}

func TestStore_QuotaWithinWindow(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()
			ctx := context.Background()

			for i := int64(1); i <= 3; i++ {
				rec, allowed, err := store.Consume(ctx, "1.2.3.4", 3, time.Hour, t0.Add(time.Duration(i)*time.Minute))
				if err != nil {
					t.Fatalf("Consume %d: %v", i, err)
				}
				if !allowed {
					t.Fatalf("request %d should be allowed", i)
				}
				if rec.Count != i {
					t.Errorf("expected count %d, got %d", i, rec.Count)
				}
				if !rec.WindowStart.Equal(t0.Add(time.Minute)) {
					t.Errorf("window should start at first request, got %v", rec.WindowStart)
				}
			}

			rec, allowed, err := store.Consume(ctx, "1.2.3.4", 3, time.Hour, t0.Add(10*time.Minute))
			if err != nil {
				t.Fatalf("Consume: %v", err)
			}
			if allowed {
				t.Fatal("fourth request should be rejected")
			}
			if rec.Count != 3 {
				t.Errorf("rejected request must not increment, got count %d", rec.Count)
			}

			got, err := store.Get(ctx, "1.2.3.4")
			if err != nil || got == nil {
				t.Fatalf("Get: %v %v", got, err)
			}
			if got.Count != 3 {
				t.Errorf("stored count should stay 3, got %d", got.Count)
			}
		})
	}
}

func TestStore_WindowResets(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()
			ctx := context.Background()

			for i := 0; i < 2; i++ {
				if _, _, err := store.Consume(ctx, "k", 2, time.Hour, t0); err != nil {
					t.Fatal(err)
				}
			}
			if _, allowed, _ := store.Consume(ctx, "k", 2, time.Hour, t0.Add(59*time.Minute)); allowed {
				t.Fatal("should be rejected inside window")
			}

			// Exactly at WindowStart+Window the window has elapsed.
			rec, allowed, err := store.Consume(ctx, "k", 2, time.Hour, t0.Add(time.Hour))
			if err != nil {
				t.Fatal(err)
			}
			if !allowed || rec.Count != 1 {
				t.Errorf("expected fresh window with count 1, got allowed=%v count=%d", allowed, rec.Count)
			}
			if !rec.WindowStart.Equal(t0.Add(time.Hour)) {
				t.Errorf("expected new window start, got %v", rec.WindowStart)
			}
		})
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()
			ctx := context.Background()

			if _, allowed, _ := store.Consume(ctx, "a", 1, time.Hour, t0); !allowed {
				t.Fatal("a should be allowed")
			}
			if _, allowed, _ := store.Consume(ctx, "a", 1, time.Hour, t0); allowed {
				t.Fatal("a should be rejected")
			}
			if _, allowed, _ := store.Consume(ctx, "b", 1, time.Hour, t0); !allowed {
				t.Fatal("b should be allowed")
			}
		})
	}
}

func TestStore_GetDeleteLen(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()
			ctx := context.Background()

			got, err := store.Get(ctx, "missing")
			if err != nil || got != nil {
				t.Fatalf("expected nil record, got %v %v", got, err)
			}

			for _, k := range []string{"a", "b", "c"} {
				if _, _, err := store.Consume(ctx, k, 5, time.Hour, t0); err != nil {
					t.Fatal(err)
				}
			}
			if n, _ := store.Len(ctx); n != 3 {
				t.Errorf("expected 3 records, got %d", n)
			}

			if err := store.Delete(ctx, "b"); err != nil {
				t.Fatal(err)
			}
			if err := store.Delete(ctx, "b"); err != nil {
				t.Errorf("second delete should be a no-op: %v", err)
			}
			if n, _ := store.Len(ctx); n != 2 {
				t.Errorf("expected 2 records, got %d", n)
			}
		})
	}
}

func TestStore_Sweep(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()
			ctx := context.Background()

			_, _, _ = store.Consume(ctx, "old", 5, time.Hour, t0)
			_, _, _ = store.Consume(ctx, "edge", 5, time.Hour, t0.Add(30*time.Minute))
			_, _, _ = store.Consume(ctx, "new", 5, time.Hour, t0.Add(45*time.Minute))

			deleted, err := store.Sweep(ctx, t0.Add(90*time.Minute), time.Hour)
			if err != nil {
				t.Fatal(err)
			}
			if deleted != 2 {
				t.Errorf("expected 2 deleted, got %d", deleted)
			}
			if rec, _ := store.Get(ctx, "new"); rec == nil {
				t.Error("live record was swept")
			}
		})
	}
}

func TestStore_InvalidArguments(t *testing.T) {
	store := NewMemoryStore(MemoryConfig{})
	defer store.Close()
	ctx := context.Background()

	tests := []struct {
		name   string
		key    string
		quota  int64
		window time.Duration
	}{
		{"empty key", "", 1, time.Hour},
		{"zero quota", "k", 0, time.Hour},
		{"zero window", "k", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := store.Consume(ctx, tt.key, tt.quota, tt.window, t0); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStore_ConcurrentConsumeIsExact(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()
			ctx := context.Background()

			const (
				workers = 200
				quota   = 100
			)
			var (
				wg      sync.WaitGroup
				allowed atomic.Int64
				failed  atomic.Int64
			)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, ok, err := store.Consume(ctx, "shared", quota, time.Hour, t0)
					if err != nil {
						failed.Add(1)
						return
					}
					if ok {
						allowed.Add(1)
					}
				}()
			}
			wg.Wait()

			if failed.Load() != 0 {
				t.Fatalf("%d consumes failed", failed.Load())
			}
			if allowed.Load() != quota {
				t.Errorf("expected exactly %d allowed, got %d", quota, allowed.Load())
			}
		})
	}
}

func TestMemoryStore_EvictsOldestWindow(t *testing.T) {
	store := NewMemoryStore(MemoryConfig{MaxEntries: 3, Shards: 1})
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, _ = store.Consume(ctx, fmt.Sprintf("k%d", i), 5, time.Hour, t0.Add(time.Duration(i)*time.Minute))
	}
	_, _, _ = store.Consume(ctx, "k3", 5, time.Hour, t0.Add(10*time.Minute))

	if n, _ := store.Len(ctx); n != 3 {
		t.Fatalf("expected 3 records, got %d", n)
	}
	if rec, _ := store.Get(ctx, "k0"); rec != nil {
		t.Error("oldest record k0 should have been evicted")
	}
	if rec, _ := store.Get(ctx, "k3"); rec == nil {
		t.Error("new record k3 should be present")
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	store := NewMemoryStore(MemoryConfig{})
	_ = store.Close()
	_ = store.Close()

	if _, _, err := store.Consume(context.Background(), "k", 1, time.Hour, t0); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rl.db")
	ctx := context.Background()

	s1, err := NewSQLiteStore(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, _, err := s1.Consume(ctx, "k", 2, time.Hour, t0); err != nil {
			t.Fatal(err)
		}
	}
	if err := s1.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := NewSQLiteStore(SQLiteConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	if _, allowed, _ := s2.Consume(ctx, "k", 2, time.Hour, t0.Add(time.Minute)); allowed {
		t.Error("quota should persist across reopen")
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("expected memory store by default, got %T", s)
	}
	_ = s.Close()

	s, err = Open(Options{Backend: BackendSQLite, SQLite: SQLiteConfig{Path: filepath.Join(t.TempDir(), "x.db")}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("expected sqlite store, got %T", s)
	}
	_ = s.Close()

	if _, err := Open(Options{Backend: "redis"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := Open(Options{Backend: BackendSQLite}); err == nil {
		t.Error("expected error for sqlite without path")
	}
}
