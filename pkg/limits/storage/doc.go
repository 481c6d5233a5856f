// Package storage provides counter stores for fixed-window rate limiting.
//
// # Overview
//
// A Store keeps one Record per client key: how many requests the key has
// made and when its current window started. Consume is the only mutating
// hot-path operation and is atomic per key.
//
//   - Memory: sharded in-memory maps (default, no persistence)
//   - SQLite: file-backed store that survives restarts
//
// # Usage
//
//	store := storage.NewMemoryStore(storage.MemoryConfig{MaxEntries: 100000})
//	defer store.Close()
//
//	rec, allowed, err := store.Consume(ctx, "203.0.113.7", 100, 24*time.Hour, time.Now())
//
// # Window Semantics
//
// A window opens at a key's first request and lasts exactly Window. Once
// WindowStart+Window is not after now, the next Consume starts a fresh
// window with Count 1. A rejected Consume leaves the record unchanged.
//
// # Sweeping
//
// Expired records are never needed again. Sweeper deletes them on a cron
// schedule so idle keys do not accumulate.
package storage
