// Package limits holds the per-client request quota.
//
// The quota is split in two sub-packages:
//
//   - ratelimit: the fixed-window limiter and client key derivation
//   - storage: counter stores (memory, SQLite) and the expired-record sweeper
//
// A client's window opens with its first counted request and lasts
// limits.rate_limit.window (24h by default). Within it at most
// limits.rate_limit.max_requests requests are admitted; later ones are
// rejected with 429 until the window resets.
package limits
