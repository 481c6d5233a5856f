// Package ratelimit implements the per-client request quota.
//
// A WindowLimiter allows up to MaxRequests requests per client key within a
// fixed window that opens at the key's first request (default: 100 per 24h).
// Counters live in a storage.Store, so the same limiter works over the
// in-memory store or the SQLite store.
//
//	limiter := ratelimit.NewWindowLimiter(store, ratelimit.Config{
//	    MaxRequests: 100,
//	    Window:      24 * time.Hour,
//	})
//
//	decision, err := limiter.CheckAndConsume(ctx, ratelimit.ClientKey(r, 1))
//	if err != nil {
//	    // store failure
//	}
//	if !decision.Allowed {
//	    // 429 with decision.RetryAfter
//	}
//
// # Client Keys
//
// ClientKey derives the key from the request. Behind reverse proxies, the
// number of trusted hops decides which X-Forwarded-For entry is the client;
// entries further left are caller controlled and ignored.
package ratelimit
