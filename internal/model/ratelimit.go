package model

import "time"

// RateLimitRecord is one accepted request in the rate_limits ledger.
// Rows are append-only; the set of rows for an identifier inside the
// trailing window determines the current count.
type RateLimitRecord struct {
	ID            string `db:"id"` // ULID
	Identifier    string `db:"identifier"`
	Authenticated bool   `db:"is_authenticated"`
	TimestampMS   int64  `db:"timestamp_ms"` // epoch milliseconds
}

// Tier is a quota: Requests allowed per Window.
type Tier struct {
	Requests int
	Window   time.Duration
}

// Default tiers. The authenticated quota must stay >= the anonymous one.
var (
	TierAnonymous     = Tier{Requests: 1, Window: 60 * time.Second}
	TierAuthenticated = Tier{Requests: 60, Window: 60 * time.Second}
)

// RateLimitResult is the per-request limiter verdict plus quota metadata
// surfaced as X-RateLimit-* headers.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetMS   int64 // epoch milliseconds when the window rolls
}
