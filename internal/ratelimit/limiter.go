package ratelimit

import (
	"context"
	"time"

	"github.com/sherlingdev/flare-sub001/internal/logger"
	"github.com/sherlingdev/flare-sub001/internal/metrics"
	"github.com/sherlingdev/flare-sub001/internal/model"
	"go.uber.org/zap"
)

// Ledger is the persisted request log the limiter counts against.
type Ledger interface {
	Append(ctx context.Context, rec model.RateLimitRecord) error
	ListSince(ctx context.Context, identifier string, authenticated bool, minTS int64) ([]model.RateLimitRecord, error)
}

// Limiter is a sliding-window counter over the ledger. It holds no
// in-process counting state, so it is safe under horizontal concurrency;
// consistency is whatever the backing store provides. The read-then-write
// sequence is not atomic: two concurrent requests at the quota boundary can
// both be admitted.
type Limiter struct {
	ledger        Ledger
	anonymous     model.Tier
	authenticated model.Tier
	failOpen      bool // development: allow on ledger read failure

	now func() time.Time
}

type LimiterOpts struct {
	Anonymous     model.Tier
	Authenticated model.Tier
	FailOpen      bool
	Now           func() time.Time
}

func NewLimiter(ledger Ledger, opts LimiterOpts) *Limiter {
	if opts.Anonymous.Requests <= 0 || opts.Anonymous.Window <= 0 {
		opts.Anonymous = model.TierAnonymous
	}
	if opts.Authenticated.Requests <= 0 || opts.Authenticated.Window <= 0 {
		opts.Authenticated = model.TierAuthenticated
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Limiter{
		ledger:        ledger,
		anonymous:     opts.Anonymous,
		authenticated: opts.Authenticated,
		failOpen:      opts.FailOpen,
		now:           opts.Now,
	}
}

func (l *Limiter) tier(authenticated bool) model.Tier {
	if authenticated {
		return l.authenticated
	}
	return l.anonymous
}

// Check decides allow/deny for one request and, when allowed, appends it to
// the ledger. Denied requests are not recorded, so a stream of denials does
// not keep pushing the window forward.
func (l *Limiter) Check(ctx context.Context, identifier string, authenticated bool) model.RateLimitResult {
	tier := l.tier(authenticated)
	now := l.now().UnixMilli()
	windowMS := tier.Window.Milliseconds()
	windowStart := now - windowMS

	records, err := l.ledger.ListSince(ctx, identifier, authenticated, windowStart)
	if err != nil {
		// Fail open in development, closed in production. A backing-store
		// outage must not grant unlimited production traffic.
		logger.L().Error("rate limit ledger read failed",
			zap.String("identifier", identifier), zap.Error(err))
		metrics.LimiterErrors.Inc()
		return model.RateLimitResult{
			Allowed:   l.failOpen,
			Limit:     tier.Requests,
			Remaining: 0,
			ResetMS:   now + windowMS,
		}
	}

	count := len(records)
	allowed := count < tier.Requests

	// The window rolls from the oldest surviving request.
	reset := now + windowMS
	if count > 0 {
		reset = records[0].TimestampMS + windowMS
	}

	if allowed {
		if err := l.ledger.Append(ctx, model.RateLimitRecord{
			Identifier:    identifier,
			Authenticated: authenticated,
			TimestampMS:   now,
		}); err != nil {
			// The decision stands; an allowed request is never retroactively
			// denied because the audit write failed.
			logger.L().Warn("rate limit ledger append failed",
				zap.String("identifier", identifier), zap.Error(err))
		}
	}

	// On denial count may already equal the quota, driving this negative
	// before the clamp. Display quirk, kept as-is.
	remaining := tier.Requests - count - 1
	if remaining < 0 {
		remaining = 0
	}

	metrics.RequestDecision(allowed, authenticated)

	return model.RateLimitResult{
		Allowed:   allowed,
		Limit:     tier.Requests,
		Remaining: remaining,
		ResetMS:   reset,
	}
}
