package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sherlingdev/flare-sub001/internal/model"
)

type fakeLedger struct {
	records   []model.RateLimitRecord
	listErr   error
	appendErr error
	appends   int
}

func (f *fakeLedger) Append(_ context.Context, rec model.RateLimitRecord) error {
	f.appends++
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeLedger) ListSince(_ context.Context, identifier string, authenticated bool, minTS int64) ([]model.RateLimitRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.RateLimitRecord
	for _, r := range f.records {
		if r.Identifier == identifier && r.Authenticated == authenticated && r.TimestampMS >= minTS {
			out = append(out, r)
		}
	}
	return out, nil
}

type clock struct{ ms int64 }

func (c *clock) now() time.Time { return time.UnixMilli(c.ms) }

func newTestLimiter(ledger Ledger, failOpen bool, clk *clock) *Limiter {
	return NewLimiter(ledger, LimiterOpts{FailOpen: failOpen, Now: clk.now})
}

func TestLimiter_AnonymousSecondRequestDenied(t *testing.T) {
	ledger := &fakeLedger{}
	clk := &clock{ms: 0}
	l := newTestLimiter(ledger, false, clk)

	res := l.Check(context.Background(), "localhost", false)
	if !res.Allowed {
		t.Fatalf("first request should be allowed")
	}
	if res.Limit != 1 || res.Remaining != 0 {
		t.Fatalf("expected limit=1 remaining=0, got limit=%d remaining=%d", res.Limit, res.Remaining)
	}
	if res.ResetMS != 60000 {
		t.Fatalf("expected reset=60000 on empty window, got %d", res.ResetMS)
	}

	clk.ms = 1000
	res = l.Check(context.Background(), "localhost", false)
	if res.Allowed {
		t.Fatalf("second request inside window should be denied")
	}
	if res.Remaining != 0 {
		t.Fatalf("remaining must clamp to 0 on denial, got %d", res.Remaining)
	}
	if res.ResetMS != 60000 {
		t.Fatalf("reset must roll from the oldest record: want 60000, got %d", res.ResetMS)
	}
}

func TestLimiter_AuthenticatedSixtyFirstDenied(t *testing.T) {
	ledger := &fakeLedger{}
	clk := &clock{ms: 0}
	l := newTestLimiter(ledger, false, clk)

	for i := 0; i < 60; i++ {
		clk.ms = int64(i * 100)
		res := l.Check(context.Background(), "api_sk_abc", true)
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if want := 60 - i - 1; res.Remaining != want {
			t.Fatalf("request %d: expected remaining=%d, got %d", i+1, want, res.Remaining)
		}
	}

	clk.ms = 6000
	res := l.Check(context.Background(), "api_sk_abc", true)
	if res.Allowed {
		t.Fatalf("61st request inside window should be denied")
	}
	if res.ResetMS != 60000 {
		t.Fatalf("expected reset=60000 (oldest at t=0), got %d", res.ResetMS)
	}
	if res.ResetMS < clk.ms {
		t.Fatalf("reset on denial must be >= now")
	}
}

func TestLimiter_WindowSlides(t *testing.T) {
	ledger := &fakeLedger{}
	clk := &clock{ms: 0}
	l := newTestLimiter(ledger, false, clk)

	if res := l.Check(context.Background(), "1.2.3.4", false); !res.Allowed {
		t.Fatalf("first request should be allowed")
	}
	clk.ms = 59999
	if res := l.Check(context.Background(), "1.2.3.4", false); res.Allowed {
		t.Fatalf("request just inside window should be denied")
	}
	clk.ms = 60001
	if res := l.Check(context.Background(), "1.2.3.4", false); !res.Allowed {
		t.Fatalf("request after window passed should be allowed")
	}
}

func TestLimiter_DeniedRequestsNotRecorded(t *testing.T) {
	ledger := &fakeLedger{}
	clk := &clock{ms: 0}
	l := newTestLimiter(ledger, false, clk)

	l.Check(context.Background(), "1.2.3.4", false)
	for i := 0; i < 5; i++ {
		clk.ms += 1000
		if res := l.Check(context.Background(), "1.2.3.4", false); res.Allowed {
			t.Fatalf("burst request %d should be denied", i+1)
		}
	}
	if len(ledger.records) != 1 {
		t.Fatalf("denied requests must not be appended: want 1 record, got %d", len(ledger.records))
	}
}

func TestLimiter_TiersAreIndependent(t *testing.T) {
	ledger := &fakeLedger{}
	clk := &clock{ms: 0}
	l := newTestLimiter(ledger, false, clk)

	if res := l.Check(context.Background(), "x", false); !res.Allowed {
		t.Fatalf("anonymous request should be allowed")
	}
	// same identifier string, different tier: separate window
	if res := l.Check(context.Background(), "x", true); !res.Allowed {
		t.Fatalf("authenticated request should not count against the anonymous window")
	}
}

func TestLimiter_ReadFailure(t *testing.T) {
	cases := []struct {
		name     string
		failOpen bool
		want     bool
	}{
		{"fails open in development", true, true},
		{"fails closed in production", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := &fakeLedger{listErr: errors.New("store down")}
			clk := &clock{ms: 5000}
			l := newTestLimiter(ledger, tc.failOpen, clk)

			res := l.Check(context.Background(), "1.2.3.4", false)
			if res.Allowed != tc.want {
				t.Fatalf("expected allowed=%v, got %v", tc.want, res.Allowed)
			}
			if res.Remaining != 0 {
				t.Fatalf("expected remaining=0 on ledger failure, got %d", res.Remaining)
			}
			if ledger.appends != 0 {
				t.Fatalf("must not append when the read failed")
			}
		})
	}
}

func TestLimiter_AppendFailureDoesNotDeny(t *testing.T) {
	ledger := &fakeLedger{appendErr: errors.New("write refused")}
	clk := &clock{ms: 0}
	l := newTestLimiter(ledger, false, clk)

	res := l.Check(context.Background(), "1.2.3.4", false)
	if !res.Allowed {
		t.Fatalf("an allowed request is never retroactively denied by a failed append")
	}
}

func TestLimiter_DefaultTiers(t *testing.T) {
	l := NewLimiter(&fakeLedger{}, LimiterOpts{})
	if l.anonymous != model.TierAnonymous {
		t.Fatalf("expected anonymous default %+v, got %+v", model.TierAnonymous, l.anonymous)
	}
	if l.authenticated != model.TierAuthenticated {
		t.Fatalf("expected authenticated default %+v, got %+v", model.TierAuthenticated, l.authenticated)
	}
	if l.authenticated.Requests < l.anonymous.Requests {
		t.Fatalf("authenticated quota must be >= anonymous quota")
	}
}
