package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flare_requests_total",
			Help: "Gatekept API requests by limiter decision and tier",
		},
		[]string{"decision", "tier"}, // allowed|denied , anonymous|authenticated
	)

	LimiterErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flare_limiter_errors_total",
			Help: "Ledger read failures resolved by the fail-open/closed policy",
		},
	)

	RateFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flare_rate_fetch_total",
			Help: "Rate refresh runs by result",
		},
		[]string{"result"}, // ok|error
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		RequestsTotal,
		LimiterErrors,
		RateFetchTotal,
	)
}

// RequestDecision increments the request counter for one limiter verdict.
func RequestDecision(allowed, authenticated bool) {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	tier := "anonymous"
	if authenticated {
		tier = "authenticated"
	}
	RequestsTotal.WithLabelValues(decision, tier).Inc()
}
