package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/sherlingdev/flare-sub001/internal/ratelimit"
)

// testPathMarker tags internal smoke-test routes that must never be counted.
const testPathMarker = "/__test"

// GatekeeperConfig wires the identity resolver, key validator and limiter
// into one request-intercepting middleware.
type GatekeeperConfig struct {
	Limiter   *ratelimit.Limiter
	Validator *ratelimit.Validator

	APIPrefix   string   // only paths under this prefix are gatekept
	KeysPath    string   // key-issuance endpoint; safe methods bypass
	BypassPaths []string // bulk/internal endpoints exempt from quotas

	Now func() time.Time // test hook; defaults to time.Now
}

type rateLimitMeta struct {
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Reset     string `json:"reset"` // ISO-8601
}

type deniedResponse struct {
	Success   bool          `json:"success"`
	Error     string        `json:"error"`
	Message   string        `json:"message"`
	RateLimit rateLimitMeta `json:"rateLimit"`
	GetAPIKey string        `json:"getApiKey,omitempty"`
}

// Gatekeeper intercepts every API request: resolve identity, validate a
// presented key, consult the limiter, then forward with quota headers or
// reject with a structured 429. Every path through here terminates in a
// response; nothing propagates to the platform.
func Gatekeeper(cfg GatekeeperConfig) echo.MiddlewareFunc {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api"
	}
	if cfg.KeysPath == "" {
		cfg.KeysPath = cfg.APIPrefix + "/keys"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if bypass(cfg, req.URL.Path, req.Method) {
				return next(c)
			}

			// Identify: API-key identity when the key validates, client IP
			// otherwise. An invalid key silently drops to the anonymous tier.
			identifier := ratelimit.ClientIdentifier(req.Header)
			authenticated := false
			if key := ratelimit.KeyFromHeader(req.Header); key != "" && cfg.Validator != nil {
				if rec := cfg.Validator.Validate(req.Context(), key); rec != nil {
					identifier = ratelimit.KeyIdentifier(rec.Key)
					authenticated = true
				}
			}

			res := cfg.Limiter.Check(req.Context(), identifier, authenticated)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetMS, 10))

			if res.Allowed {
				return next(c)
			}

			retryAfter := retryAfterSeconds(cfg.Now().UnixMilli(), res.ResetMS)
			h.Set("Retry-After", strconv.FormatInt(retryAfter, 10))

			body := deniedResponse{
				Success: false,
				Error:   "rate_limit_exceeded",
				RateLimit: rateLimitMeta{
					Limit:     res.Limit,
					Remaining: res.Remaining,
					Reset:     time.UnixMilli(res.ResetMS).UTC().Format(time.RFC3339),
				},
			}
			if authenticated {
				body.Message = "API key rate limit exceeded. Try again in " +
					strconv.FormatInt(retryAfter, 10) + " seconds."
			} else {
				body.Message = "Rate limit exceeded. Anonymous requests are limited to " +
					strconv.Itoa(res.Limit) + " per minute. Get a free API key for higher limits."
				body.GetAPIKey = cfg.KeysPath
			}
			return c.JSON(http.StatusTooManyRequests, body)
		}
	}
}

func bypass(cfg GatekeeperConfig, path, method string) bool {
	if !strings.HasPrefix(path, cfg.APIPrefix) {
		return true
	}
	if strings.Contains(path, testPathMarker) {
		return true
	}
	for _, p := range cfg.BypassPaths {
		if path == p {
			return true
		}
	}
	// Reading the key-issuance endpoint stays free; mutating it does not.
	if path == cfg.KeysPath {
		switch method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return true
		}
	}
	return false
}

// retryAfterSeconds rounds up so clients never retry before the window
// actually rolls.
func retryAfterSeconds(nowMS, resetMS int64) int64 {
	d := resetMS - nowMS
	if d <= 0 {
		return 0
	}
	return (d + 999) / 1000
}
