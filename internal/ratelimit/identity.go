package ratelimit

import (
	"net/http"
	"strings"
)

// Forwarded-IP headers in priority order.
var ipHeaders = []string{"X-Forwarded-For", "X-Real-Ip", "Cf-Connecting-Ip"}

// ClientIdentifier derives a stable quota identity from request headers:
// the first X-Forwarded-For entry, else X-Real-IP, else the CDN client-IP
// header. Loopback addresses collapse to "localhost" so local testing
// behaves as a single identity. Pure function of the headers.
func ClientIdentifier(h http.Header) string {
	ip := "unknown"
	for _, name := range ipHeaders {
		v := strings.TrimSpace(h.Get(name))
		if v == "" {
			continue
		}
		if name == "X-Forwarded-For" {
			if i := strings.IndexByte(v, ','); i >= 0 {
				v = v[:i]
			}
		}
		ip = strings.TrimSpace(v)
		break
	}

	switch ip {
	case "127.0.0.1", "::1", "::ffff:127.0.0.1", "localhost":
		return "localhost"
	}
	return ip
}

// KeyIdentifier maps a validated API key to its quota identity. Only a
// fixed-length prefix goes into the ledger so full keys are never persisted
// there.
func KeyIdentifier(key string) string {
	if len(key) > 16 {
		key = key[:16]
	}
	return "api_" + key
}

// KeyFromHeader extracts a presented API key: X-API-Key first, then an
// Authorization bearer token. Empty string when neither is present.
func KeyFromHeader(h http.Header) string {
	if k := strings.TrimSpace(h.Get("X-API-Key")); k != "" {
		return k
	}
	auth := strings.TrimSpace(h.Get("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
