package util

import (
	"strings"
	"testing"
)

func TestNewAPIKey(t *testing.T) {
	a := NewAPIKey()
	b := NewAPIKey()

	if !strings.HasPrefix(a, "sk_") {
		t.Fatalf("key must carry the sk_ prefix, got %q", a)
	}
	if len(a) != 3+48 {
		t.Fatalf("expected 24 random bytes hex-encoded, got len %d", len(a))
	}
	if a == b {
		t.Fatalf("two generated keys must differ")
	}
}
