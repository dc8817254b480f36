package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewAPIKey returns a fresh "sk_"-prefixed high-entropy token.
func NewAPIKey() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return "sk_" + hex.EncodeToString(buf)
}
