package model

import (
	"strings"
	"time"
)

// APIKeyPrefix is the fixed prefix every issued key starts with.
const APIKeyPrefix = "sk_"

// APIKey is a row in the api_keys table. Key is the full opaque token;
// only active keys authenticate.
type APIKey struct {
	ID        string     `db:"id"` // ULID
	Key       string     `db:"api_key"`
	Label     string     `db:"label"`
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	LastUsed  *time.Time `db:"last_used_at"` // nullable
}

// HasKeyPrefix reports whether s looks like an issued key.
func HasKeyPrefix(s string) bool {
	return strings.HasPrefix(s, APIKeyPrefix)
}
