package ratelimit

import (
	"context"

	"github.com/sherlingdev/flare-sub001/internal/logger"
	"github.com/sherlingdev/flare-sub001/internal/model"
	"go.uber.org/zap"
)

// KeyStore is the persisted key store consumed by the validator. Lookups
// are filtered to active keys.
type KeyStore interface {
	GetActiveByKey(ctx context.Context, key string) (*model.APIKey, error)
}

// Validator checks presented API keys against the key store.
type Validator struct {
	store KeyStore
}

func NewValidator(store KeyStore) *Validator {
	return &Validator{store: store}
}

// Validate returns the matching active key record, or nil for anything
// else: wrong prefix, unknown key, inactive key, or a lookup failure.
// Errors are swallowed on purpose; an invalid key just means the request
// is scored under the anonymous tier.
func (v *Validator) Validate(ctx context.Context, key string) *model.APIKey {
	if !model.HasKeyPrefix(key) {
		return nil
	}
	rec, err := v.store.GetActiveByKey(ctx, key)
	if err != nil {
		logger.L().Warn("api key lookup failed", zap.Error(err))
		return nil
	}
	return rec
}
