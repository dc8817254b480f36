package rates

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sherlingdev/flare-sub001/internal/logger"
	"github.com/sherlingdev/flare-sub001/internal/model"
	"github.com/sherlingdev/flare-sub001/internal/repository"
	"go.uber.org/zap"
)

var ErrUnknownCurrency = errors.New("unknown currency")

// Service serves the latest rate table with a time-windowed redis cache in
// front of MySQL. The cache is an explicit instance with injected TTL and
// explicit invalidation, not process-global state.
type Service struct {
	repo  repository.RatesRepository
	cache *redis.Client // optional; nil disables caching
	ttl   time.Duration
}

func New(repo repository.RatesRepository, cache *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{repo: repo, cache: cache, ttl: ttl}
}

func cacheKey(base string) string { return "rates:latest:" + base }

// Latest returns the rate table for a base currency, memoized per base for
// the configured TTL. Cache failures fall through to the repository.
func (s *Service) Latest(ctx context.Context, base string) ([]model.ExchangeRate, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey(base)).Bytes()
		if err == nil {
			var out []model.ExchangeRate
			if json.Unmarshal(raw, &out) == nil {
				return out, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.L().Warn("rates cache read failed", zap.String("base", base), zap.Error(err))
		}
	}

	out, err := s.repo.Latest(ctx, base)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(out) > 0 {
		if b, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, cacheKey(base), b, s.ttl).Err(); err != nil {
				logger.L().Warn("rates cache write failed", zap.String("base", base), zap.Error(err))
			}
		}
	}
	return out, nil
}

// Invalidate drops the memoized table for a base, e.g. after a refresh.
func (s *Service) Invalidate(ctx context.Context, base string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(base)).Err(); err != nil {
		logger.L().Warn("rates cache invalidate failed", zap.String("base", base), zap.Error(err))
	}
}

// Convert computes amount * rate(from->to) through the stored base table:
// both legs are quoted against the same base, so rate = to/from.
func (s *Service) Convert(ctx context.Context, base, from, to string, amount float64) (float64, error) {
	fromRate, err := s.pairRate(ctx, base, from)
	if err != nil {
		return 0, err
	}
	toRate, err := s.pairRate(ctx, base, to)
	if err != nil {
		return 0, err
	}
	return amount * (toRate / fromRate), nil
}

func (s *Service) pairRate(ctx context.Context, base, code string) (float64, error) {
	if code == base {
		return 1, nil
	}
	er, err := s.repo.Get(ctx, base, code)
	if err != nil {
		return 0, err
	}
	if er == nil || er.Rate == 0 {
		return 0, ErrUnknownCurrency
	}
	return er.Rate, nil
}
