package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/sherlingdev/flare-sub001/internal/events"
	"github.com/sherlingdev/flare-sub001/internal/logger"
	"github.com/sherlingdev/flare-sub001/internal/metrics"
	"github.com/sherlingdev/flare-sub001/internal/model"
	"github.com/sherlingdev/flare-sub001/internal/repository"
	ratesvc "github.com/sherlingdev/flare-sub001/internal/service/rates"
	"go.uber.org/zap"
)

// Refresher runs one rate refresh: fetch from the provider, upsert the
// latest table, append the history time series, drop the cached table and
// announce the refresh. History and event publishing are best-effort.
type Refresher struct {
	client  *Client
	rates   repository.RatesRepository
	history repository.HistoryRepository // optional
	cache   *ratesvc.Service
	pub     *events.Publisher // optional

	now func() time.Time
}

func NewRefresher(
	client *Client,
	ratesRepo repository.RatesRepository,
	historyRepo repository.HistoryRepository,
	cache *ratesvc.Service,
	pub *events.Publisher,
) *Refresher {
	return &Refresher{
		client:  client,
		rates:   ratesRepo,
		history: historyRepo,
		cache:   cache,
		pub:     pub,
		now:     time.Now,
	}
}

func (r *Refresher) Refresh(ctx context.Context, base string) error {
	table, err := r.client.FetchLatest(ctx, base)
	if err != nil {
		metrics.RateFetchTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("fetch %s: %w", base, err)
	}

	now := r.now()
	rows := make([]model.ExchangeRate, 0, len(table))
	hist := make([]model.HistoricalRate, 0, len(table))
	for quote, rate := range table {
		rows = append(rows, model.ExchangeRate{Base: base, Quote: quote, Rate: rate, FetchedAt: now})
		hist = append(hist, model.HistoricalRate{Base: base, Quote: quote, Rate: rate, RecordedAt: now})
	}

	if err := r.rates.UpsertBatch(ctx, rows); err != nil {
		metrics.RateFetchTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("upsert %s: %w", base, err)
	}

	if r.history != nil {
		if err := r.history.InsertBatch(ctx, hist); err != nil {
			logger.L().Warn("history insert failed", zap.String("base", base), zap.Error(err))
		}
	}

	if r.cache != nil {
		r.cache.Invalidate(ctx, base)
	}

	if r.pub != nil {
		ev := events.RatesRefreshed{Base: base, Count: len(rows), FetchedAt: now}
		if err := r.pub.PublishRatesRefreshed(ctx, ev); err != nil {
			logger.L().Warn("rates event publish failed", zap.String("base", base), zap.Error(err))
		}
	}

	metrics.RateFetchTotal.WithLabelValues("ok").Inc()
	logger.L().Info("rates refreshed", zap.String("base", base), zap.Int("count", len(rows)))
	return nil
}
