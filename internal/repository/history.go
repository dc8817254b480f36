package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sherlingdev/flare-sub001/internal/model"
)

// HistoryRepository stores the rate time series in ClickHouse.
type HistoryRepository interface {
	InsertBatch(ctx context.Context, rows []model.HistoricalRate) error
	ListPair(ctx context.Context, base, quote string, days, limit int) ([]model.HistoricalRate, error)
}

type historyRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewHistoryRepository(ch *sqlx.DB) HistoryRepository {
	return &historyRepository{ch: ch}
}

func (r *historyRepository) InsertBatch(ctx context.Context, rows []model.HistoricalRate) error {
	if len(rows) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(rows)*4)

	sb.WriteString(`INSERT INTO flare.rate_history (base, quote, rate, recorded_at) VALUES `)
	for i, h := range rows {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?)")
		args = append(args, h.Base, h.Quote, h.Rate, h.RecordedAt)
	}

	_, err := r.ch.ExecContext(ctx, sb.String(), args...)
	return err
}

func (r *historyRepository) ListPair(ctx context.Context, base, quote string, days, limit int) ([]model.HistoricalRate, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	if limit <= 0 || limit > 1000 {
		limit = 365
	}

	const q = `
		SELECT base, quote, rate, recorded_at
		FROM flare.rate_history
		WHERE base = ? AND quote = ? AND recorded_at >= now() - INTERVAL ? DAY
		ORDER BY recorded_at DESC
		LIMIT ?
	`

	var rows []model.HistoricalRate
	if err := r.ch.SelectContext(ctx, &rows, q, base, quote, days, limit); err != nil {
		return nil, err
	}
	return rows, nil
}
