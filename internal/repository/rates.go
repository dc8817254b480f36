package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sherlingdev/flare-sub001/internal/model"
)

// RatesRepository persists the latest rate table. Freshness relies on the
// store's own upsert semantics: one row per (base, quote), last write wins.
type RatesRepository interface {
	Latest(ctx context.Context, base string) ([]model.ExchangeRate, error)
	Get(ctx context.Context, base, quote string) (*model.ExchangeRate, error)
	UpsertBatch(ctx context.Context, rates []model.ExchangeRate) error
}

type RatesRepositoryImpl struct {
	db *sqlx.DB
}

func NewRatesRepository(db *sqlx.DB) *RatesRepositoryImpl {
	return &RatesRepositoryImpl{db: db}
}

var _ RatesRepository = (*RatesRepositoryImpl)(nil)

func (r *RatesRepositoryImpl) Latest(ctx context.Context, base string) ([]model.ExchangeRate, error) {
	var out []model.ExchangeRate
	err := r.db.SelectContext(ctx, &out, `
		SELECT base, quote, rate, fetched_at
		  FROM exchange_rates
		 WHERE base = ?
		 ORDER BY quote
	`, base)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RatesRepositoryImpl) Get(ctx context.Context, base, quote string) (*model.ExchangeRate, error) {
	var er model.ExchangeRate
	err := r.db.GetContext(ctx, &er, `
		SELECT base, quote, rate, fetched_at
		  FROM exchange_rates
		 WHERE base = ? AND quote = ? LIMIT 1
	`, base, quote)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &er, nil
}

// UpsertBatch writes a full rate table in one statement, idempotent on
// (base, quote).
func (r *RatesRepositoryImpl) UpsertBatch(ctx context.Context, rates []model.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(rates)*4)

	sb.WriteString(`INSERT INTO exchange_rates (base, quote, rate, fetched_at) VALUES `)
	for i, er := range rates {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?)")
		args = append(args, er.Base, er.Quote, er.Rate, er.FetchedAt)
	}
	sb.WriteString(` ON DUPLICATE KEY UPDATE rate = VALUES(rate), fetched_at = VALUES(fetched_at)`)

	_, err := r.db.ExecContext(ctx, sb.String(), args...)
	return err
}
