package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sherlingdev/flare-sub001/internal/model"
	"github.com/sherlingdev/flare-sub001/internal/util"
)

// RateLimitRepository is the append-only request ledger the sliding-window
// limiter counts against. Rows are never updated; pruning old rows is left
// to an external job.
type RateLimitRepository interface {
	Append(ctx context.Context, rec model.RateLimitRecord) error
	// ListSince returns records for the identifier and tier with
	// timestamp_ms >= minTS, ordered ascending by timestamp.
	ListSince(ctx context.Context, identifier string, authenticated bool, minTS int64) ([]model.RateLimitRecord, error)
}

type RateLimitRepositoryImpl struct {
	db *sqlx.DB
}

func NewRateLimitRepository(db *sqlx.DB) *RateLimitRepositoryImpl {
	return &RateLimitRepositoryImpl{db: db}
}

var _ RateLimitRepository = (*RateLimitRepositoryImpl)(nil)

func (r *RateLimitRepositoryImpl) Append(ctx context.Context, rec model.RateLimitRecord) error {
	if rec.ID == "" {
		rec.ID = util.NewULID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rate_limits (id, identifier, is_authenticated, timestamp_ms)
		VALUES (?, ?, ?, ?)
	`, rec.ID, rec.Identifier, rec.Authenticated, rec.TimestampMS)
	return err
}

func (r *RateLimitRepositoryImpl) ListSince(ctx context.Context, identifier string, authenticated bool, minTS int64) ([]model.RateLimitRecord, error) {
	var out []model.RateLimitRecord
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, identifier, is_authenticated, timestamp_ms
		  FROM rate_limits
		 WHERE identifier = ? AND is_authenticated = ? AND timestamp_ms >= ?
		 ORDER BY timestamp_ms ASC
	`, identifier, authenticated, minTS)
	if err != nil {
		return nil, err
	}
	return out, nil
}
