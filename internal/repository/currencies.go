package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/sherlingdev/flare-sub001/internal/model"
)

type CurrenciesRepository interface {
	List(ctx context.Context) ([]model.Currency, error)
	GetByCode(ctx context.Context, code string) (*model.Currency, error)
	Upsert(ctx context.Context, c model.Currency) error
}

type CurrenciesRepositoryImpl struct {
	db *sqlx.DB
}

func NewCurrenciesRepository(db *sqlx.DB) *CurrenciesRepositoryImpl {
	return &CurrenciesRepositoryImpl{db: db}
}

var _ CurrenciesRepository = (*CurrenciesRepositoryImpl)(nil)

func (r *CurrenciesRepositoryImpl) List(ctx context.Context) ([]model.Currency, error) {
	var out []model.Currency
	err := r.db.SelectContext(ctx, &out, `
		SELECT code, name, symbol, created_at, updated_at
		  FROM currencies
		 ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CurrenciesRepositoryImpl) GetByCode(ctx context.Context, code string) (*model.Currency, error) {
	var c model.Currency
	err := r.db.GetContext(ctx, &c, `
		SELECT code, name, symbol, created_at, updated_at
		  FROM currencies
		 WHERE code = ? LIMIT 1
	`, code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert is idempotent on code (PRIMARY KEY); used by the seed command.
func (r *CurrenciesRepositoryImpl) Upsert(ctx context.Context, c model.Currency) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO currencies (code, name, symbol, created_at, updated_at)
		VALUES (?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
		    name       = VALUES(name),
		    symbol     = VALUES(symbol),
		    updated_at = VALUES(updated_at)
	`, c.Code, c.Name, c.Symbol)
	return err
}
