package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/sherlingdev/flare-sub001/internal/model"
)

type APIKeysRepository interface {
	// GetActiveByKey returns the key record for an exact, active match,
	// or nil when no such key exists.
	GetActiveByKey(ctx context.Context, key string) (*model.APIKey, error)
	Insert(ctx context.Context, k model.APIKey) error
	Deactivate(ctx context.Context, id string) error
}

type APIKeysRepositoryImpl struct {
	db *sqlx.DB
}

func NewAPIKeysRepository(db *sqlx.DB) *APIKeysRepositoryImpl {
	return &APIKeysRepositoryImpl{db: db}
}

var _ APIKeysRepository = (*APIKeysRepositoryImpl)(nil)

func (r *APIKeysRepositoryImpl) GetActiveByKey(ctx context.Context, key string) (*model.APIKey, error) {
	var k model.APIKey
	err := r.db.GetContext(ctx, &k, `
		SELECT id, api_key, label, is_active, created_at, updated_at, last_used_at
		  FROM api_keys
		 WHERE api_key = ? AND is_active = 1 LIMIT 1
	`, key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *APIKeysRepositoryImpl) Insert(ctx context.Context, k model.APIKey) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, api_key, label, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())
	`, k.ID, k.Key, k.Label, k.IsActive)
	return err
}

func (r *APIKeysRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE api_keys SET is_active = 0, updated_at = NOW() WHERE id = ?
	`, id)
	return err
}
