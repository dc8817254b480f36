package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sherlingdev/flare-sub001/internal/config"
	"github.com/sherlingdev/flare-sub001/internal/db"
	"github.com/sherlingdev/flare-sub001/internal/model"
	"github.com/sherlingdev/flare-sub001/internal/repository"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with currencies, demo rates and API keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// 2) connect MySQL
		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		ctx := cmd.Context()

		log.Println(">> Seeding currencies...")
		if err := seedCurrencies(ctx, sqlDB); err != nil {
			return err
		}

		log.Println(">> Seeding demo rates...")
		if err := seedRates(ctx, sqlDB); err != nil {
			return err
		}

		log.Println(">> Seeding demo API keys...")
		if err := seedAPIKeys(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// seedCurrencies upserts a fixed currency set (idempotent on code).
func seedCurrencies(ctx context.Context, dbx *sqlx.DB) error {
	repo := repository.NewCurrenciesRepository(dbx)
	currencies := []model.Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$"},
		{Code: "EUR", Name: "Euro", Symbol: "€"},
		{Code: "GBP", Name: "British Pound", Symbol: "£"},
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
		{Code: "CHF", Name: "Swiss Franc", Symbol: "Fr"},
		{Code: "CAD", Name: "Canadian Dollar", Symbol: "$"},
		{Code: "AUD", Name: "Australian Dollar", Symbol: "$"},
		{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
		{Code: "BRL", Name: "Brazilian Real", Symbol: "R$"},
		{Code: "DOP", Name: "Dominican Peso", Symbol: "RD$"},
	}
	for _, c := range currencies {
		if err := repo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert currency %q: %w", c.Code, err)
		}
	}
	return nil
}

// seedRates writes a plausible USD table so the API works before the first
// provider fetch.
func seedRates(ctx context.Context, dbx *sqlx.DB) error {
	repo := repository.NewRatesRepository(dbx)
	now := time.Now()
	table := map[string]float64{
		"USD": 1, "EUR": 0.92, "GBP": 0.79, "JPY": 149.4, "CHF": 0.88,
		"CAD": 1.36, "AUD": 1.52, "CNY": 7.24, "BRL": 5.43, "DOP": 62.8,
	}
	rows := make([]model.ExchangeRate, 0, len(table))
	for quote, rate := range table {
		rows = append(rows, model.ExchangeRate{Base: "USD", Quote: quote, Rate: rate, FetchedAt: now})
	}
	if err := repo.UpsertBatch(ctx, rows); err != nil {
		return fmt.Errorf("upsert rates: %w", err)
	}
	return nil
}

// seedAPIKeys inserts deterministic demo keys (idempotent upsert on api_key).
func seedAPIKeys(dbx *sqlx.DB) error {
	keys := []model.APIKey{
		{
			ID:       "01J00000000000000000000001",
			Key:      "sk_1111111111111111111111111111111111111111111111",
			Label:    "Demo active",
			IsActive: true,
		},
		{
			ID:       "01J00000000000000000000002",
			Key:      "sk_2222222222222222222222222222222222222222222222",
			Label:    "Demo revoked",
			IsActive: false,
		},
	}

	const q = `
INSERT INTO api_keys
    (id, api_key, label, is_active, created_at, updated_at)
VALUES
    (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    label      = VALUES(label),
    is_active  = VALUES(is_active),
    updated_at = VALUES(updated_at)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	for _, k := range keys {
		if _, err := tx.Exec(q, k.ID, k.Key, k.Label, k.IsActive, now, now); err != nil {
			return fmt.Errorf("insert api key %q: %w", k.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit api keys: %w", err)
	}
	return nil
}
