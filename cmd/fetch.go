package cmd

import (
	"fmt"

	"github.com/sherlingdev/flare-sub001/internal/config"
	"github.com/sherlingdev/flare-sub001/internal/db"
	"github.com/sherlingdev/flare-sub001/internal/events"
	"github.com/sherlingdev/flare-sub001/internal/logger"
	"github.com/sherlingdev/flare-sub001/internal/repository"
	"github.com/sherlingdev/flare-sub001/internal/service/fetch"
	ratesvc "github.com/sherlingdev/flare-sub001/internal/service/rates"
	"github.com/spf13/cobra"
)

// fetchCmd runs one refresh pass over the configured base currencies.
// External cron invokes it; there is no scheduler in-process.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch latest exchange rates from the provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.Init(cfg.Log.Level)

		mysqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer mysqlDB.Close()

		ratesRepo := repository.NewRatesRepository(mysqlDB)

		// Cache and history are best-effort here: a fetch run still counts
		// when redis or clickhouse are unreachable.
		var cacheSvc *ratesvc.Service
		if redisClient, err := db.NewRedisClient(db.RedisOpts{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		}); err == nil {
			defer func() { _ = redisClient.Close() }()
			cacheSvc = ratesvc.New(ratesRepo, redisClient, cfg.Cache.TTL)
		}

		var historyRepo repository.HistoryRepository
		if chDB, err := db.NewClickHouseConnection(db.ClickHouseOpts{
			DSN:         cfg.ClickHouse.DSN,
			PingTimeout: cfg.ClickHouse.PingTimeout,
		}); err == nil {
			defer func() { _ = chDB.Close() }()
			historyRepo = repository.NewHistoryRepository(chDB)
		}

		var pub *events.Publisher
		if cfg.Kafka.Enabled {
			pub = events.NewPublisherFromConfig(events.Config{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.Topic,
			})
			defer func() { _ = pub.Close() }()
		}

		client := fetch.NewClient(cfg.Provider.BaseURL, cfg.Provider.Path, cfg.Provider.TimeoutMs)
		refresher := fetch.NewRefresher(client, ratesRepo, historyRepo, cacheSvc, pub)

		for _, base := range cfg.Provider.Bases {
			if err := refresher.Refresh(cmd.Context(), base); err != nil {
				return err
			}
		}
		return nil
	},
}
