package model

import "time"

// ExchangeRate is the latest known rate for a base/quote pair,
// persisted in exchange_rates and refreshed by the fetch job.
type ExchangeRate struct {
	Base      string    `db:"base" json:"base"`
	Quote     string    `db:"quote" json:"quote"`
	Rate      float64   `db:"rate" json:"rate"`
	FetchedAt time.Time `db:"fetched_at" json:"fetched_at"`
}

// HistoricalRate is one time-series point in the ClickHouse history table.
type HistoricalRate struct {
	Base       string    `db:"base" json:"base"`
	Quote      string    `db:"quote" json:"quote"`
	Rate       float64   `db:"rate" json:"rate"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
