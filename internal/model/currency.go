package model

import "time"

// Currency is a row in the currencies table.
type Currency struct {
	Code      string    `db:"code" json:"code"` // ISO 4217, e.g. "USD"
	Name      string    `db:"name" json:"name"`
	Symbol    string    `db:"symbol" json:"symbol"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
