package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Holding struct {
	UserID      string    `db:"user_id" json:"user_id"`
	Symbol      string    `db:"symbol" json:"symbol"`
	Quantity    int64     `db:"quantity" json:"quantity"`
	LastUpdated time.Time `db:"last_updated" json:"last_updated"`
}

type Security struct {
	Symbol      string `db:"symbol" json:"symbol"`
	Name        string `db:"name" json:"name"`
	Sector      string `db:"sector" json:"sector"`
	Industry    string `db:"industry" json:"industry"`
	AssetClass  string `db:"asset_class" json:"asset_class"`
	Currency    string `db:"currency" json:"currency"`
	Exchange    string `db:"exchange" json:"exchange"`
	Description string `db:"description" json:"description"`
}

type PricePoint struct {
	Symbol    string          `db:"symbol" json:"symbol"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Timestamp time.Time       `db:"timestamp" json:"timestamp"`
}
