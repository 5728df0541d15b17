package database

import (
	"time"

	"github.com/shopspring/decimal"
)

type PortfolioItem struct {
	Symbol       string          `json:"symbol"`
	Quantity     int64           `json:"quantity"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CurrentValue decimal.Decimal `json:"current_value"`
	PricedAt     *time.Time      `json:"priced_at,omitempty"`
}
