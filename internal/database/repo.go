package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"stockfolio/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("not found")

type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

// AddHolding adds quantity to the user's holding of symbol, creating it if
// needed, and returns the new total.
func (r *Repo) AddHolding(ctx context.Context, userID, symbol string, quantity int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (id, name) VALUES ($1, '') ON CONFLICT (id) DO NOTHING`, userID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO securities (symbol, name) VALUES ($1, $1) ON CONFLICT (symbol) DO NOTHING`, symbol); err != nil {
		return 0, err
	}

	var total int64
	upsert := `INSERT INTO holdings (user_id, symbol, quantity, last_updated) VALUES ($1, $2, $3, now()) ON CONFLICT (user_id, symbol) DO UPDATE SET quantity = holdings.quantity + $3, last_updated = now() RETURNING quantity`
	if err := tx.QueryRowContext(ctx, upsert, userID, symbol, quantity).Scan(&total); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("holding check violated for %s/%s: %v", userID, symbol, pqErr.Message)
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repo) GetHoldings(ctx context.Context, userID string) ([]models.Holding, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT user_id, symbol, quantity, last_updated FROM holdings WHERE user_id = $1 AND quantity > 0 ORDER BY symbol`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.Holding{}
	for rows.Next() {
		var h models.Holding
		if err := rows.StructScan(&h); err != nil {
			r.log.Warnf("scan holding failed: %v", err)
			continue
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

func (r *Repo) GetLatestPrice(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error) {
	var priceStr string
	var ts time.Time
	if err := r.db.QueryRowContext(ctx, `SELECT price, timestamp FROM price_history WHERE symbol = $1 ORDER BY timestamp DESC LIMIT 1`, symbol).Scan(&priceStr, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, time.Time{}, ErrNotFound
		}
		return decimal.Zero, time.Time{}, err
	}
	p, err := decimal.NewFromString(priceStr)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	return p, ts, nil
}

func (r *Repo) UpsertPrice(ctx context.Context, symbol string, price decimal.Decimal, ts time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO price_history (symbol, price, timestamp) VALUES ($1, $2::numeric, $3)`, symbol, price.StringFixed(4), ts)
	return err
}

// GetDailyCloses returns the last recorded price of each UTC calendar day in
// [start, end], oldest first.
func (r *Repo) GetDailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	q := `SELECT DISTINCT ON ((timestamp AT TIME ZONE 'UTC')::date) symbol, price, timestamp
		FROM price_history
		WHERE symbol = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY (timestamp AT TIME ZONE 'UTC')::date ASC, timestamp DESC`
	rows, err := r.db.QueryxContext(ctx, q, symbol, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []models.PricePoint{}
	for rows.Next() {
		var p models.PricePoint
		if err := rows.StructScan(&p); err != nil {
			r.log.Warnf("scan price for %s failed: %v", symbol, err)
			continue
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *Repo) GetAllSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT symbol FROM securities ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			r.log.Warnf("scan symbol failed: %v", err)
			continue
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *Repo) UpsertSecurity(ctx context.Context, s models.Security) error {
	q := `INSERT INTO securities (symbol, name, sector, industry, asset_class, currency, exchange, description)
		VALUES (:symbol, :name, :sector, :industry, :asset_class, :currency, :exchange, :description)
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name, sector = EXCLUDED.sector, industry = EXCLUDED.industry,
			asset_class = EXCLUDED.asset_class, currency = EXCLUDED.currency,
			exchange = EXCLUDED.exchange, description = EXCLUDED.description`
	_, err := r.db.NamedExecContext(ctx, q, s)
	return err
}

func (r *Repo) GetSecurity(ctx context.Context, symbol string) (models.Security, error) {
	var s models.Security
	err := r.db.GetContext(ctx, &s, `SELECT symbol, name, sector, industry, asset_class, currency, exchange, description FROM securities WHERE symbol = $1`, symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, err
}

func (r *Repo) GetPortfolio(ctx context.Context, userID string) ([]PortfolioItem, decimal.Decimal, error) {
	holdings, err := r.GetHoldings(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	items := []PortfolioItem{}
	total := decimal.Zero
	for _, h := range holdings {
		item := PortfolioItem{Symbol: h.Symbol, Quantity: h.Quantity}
		price, ts, err := r.GetLatestPrice(ctx, h.Symbol)
		if err != nil {
			r.log.Warnf("no price for symbol %s: %v", h.Symbol, err)
			items = append(items, item)
			continue
		}
		value := price.Mul(decimal.NewFromInt(h.Quantity))
		item.CurrentPrice = price
		item.CurrentValue = value
		item.PricedAt = &ts
		items = append(items, item)
		total = total.Add(value)
	}
	return items, total, nil
}
