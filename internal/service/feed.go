package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"stockfolio/internal/database"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type PriceStore interface {
	GetLatestPrice(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error)
	UpsertPrice(ctx context.Context, symbol string, price decimal.Decimal, ts time.Time) error
	GetAllSymbols(ctx context.Context) ([]string, error)
}

// SimulatedFeed appends a random-walk close for every known symbol. It is a
// development stand-in for a market data provider.
type SimulatedFeed struct {
	repo PriceStore
	log  *logrus.Logger
	rng  *rand.Rand
	now  func() time.Time
}

func NewSimulatedFeed(r PriceStore, log *logrus.Logger, seed int64) *SimulatedFeed {
	return &SimulatedFeed{repo: r, log: log, rng: rand.New(rand.NewSource(seed)), now: time.Now}
}

// Tick records one new price per symbol.
func (p *SimulatedFeed) Tick(ctx context.Context) error {
	symbols, err := p.repo.GetAllSymbols(ctx)
	if err != nil {
		return err
	}
	ts := p.now().UTC()
	for _, s := range symbols {
		last, _, err := p.repo.GetLatestPrice(ctx, s)
		var next decimal.Decimal
		switch {
		case errors.Is(err, database.ErrNotFound):
			next = decimal.NewFromFloat(50 + p.rng.Float64()*(5000-50))
		case err != nil:
			p.log.Warnf("latest price for %s: %v", s, err)
			continue
		default:
			step := decimal.NewFromFloat(1 + p.rng.NormFloat64()*0.02)
			next = last.Mul(step)
		}
		next = next.Round(4)
		if !next.IsPositive() {
			next = decimal.New(1, -2)
		}
		if err := p.repo.UpsertPrice(ctx, s, next, ts); err != nil {
			p.log.Warnf("record price for %s: %v", s, err)
		}
	}
	return nil
}

func (p *SimulatedFeed) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				p.log.Info("price feed stopping")
				return
			case <-ticker.C:
				if err := p.Tick(ctx); err != nil {
					p.log.Warnf("price feed tick failed: %v", err)
				}
			}
		}
	}()
}
