package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"stockfolio/internal/database"
	"stockfolio/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var errStoreDown = errors.New("store down")

type memStore struct {
	mu         sync.Mutex
	prices     map[string][]models.PricePoint
	securities map[string]models.Security
	broken     map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		prices:     map[string][]models.PricePoint{},
		securities: map[string]models.Security{},
		broken:     map[string]bool{},
	}
}

func (m *memStore) addCloses(symbol string, start time.Time, closes ...float64) {
	for i, c := range closes {
		_ = m.UpsertPrice(context.Background(), symbol, decimal.NewFromFloat(c), start.AddDate(0, 0, i))
	}
}

func (m *memStore) GetDailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broken[symbol] {
		return nil, errStoreDown
	}
	var out []models.PricePoint
	for _, p := range m.prices[symbol] {
		if !p.Timestamp.Before(start) && !p.Timestamp.After(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) GetSecurity(ctx context.Context, symbol string) (models.Security, error) {
	if err := ctx.Err(); err != nil {
		return models.Security{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broken[symbol] {
		return models.Security{}, errStoreDown
	}
	s, ok := m.securities[symbol]
	if !ok {
		return models.Security{}, database.ErrNotFound
	}
	return s, nil
}

func (m *memStore) GetLatestPrice(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps := m.prices[symbol]
	if len(ps) == 0 {
		return decimal.Zero, time.Time{}, database.ErrNotFound
	}
	last := ps[len(ps)-1]
	return last.Price, last.Timestamp, nil
}

func (m *memStore) UpsertPrice(ctx context.Context, symbol string, price decimal.Decimal, ts time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = append(m.prices[symbol], models.PricePoint{Symbol: symbol, Price: price, Timestamp: ts})
	sort.Slice(m.prices[symbol], func(i, j int) bool {
		return m.prices[symbol][i].Timestamp.Before(m.prices[symbol][j].Timestamp)
	})
	return nil
}

func (m *memStore) GetAllSymbols(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for s := range m.securities {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
