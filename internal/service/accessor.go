package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockfolio/internal/analytics"
	"stockfolio/internal/database"
	"stockfolio/internal/models"

	"github.com/sirupsen/logrus"
)

// Window is the inclusive time range of a history request.
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingWindow covers the days UTC calendar days up to and including end.
func TrailingWindow(end time.Time, days int) Window {
	if days <= 0 {
		days = 30
	}
	end = end.UTC()
	start := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	return Window{Start: start, End: end}
}

// Accessor supplies price history and security metadata for a ticker.
// FetchMetadata reports ok=false when the ticker has no metadata.
type Accessor interface {
	FetchHistory(ctx context.Context, ticker string, w Window) (analytics.PriceSeries, error)
	FetchMetadata(ctx context.Context, ticker string) (analytics.SecurityMetadata, bool, error)
}

// MarketDataStore is the subset of the repository the accessor reads.
type MarketDataStore interface {
	GetDailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error)
	GetSecurity(ctx context.Context, symbol string) (models.Security, error)
}

type RepoAccessor struct {
	store MarketDataStore
	log   *logrus.Logger
}

func NewRepoAccessor(store MarketDataStore, log *logrus.Logger) *RepoAccessor {
	return &RepoAccessor{store: store, log: log}
}

func (a *RepoAccessor) FetchHistory(ctx context.Context, ticker string, w Window) (analytics.PriceSeries, error) {
	points, err := a.store.GetDailyCloses(ctx, ticker, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", ticker, err)
	}
	s := make(analytics.PriceSeries, 0, len(points))
	for _, p := range points {
		s = append(s, analytics.PricePoint{Date: p.Timestamp, Close: p.Price})
	}
	return s, nil
}

func (a *RepoAccessor) FetchMetadata(ctx context.Context, ticker string) (analytics.SecurityMetadata, bool, error) {
	sec, err := a.store.GetSecurity(ctx, ticker)
	if errors.Is(err, database.ErrNotFound) {
		return analytics.SecurityMetadata{}, false, nil
	}
	if err != nil {
		return analytics.SecurityMetadata{}, false, fmt.Errorf("fetch metadata for %s: %w", ticker, err)
	}
	meta := analytics.SecurityMetadata{Sector: sec.Sector, Industry: sec.Industry, AssetClass: sec.AssetClass}
	if meta == (analytics.SecurityMetadata{}) {
		a.log.Debugf("security %s has no classification", ticker)
		return meta, false, nil
	}
	return meta, true, nil
}
