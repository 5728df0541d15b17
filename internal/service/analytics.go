package service

import (
	"context"
	"sync"
	"time"

	"stockfolio/internal/analytics"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type AnalyticsConfig struct {
	WindowDays  int
	Concurrency int
}

// Analysis is a Report together with the fetch problems that shaped it.
type Analysis struct {
	Report        *analytics.Report
	Window        Window
	FetchFailures map[string]string
}

type AnalyticsService struct {
	accessor Accessor
	cfg      AnalyticsConfig
	log      *logrus.Logger
	now      func() time.Time
}

func NewAnalyticsService(a Accessor, cfg AnalyticsConfig, log *logrus.Logger) *AnalyticsService {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 30
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &AnalyticsService{accessor: a, cfg: cfg, log: log, now: time.Now}
}

type fetched struct {
	mu           sync.Mutex
	prices       map[string]analytics.PriceSeries
	meta         map[string]analytics.SecurityMetadata
	failures     map[string]string
	metaFailures map[string]string
}

func (f *fetched) fail(ticker, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if prev, ok := f.failures[ticker]; ok {
		msg = prev + "; " + msg
	}
	f.failures[ticker] = msg
}

func (f *fetched) failMetadata(ticker, msg string) {
	f.fail(ticker, msg)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metaFailures[ticker] = msg
}

// Analyze fetches history and metadata for every holding, then runs the
// engines. A ticker whose fetch fails is left out of the bundle and shows up
// as a per-engine failure for that ticker. The returned error is non-nil
// only when ctx ends before fetching completes.
func (s *AnalyticsService) Analyze(ctx context.Context, p analytics.Portfolio, opts analytics.Options) (*Analysis, error) {
	w := TrailingWindow(s.now(), s.cfg.WindowDays)
	f := &fetched{
		prices:       make(map[string]analytics.PriceSeries),
		meta:         make(map[string]analytics.SecurityMetadata),
		failures:     make(map[string]string),
		metaFailures: make(map[string]string),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, ticker := range p.Tickers() {
		ticker := ticker
		g.Go(func() error {
			series, err := s.accessor.FetchHistory(gctx, ticker, w)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.log.Warnf("history for %s unavailable: %v", ticker, err)
				f.fail(ticker, err.Error())
			}

			meta, ok, err := s.accessor.FetchMetadata(gctx, ticker)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.log.Warnf("metadata for %s unavailable: %v", ticker, err)
				f.failMetadata(ticker, err.Error())
			}

			f.mu.Lock()
			defer f.mu.Unlock()
			if len(series) > 0 {
				f.prices[ticker] = series
			}
			if ok {
				f.meta[ticker] = meta
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(f.metaFailures) > 0 {
		opts.MetadataFailures = f.metaFailures
	}
	report := analytics.Analyze(p, f.prices, f.meta, opts)
	s.log.Debugf("analyzed %d holdings over %s..%s (growth err=%v, risk err=%v, diversification err=%v)",
		p.Len(), w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"),
		report.GrowthErr, report.RiskErr, report.DiversificationErr)

	return &Analysis{Report: report, Window: w, FetchFailures: f.failures}, nil
}
