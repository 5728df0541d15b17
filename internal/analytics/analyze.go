package analytics

import (
	"errors"
)

type Options struct {
	Dimension Dimension
	Weighting Weighting

	// MetadataFailures maps tickers whose metadata lookup failed to the
	// failure text. Such holdings are excluded as ExcludedFetchFailed
	// rather than ExcludedNoMetadata.
	MetadataFailures map[string]string
}

func (o Options) withDefaults() Options {
	if o.Dimension == "" {
		o.Dimension = DimensionIndustry
	}
	if o.Weighting == "" {
		o.Weighting = WeightByQuantity
	}
	return o
}

// Report carries the outcome of each engine separately. An engine that fails
// leaves its result nil and sets its error; the others are unaffected.
type Report struct {
	Options            Options
	Growth             *GrowthResult
	GrowthErr          error
	Risk               *RiskResult
	RiskErr            error
	Diversification    *DiversificationResult
	DiversificationErr error
}

// AnalyticsResult is the flattened view of a fully successful Report.
type AnalyticsResult struct {
	GrowthRatePercent float64                  `json:"growth_rate_percent"`
	RiskScore         float64                  `json:"risk_score"`
	Diversification   map[string]CategoryShare `json:"diversification"`
	DiversificationOK bool                     `json:"diversification_available"`
}

// Analyze runs the growth, risk and diversification engines over the same
// inputs. It reads prices and metadata without modifying them and keeps no
// state between calls.
func Analyze(p Portfolio, prices map[string]PriceSeries, metadata map[string]SecurityMetadata, opts Options) *Report {
	opts = opts.withDefaults()
	r := &Report{Options: opts}
	r.Growth, r.GrowthErr = PortfolioGrowth(p, prices)
	r.Risk, r.RiskErr = PortfolioRisk(p, prices)
	r.Diversification, r.DiversificationErr = Diversify(p, metadata, prices, opts.Dimension, opts.Weighting)
	if r.DiversificationErr == nil && len(opts.MetadataFailures) > 0 {
		r.Diversification, r.DiversificationErr = markFetchFailures(r.Diversification, opts.MetadataFailures)
	}
	return r
}

// Err joins the per-engine errors, or returns nil when every engine
// succeeded.
func (r *Report) Err() error {
	return errors.Join(r.GrowthErr, r.RiskErr, r.DiversificationErr)
}

// Result returns the flattened result when every engine succeeded.
func (r *Report) Result() (AnalyticsResult, error) {
	if err := r.Err(); err != nil {
		return AnalyticsResult{}, err
	}
	return AnalyticsResult{
		GrowthRatePercent: r.Growth.RatePercent,
		RiskScore:         r.Risk.Score,
		Diversification:   r.Diversification.Categories,
		DiversificationOK: !r.Diversification.NoData,
	}, nil
}
