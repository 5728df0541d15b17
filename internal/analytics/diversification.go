package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Reasons a holding is left out of the diversification denominator.
const (
	ExcludedNoMetadata  = "no metadata"
	ExcludedNoCategory  = "no category for dimension"
	ExcludedNoPrice     = "no price for value weighting"
	ExcludedFetchFailed = "metadata fetch failed"
)

type CategoryShare struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Percent  float64         `json:"percent"`
	Tickers  []string        `json:"tickers"`
}

type Exclusion struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// DiversificationResult reports how holdings spread across one dimension.
// NoData is set when no holding could be placed in a category; it is an
// informational outcome, not a failure.
type DiversificationResult struct {
	Dimension  Dimension                `json:"dimension"`
	Weighting  Weighting                `json:"weighting"`
	Total      decimal.Decimal          `json:"total"`
	Categories map[string]CategoryShare `json:"categories"`
	Excluded   []Exclusion              `json:"excluded"`
	NoData     bool                     `json:"no_data"`
}

// Ranked returns the categories from largest to smallest share.
func (r *DiversificationResult) Ranked() []CategoryShare {
	out := make([]CategoryShare, 0, len(r.Categories))
	for _, c := range r.Categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Diversify groups holdings by their metadata along dim. Each holding
// contributes its quantity, or with WeightByValue its quantity times latest
// close. Holdings that cannot be placed are listed in Excluded.
func Diversify(p Portfolio, metadata map[string]SecurityMetadata, prices map[string]PriceSeries, dim Dimension, weighting Weighting) (*DiversificationResult, error) {
	if !dim.Valid() {
		return nil, newError(EngineDiversification, ErrInvalidOption, "", "dimension %q", dim)
	}
	if !weighting.Valid() {
		return nil, newError(EngineDiversification, ErrInvalidOption, "", "weighting %q", weighting)
	}

	res := &DiversificationResult{
		Dimension:  dim,
		Weighting:  weighting,
		Total:      decimal.Zero,
		Categories: make(map[string]CategoryShare),
		Excluded:   []Exclusion{},
	}

	for _, h := range p.Holdings() {
		meta, ok := metadata[h.Ticker]
		if !ok {
			res.Excluded = append(res.Excluded, Exclusion{Ticker: h.Ticker, Reason: ExcludedNoMetadata})
			continue
		}
		category := meta.Category(dim)
		if category == "" {
			res.Excluded = append(res.Excluded, Exclusion{Ticker: h.Ticker, Reason: ExcludedNoCategory})
			continue
		}

		amount := decimal.NewFromInt(h.Quantity)
		if weighting == WeightByValue {
			s := prices[h.Ticker]
			if len(s) == 0 {
				res.Excluded = append(res.Excluded, Exclusion{Ticker: h.Ticker, Reason: ExcludedNoPrice})
				continue
			}
			if err := s.validate(EngineDiversification, h.Ticker); err != nil {
				return nil, err
			}
			amount = amount.Mul(s.Last().Close)
		}

		c := res.Categories[category]
		c.Category = category
		c.Total = c.Total.Add(amount)
		c.Tickers = append(c.Tickers, h.Ticker)
		res.Categories[category] = c
		res.Total = res.Total.Add(amount)
	}

	if len(res.Categories) == 0 || res.Total.IsZero() {
		res.NoData = true
		res.Categories = map[string]CategoryShare{}
		return res, nil
	}

	for name, c := range res.Categories {
		c.Percent = c.Total.Div(res.Total).Mul(hundred).InexactFloat64()
		res.Categories[name] = c
	}
	return res, nil
}

// markFetchFailures relabels holdings that were excluded only because their
// metadata lookup failed. When nothing could be placed and a lookup failed,
// the outcome is a missing-data failure for that ticker instead of NoData.
func markFetchFailures(res *DiversificationResult, failures map[string]string) (*DiversificationResult, error) {
	for i, ex := range res.Excluded {
		msg, ok := failures[ex.Ticker]
		if !ok || ex.Reason != ExcludedNoMetadata {
			continue
		}
		if res.NoData {
			return nil, newError(EngineDiversification, ErrMissingTickerData, ex.Ticker, "metadata unavailable: %s", msg)
		}
		res.Excluded[i].Reason = ExcludedFetchFailed
	}
	return res, nil
}
