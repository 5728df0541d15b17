package analytics

import (
	"github.com/shopspring/decimal"
)

type GrowthResult struct {
	RatePercent float64         `json:"growth_rate_percent"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

var hundred = decimal.NewFromInt(100)

// PortfolioGrowth values every holding at the first and last close of its
// series and returns the percentage change of the total, rounded to 6
// places.
func PortfolioGrowth(p Portfolio, prices map[string]PriceSeries) (*GrowthResult, error) {
	holdings := p.Holdings()
	if len(holdings) == 0 {
		return nil, newError(EngineGrowth, ErrDegenerateInput, "", "portfolio has no holdings")
	}

	cost := decimal.Zero
	value := decimal.Zero
	for _, h := range holdings {
		s, ok := prices[h.Ticker]
		if !ok || len(s) == 0 {
			return nil, newError(EngineGrowth, ErrMissingTickerData, h.Ticker, "no price series")
		}
		if len(s) < 2 {
			return nil, newError(EngineGrowth, ErrInsufficientData, h.Ticker, "%d price points, need at least 2", len(s))
		}
		if err := s.validate(EngineGrowth, h.Ticker); err != nil {
			return nil, err
		}
		q := decimal.NewFromInt(h.Quantity)
		cost = cost.Add(s.First().Close.Mul(q))
		value = value.Add(s.Last().Close.Mul(q))
	}

	if cost.IsZero() {
		return nil, newError(EngineGrowth, ErrDegenerateInput, "", "total cost is zero")
	}

	rate := value.Sub(cost).Div(cost).Mul(hundred).Round(6)
	return &GrowthResult{
		RatePercent: rate.InexactFloat64(),
		TotalCost:   cost,
		TotalValue:  value,
	}, nil
}
