package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

type RiskResult struct {
	// Score is the portfolio variance as a percentage, rounded to 6 places.
	Score        float64     `json:"risk_score"`
	Variance     float64     `json:"variance"`
	Tickers      []string    `json:"tickers"`
	Weights      []float64   `json:"weights"`
	Covariance   [][]float64 `json:"covariance"`
	Observations int         `json:"observations"`
	AsOf         time.Time   `json:"as_of"`
}

// PortfolioRisk computes w'Σw where Σ is the sample covariance of the
// holdings' simple returns over their common dates and w is each holding's
// share of market value on the latest common date.
//
// The quadratic form already carries every covariance term. Nothing is added
// on top of it, and raw quantities are never used as weights.
func PortfolioRisk(p Portfolio, prices map[string]PriceSeries) (*RiskResult, error) {
	holdings := p.Holdings()
	if len(holdings) == 0 {
		return nil, newError(EngineRisk, ErrInsufficientData, "", "portfolio has no holdings")
	}

	for _, h := range holdings {
		s := prices[h.Ticker]
		if len(s) == 0 {
			return nil, newError(EngineRisk, ErrMissingTickerData, h.Ticker, "no price series")
		}
		if err := s.validate(EngineRisk, h.Ticker); err != nil {
			return nil, err
		}
	}

	dates := commonDates(holdings, prices)
	if len(dates) < 3 {
		n := len(dates) - 1
		if n < 0 {
			n = 0
		}
		return nil, newError(EngineRisk, ErrInsufficientData, "", "%d aligned returns, need at least 2", n)
	}

	k := len(holdings)
	obs := len(dates) - 1
	returns := mat.NewDense(obs, k, nil)
	values := make([]decimal.Decimal, k)
	total := decimal.Zero
	for j, h := range holdings {
		aligned := alignTo(prices[h.Ticker], dates)
		r, err := SimpleReturns(aligned)
		if err != nil {
			return nil, reattribute(err, EngineRisk, h.Ticker)
		}
		returns.SetCol(j, r.Values)

		values[j] = aligned.Last().Close.Mul(decimal.NewFromInt(h.Quantity))
		total = total.Add(values[j])
	}
	if total.IsZero() {
		return nil, newError(EngineRisk, ErrDegenerateInput, "", "portfolio has zero market value on %s", dayKey(dates[len(dates)-1]))
	}

	weights := make([]float64, k)
	tickers := make([]string, k)
	for j, h := range holdings {
		weights[j] = values[j].Div(total).InexactFloat64()
		tickers[j] = h.Ticker
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, returns, nil)

	w := mat.NewVecDense(k, weights)
	variance := mat.Inner(w, &cov, w)

	return &RiskResult{
		Score:        roundTo(variance*100, 6),
		Variance:     variance,
		Tickers:      tickers,
		Weights:      weights,
		Covariance:   symToRows(&cov),
		Observations: obs,
		AsOf:         dates[len(dates)-1],
	}, nil
}

// commonDates returns the calendar dates present in every holding's series,
// oldest first.
func commonDates(holdings []Holding, prices map[string]PriceSeries) []time.Time {
	counts := make(map[string]int)
	first := make(map[string]time.Time)
	for _, h := range holdings {
		for _, pt := range prices[h.Ticker] {
			key := dayKey(pt.Date)
			counts[key]++
			if _, ok := first[key]; !ok {
				first[key] = pt.Date
			}
		}
	}

	var out []time.Time
	for key, n := range counts {
		if n == len(holdings) {
			out = append(out, first[key])
		}
	}
	sort.Slice(out, func(i, j int) bool { return dayKey(out[i]) < dayKey(out[j]) })
	return out
}

// alignTo keeps the points of s whose calendar date is in dates.
func alignTo(s PriceSeries, dates []time.Time) PriceSeries {
	keep := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		keep[dayKey(d)] = struct{}{}
	}
	out := make(PriceSeries, 0, len(dates))
	for _, pt := range s {
		if _, ok := keep[dayKey(pt.Date)]; ok {
			out = append(out, pt)
		}
	}
	return out
}

func symToRows(s *mat.SymDense) [][]float64 {
	n := s.SymmetricDim()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			rows[i][j] = s.At(i, j)
		}
	}
	return rows
}
