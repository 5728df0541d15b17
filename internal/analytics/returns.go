package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnSeries holds simple returns. Values[i] is the return from the close
// before Dates[i] to the close on Dates[i].
type ReturnSeries struct {
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
}

func (r ReturnSeries) Len() int { return len(r.Values) }

// SimpleReturns converts n closes into n-1 returns
// (close[t] - close[t-1]) / close[t-1].
func SimpleReturns(s PriceSeries) (ReturnSeries, error) {
	if len(s) < 2 {
		return ReturnSeries{}, newError(EngineReturns, ErrInsufficientData, "", "%d price points, need at least 2", len(s))
	}
	if err := s.validate(EngineReturns, ""); err != nil {
		return ReturnSeries{}, err
	}

	out := ReturnSeries{
		Dates:  make([]time.Time, len(s)-1),
		Values: make([]float64, len(s)-1),
	}
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Close
		if prev.IsZero() {
			return ReturnSeries{}, newError(EngineReturns, ErrData, "", "zero close on %s", dayKey(s[i-1].Date))
		}
		out.Dates[i-1] = s[i].Date
		out.Values[i-1] = s[i].Close.Sub(prev).Div(prev).InexactFloat64()
	}
	return out, nil
}

// roundTo rounds v to places decimal digits, half away from zero.
func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
