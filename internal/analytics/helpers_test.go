package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// series builds daily closes starting offset days after day0.
func series(offset int, closes ...float64) PriceSeries {
	out := make(PriceSeries, len(closes))
	for i, c := range closes {
		out[i] = PricePoint{Date: day0.AddDate(0, 0, offset+i), Close: decimal.NewFromFloat(c)}
	}
	return out
}

func mustPortfolio(t *testing.T, holdings ...Holding) Portfolio {
	t.Helper()
	p, err := NewPortfolio(holdings...)
	require.NoError(t, err)
	return p
}
