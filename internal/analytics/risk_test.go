package analytics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func mustReturns(t *testing.T, s PriceSeries) []float64 {
	t.Helper()
	r, err := SimpleReturns(s)
	require.NoError(t, err)
	return r.Values
}

func TestPortfolioRisk_SingleHoldingEqualsOwnVariance(t *testing.T) {
	s := series(0, 100, 102, 99, 105, 104)
	p := mustPortfolio(t, Holding{Ticker: "AAPL", Quantity: 7})

	res, err := PortfolioRisk(p, map[string]PriceSeries{"AAPL": s})
	require.NoError(t, err)

	want := stat.Variance(mustReturns(t, s), nil)
	assert.InDelta(t, want, res.Variance, 1e-15)
	assert.Equal(t, roundTo(want*100, 6), res.Score)
	assert.Equal(t, []float64{1}, res.Weights)
	assert.Equal(t, 4, res.Observations)
	assert.Equal(t, s.Last().Date, res.AsOf)
}

// Two-asset fixture shared by the weighting and covariance regression guards.
func twoAssetFixture(t *testing.T) (Portfolio, map[string]PriceSeries) {
	p := mustPortfolio(t,
		Holding{Ticker: "AAPL", Quantity: 10},
		Holding{Ticker: "XOM", Quantity: 40},
	)
	prices := map[string]PriceSeries{
		"AAPL": series(0, 100, 110, 99, 108),
		"XOM":  series(0, 50, 55, 50, 52),
	}
	return p, prices
}

func TestPortfolioRisk_ValueWeightedQuadraticForm(t *testing.T) {
	p, prices := twoAssetFixture(t)
	res, err := PortfolioRisk(p, prices)
	require.NoError(t, err)

	ra := mustReturns(t, prices["AAPL"])
	rx := mustReturns(t, prices["XOM"])
	varA := stat.Variance(ra, nil)
	varX := stat.Variance(rx, nil)
	cov := stat.Covariance(ra, rx, nil)

	// latest values: AAPL 10*108 = 1080, XOM 40*52 = 2080
	wA, wX := 1080.0/3160.0, 2080.0/3160.0
	want := wA*wA*varA + wX*wX*varX + 2*wA*wX*cov

	assert.Equal(t, []string{"AAPL", "XOM"}, res.Tickers)
	assert.InDelta(t, wA, res.Weights[0], 1e-15)
	assert.InDelta(t, wX, res.Weights[1], 1e-15)
	assert.InDelta(t, want, res.Variance, 1e-15)
	assert.Equal(t, roundTo(want*100, 6), res.Score)

	require.Len(t, res.Covariance, 2)
	assert.InDelta(t, varA, res.Covariance[0][0], 1e-15)
	assert.InDelta(t, cov, res.Covariance[0][1], 1e-15)
	assert.InDelta(t, cov, res.Covariance[1][0], 1e-15)
	assert.InDelta(t, varX, res.Covariance[1][1], 1e-15)
}

// Raw share counts are not weights: using them scales variance by the square
// of the position sizes and makes the score depend on how many shares are held
// rather than on how the portfolio is split.
func TestPortfolioRisk_RawQuantityWeightingIsADefect(t *testing.T) {
	p, prices := twoAssetFixture(t)
	res, err := PortfolioRisk(p, prices)
	require.NoError(t, err)

	ra := mustReturns(t, prices["AAPL"])
	rx := mustReturns(t, prices["XOM"])
	rawQty := 10*10*stat.Variance(ra, nil) + 40*40*stat.Variance(rx, nil) + 2*10*40*stat.Covariance(ra, rx, nil)
	assert.Greater(t, math.Abs(rawQty-res.Variance), 1e-6)

	var sum float64
	for _, w := range res.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	doubled := mustPortfolio(t,
		Holding{Ticker: "AAPL", Quantity: 20},
		Holding{Ticker: "XOM", Quantity: 80},
	)
	res2, err := PortfolioRisk(doubled, prices)
	require.NoError(t, err)
	assert.Equal(t, res.Score, res2.Score, "risk must not depend on position size alone")
}

// w'Σw already includes every pairwise covariance. Adding a separately summed
// covariance term counts off-diagonal risk twice.
func TestPortfolioRisk_NoDoubleCountedCovariance(t *testing.T) {
	p, prices := twoAssetFixture(t)
	res, err := PortfolioRisk(p, prices)
	require.NoError(t, err)

	ra := mustReturns(t, prices["AAPL"])
	rx := mustReturns(t, prices["XOM"])
	varA := stat.Variance(ra, nil)
	varX := stat.Variance(rx, nil)
	cov := stat.Covariance(ra, rx, nil)
	require.NotZero(t, cov)

	quadratic := res.Variance
	doubleCounted := quadratic + cov*varA*varX
	assert.Greater(t, math.Abs(doubleCounted-res.Variance), 1e-12)

	wA, wX := res.Weights[0], res.Weights[1]
	assert.InDelta(t, wA*wA*varA+wX*wX*varX+2*wA*wX*cov, res.Variance, 1e-15)
}

func TestPortfolioRisk_AlignsOnCommonDates(t *testing.T) {
	p := mustPortfolio(t,
		Holding{Ticker: "AAPL", Quantity: 1},
		Holding{Ticker: "GOOG", Quantity: 1},
	)
	// GOOG is missing day 2; the aligned window is days 0,1,3,4.
	goog := series(0, 50, 51, 52, 53, 54)
	goog = append(goog[:2:2], goog[3:]...)
	prices := map[string]PriceSeries{
		"AAPL": series(0, 100, 101, 250, 103, 104),
		"GOOG": goog,
	}
	res, err := PortfolioRisk(p, prices)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Observations)

	aligned := PriceSeries{prices["AAPL"][0], prices["AAPL"][1], prices["AAPL"][3], prices["AAPL"][4]}
	assert.InDelta(t, stat.Variance(mustReturns(t, aligned), nil), res.Covariance[0][0], 1e-15)
}

func TestPortfolioRisk_Failures(t *testing.T) {
	_, err := PortfolioRisk(Portfolio{}, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	p := mustPortfolio(t,
		Holding{Ticker: "AAPL", Quantity: 1},
		Holding{Ticker: "GOOG", Quantity: 1},
	)

	_, err = PortfolioRisk(p, map[string]PriceSeries{"AAPL": series(0, 1, 2, 3)})
	assert.ErrorIs(t, err, ErrMissingTickerData)
	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "GOOG", ae.Ticker)

	_, err = PortfolioRisk(p, map[string]PriceSeries{
		"AAPL": series(0, 1, 2, 3, 4),
		"GOOG": series(2, 1, 2, 3, 4),
	})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = PortfolioRisk(p, map[string]PriceSeries{
		"AAPL": series(0, 1, 2),
		"GOOG": series(0, 1, 2),
	})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = PortfolioRisk(p, map[string]PriceSeries{
		"AAPL": series(0, 1, 0, 3),
		"GOOG": series(0, 1, 2, 3),
	})
	assert.ErrorIs(t, err, ErrData)
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "AAPL", ae.Ticker)
	assert.Equal(t, EngineRisk, ae.Engine)

	_, err = PortfolioRisk(p, map[string]PriceSeries{
		"AAPL": series(0, 1, 2, 0),
		"GOOG": series(0, 1, 2, 0),
	})
	assert.ErrorIs(t, err, ErrDegenerateInput)
}
