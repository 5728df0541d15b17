package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleReturns(t *testing.T) {
	s := series(0, 100, 110, 99)
	r, err := SimpleReturns(s)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []float64{0.1, -0.1}, r.Values)
	assert.Equal(t, s[1].Date, r.Dates[0])
	assert.Equal(t, s[2].Date, r.Dates[1])
}

func TestSimpleReturns_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   PriceSeries
		kind error
	}{
		{"empty", nil, ErrInsufficientData},
		{"single point", series(0, 100), ErrInsufficientData},
		{"zero denominator", series(0, 100, 0, 50), ErrData},
		{"negative close", series(0, 100, -1, 50), ErrData},
		{"out of order", PriceSeries{series(1, 100)[0], series(0, 101)[0]}, ErrData},
		{"same day twice", PriceSeries{series(0, 100)[0], series(0, 101)[0]}, ErrData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimpleReturns(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var ae *Error
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, EngineReturns, ae.Engine)
		})
	}
}

func TestSimpleReturns_ZeroLastCloseAllowed(t *testing.T) {
	r, err := SimpleReturns(series(0, 100, 0))
	require.NoError(t, err)
	assert.Equal(t, []float64{-1}, r.Values)
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.234568, roundTo(1.2345675, 6))
	assert.Equal(t, -0.5, roundTo(-0.5, 6))
	assert.Equal(t, 10.0, roundTo(9.9999999, 6))
}
