package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is the close of one ticker on one date.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// PriceSeries is ordered by date, oldest first.
type PriceSeries []PricePoint

func (s PriceSeries) First() PricePoint { return s[0] }
func (s PriceSeries) Last() PricePoint  { return s[len(s)-1] }

// validate requires one close per calendar day, oldest first, and rejects
// negative closes. Zero closes are left to the callers since whether they
// are usable depends on position.
func (s PriceSeries) validate(engine Engine, ticker string) error {
	for i, p := range s {
		if p.Close.IsNegative() {
			return newError(engine, ErrData, ticker, "negative close %s on %s", p.Close, dayKey(p.Date))
		}
		if i > 0 && dayKey(p.Date) <= dayKey(s[i-1].Date) {
			return newError(engine, ErrData, ticker, "closes not one per day in ascending order at %s", dayKey(p.Date))
		}
	}
	return nil
}

// dayKey buckets a timestamp by its UTC calendar day, matching how the
// repository groups daily closes.
func dayKey(t time.Time) string { return t.UTC().Format("2006-01-02") }

type SecurityMetadata struct {
	Sector     string `json:"sector"`
	Industry   string `json:"industry"`
	AssetClass string `json:"asset_class"`
}

// Dimension selects the metadata axis used for diversification.
type Dimension string

const (
	DimensionSector     Dimension = "sector"
	DimensionIndustry   Dimension = "industry"
	DimensionAssetClass Dimension = "asset_class"
)

func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DimensionIndustry, nil
	case DimensionSector, DimensionIndustry, DimensionAssetClass:
		return d, nil
	case "assetclass", "asset-class":
		return DimensionAssetClass, nil
	}
	return "", fmt.Errorf("%w: unknown dimension %q", ErrInvalidOption, s)
}

func (d Dimension) Valid() bool {
	return d == DimensionSector || d == DimensionIndustry || d == DimensionAssetClass
}

// Category returns the value of m along d, or "" when it is not set.
func (m SecurityMetadata) Category(d Dimension) string {
	switch d {
	case DimensionSector:
		return strings.TrimSpace(m.Sector)
	case DimensionIndustry:
		return strings.TrimSpace(m.Industry)
	case DimensionAssetClass:
		return strings.TrimSpace(m.AssetClass)
	}
	return ""
}

// Weighting selects what a holding contributes to its diversification
// category: its share count or its latest market value.
type Weighting string

const (
	WeightByQuantity Weighting = "quantity"
	WeightByValue    Weighting = "value"
)

func (w Weighting) Valid() bool { return w == WeightByQuantity || w == WeightByValue }

func ParseWeighting(s string) (Weighting, error) {
	switch w := Weighting(strings.ToLower(strings.TrimSpace(s))); w {
	case "":
		return WeightByQuantity, nil
	case WeightByQuantity, WeightByValue:
		return w, nil
	}
	return "", fmt.Errorf("%w: unknown weighting %q", ErrInvalidOption, s)
}
