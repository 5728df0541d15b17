package analytics

import (
	"fmt"
	"sort"
	"strings"
)

type Holding struct {
	Ticker   string `json:"ticker"`
	Quantity int64  `json:"quantity"`
}

// Portfolio maps tickers to share quantities. It is a value: AddHolding
// returns a new Portfolio and never modifies the receiver, so a Portfolio
// can be shared between concurrent analyses.
type Portfolio struct {
	holdings map[string]int64
}

// NewPortfolio builds a Portfolio by adding each holding in turn. Repeated
// tickers accumulate.
func NewPortfolio(holdings ...Holding) (Portfolio, error) {
	p := Portfolio{}
	for _, h := range holdings {
		next, err := p.AddHolding(h.Ticker, h.Quantity)
		if err != nil {
			return Portfolio{}, err
		}
		p = next
	}
	return p, nil
}

// AddHolding returns a copy of p with quantity added to ticker.
func (p Portfolio) AddHolding(ticker string, quantity int64) (Portfolio, error) {
	t := NormalizeTicker(ticker)
	if t == "" {
		return p, ErrInvalidTicker
	}
	if quantity <= 0 {
		return p, fmt.Errorf("%w: %s has quantity %d", ErrInvalidQuantity, t, quantity)
	}
	next := make(map[string]int64, len(p.holdings)+1)
	for k, v := range p.holdings {
		next[k] = v
	}
	next[t] += quantity
	return Portfolio{holdings: next}, nil
}

func (p Portfolio) Len() int { return len(p.holdings) }

func (p Portfolio) Quantity(ticker string) (int64, bool) {
	q, ok := p.holdings[NormalizeTicker(ticker)]
	return q, ok
}

// Tickers returns the held tickers in ascending order.
func (p Portfolio) Tickers() []string {
	out := make([]string, 0, len(p.holdings))
	for t := range p.holdings {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Holdings returns the holdings ordered by ticker. Engines iterate in this
// order so that floating point sums are reproducible.
func (p Portfolio) Holdings() []Holding {
	tickers := p.Tickers()
	out := make([]Holding, len(tickers))
	for i, t := range tickers {
		out[i] = Holding{Ticker: t, Quantity: p.holdings[t]}
	}
	return out
}

func NormalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}
