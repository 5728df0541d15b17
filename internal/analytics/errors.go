package analytics

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientData  = errors.New("insufficient data")
	ErrMissingTickerData = errors.New("missing ticker data")
	ErrDegenerateInput   = errors.New("degenerate input")
	ErrData              = errors.New("invalid price data")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInvalidTicker     = errors.New("ticker must not be empty")
	ErrInvalidOption     = errors.New("invalid option")
)

// Engine names the computation that produced an Error.
type Engine string

const (
	EngineReturns         Engine = "returns"
	EngineGrowth          Engine = "growth"
	EngineRisk            Engine = "risk"
	EngineDiversification Engine = "diversification"
)

// Error is the typed failure returned by every engine. Kind is one of the
// package sentinel errors, so callers can use errors.Is on it.
type Error struct {
	Engine Engine
	Kind   error
	Ticker string
	Detail string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Engine, e.Kind)
	if e.Ticker != "" {
		msg += " (" + e.Ticker + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(engine Engine, kind error, ticker, format string, args ...interface{}) *Error {
	return &Error{Engine: engine, Kind: kind, Ticker: ticker, Detail: fmt.Sprintf(format, args...)}
}

// reattribute copies err onto engine and ticker when it is an *Error raised
// by a lower-level calculation.
func reattribute(err error, engine Engine, ticker string) error {
	var ae *Error
	if !errors.As(err, &ae) {
		return err
	}
	out := *ae
	out.Engine = engine
	if out.Ticker == "" {
		out.Ticker = ticker
	}
	return &out
}

// KindName returns a stable identifier for the kind of err, suitable for
// JSON responses.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrMissingTickerData):
		return "missing_ticker_data"
	case errors.Is(err, ErrDegenerateInput):
		return "degenerate_input"
	case errors.Is(err, ErrData):
		return "data_error"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrInvalidTicker):
		return "invalid_ticker"
	case errors.Is(err, ErrInvalidOption):
		return "invalid_option"
	default:
		return "internal"
	}
}

// Explain renders err as a plain-language sentence for end users.
func Explain(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	ticker := ""
	if errors.As(err, &ae) && ae.Ticker != "" {
		ticker = ae.Ticker
	}
	switch {
	case errors.Is(err, ErrInsufficientData):
		if ticker != "" {
			return fmt.Sprintf("Not enough price history for %s to compute this figure.", ticker)
		}
		return "Not enough overlapping price history to compute this figure."
	case errors.Is(err, ErrMissingTickerData):
		if ae != nil && ae.Engine == EngineDiversification {
			return fmt.Sprintf("Classification data for %s could not be loaded.", ticker)
		}
		return fmt.Sprintf("No price data is available for %s.", ticker)
	case errors.Is(err, ErrDegenerateInput):
		return "The portfolio is empty or has no cost basis, so this figure cannot be computed."
	case errors.Is(err, ErrData):
		if ticker != "" {
			return fmt.Sprintf("The price data for %s is invalid.", ticker)
		}
		return "The price data is invalid."
	case errors.Is(err, ErrInvalidQuantity):
		return "Quantities must be positive whole numbers."
	case errors.Is(err, ErrInvalidTicker):
		return "A ticker symbol is required."
	case errors.Is(err, ErrInvalidOption):
		return "The requested analysis option is not supported."
	default:
		return "This figure could not be computed."
	}
}
