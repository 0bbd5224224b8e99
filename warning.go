package invest

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingQuote reports an open position with no resolvable quote.
	ErrMissingQuote = errors.New("no quote")
	// ErrOversizedFragment reports a memo fragment longer than MaxMemoLength.
	ErrOversizedFragment = errors.New("memo fragment too long")
)

// WarningKind classifies data quality warnings.
type WarningKind int

const (
	WarnMalformedMemo WarningKind = iota
	WarnMissingQuote
	WarnOversizedFragment
)

func (k WarningKind) String() string {
	switch k {
	case WarnMalformedMemo:
		return "malformed-memo"
	case WarnMissingQuote:
		return "missing-quote"
	case WarnOversizedFragment:
		return "oversized-fragment"
	default:
		return "unknown"
	}
}

// Warning is a data quality condition met during a run. It never aborts the
// run: the faulty item is skipped and processing continues.
type Warning struct {
	Kind    WarningKind
	Account string // Account is the name of the account, if known.
	Ticker  string
	Err     error
}

func (w Warning) String() string {
	s := w.Kind.String()
	if w.Account != "" {
		s += " [" + w.Account + "]"
	}
	if w.Ticker != "" {
		s += " " + w.Ticker
	}
	if w.Err != nil {
		s += ": " + w.Err.Error()
	}
	return s
}

// Unwrap returns the underlying error.
func (w Warning) Unwrap() error { return w.Err }

// Error implements the error interface so that a Warning can be logged as
// one.
func (w Warning) Error() string { return w.String() }

// inAccount returns ws with Account set to name.
func inAccount(ws []Warning, name string) []Warning {
	for i := range ws {
		ws[i].Account = name
	}
	return ws
}

func warnf(kind WarningKind, ticker string, format string, args ...any) Warning {
	return Warning{Kind: kind, Ticker: ticker, Err: fmt.Errorf(format, args...)}
}
