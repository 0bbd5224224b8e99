package invest

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// UpdatePayee is the payee of the bulk value-update entries written by Batch.
// Only transactions with this payee may carry "$TICKER|delta" fragments.
const UpdatePayee = "Investment Value Update"

// CashTicker is the reserved pseudo-ticker of an account's cash sub-ledger.
const CashTicker = "CASH"

// ErrMalformedMemo is wrapped by every memo parsing error.
var ErrMalformedMemo = errors.New("malformed memo")

// tickerPattern accepts the symbols quote providers use, like "VTI", "BRK-B",
// "^GSPC", "EURUSD=X" or "AIR.PA".
var tickerPattern = regexp.MustCompile(`^[A-Za-z0-9^][A-Za-z0-9._=^-]*$`)

// Action is the meaning of a transaction memo.
//
// It is one of Cash, Buy, Sell, SellAll or ValueUpdate.
type Action interface {
	action()
}

// Cash is a plain cash movement: deposit, withdrawal, fee or transfer.
type Cash struct{}

// Buy is the purchase of Shares units of Ticker, memo "$TICKER|BUY <shares>".
type Buy struct {
	Ticker string
	Shares Quantity
}

// Sell is the disposal of Shares units of Ticker, memo "$TICKER|SELL <shares>".
type Sell struct {
	Ticker string
	Shares Quantity
}

// SellAll liquidates the whole position in Ticker, memo "$TICKER|SELL ALL".
type SellAll struct {
	Ticker string
}

// ValueUpdate is a bulk value-update entry: a list of book value corrections
// with no effect on share counts.
type ValueUpdate struct {
	Revaluations []Revaluation
}

// Revaluation is a book value correction of Delta milliunits for Ticker.
type Revaluation struct {
	Ticker string
	Delta  int64
}

func (Cash) action()        {}
func (Buy) action()         {}
func (Sell) action()        {}
func (SellAll) action()     {}
func (ValueUpdate) action() {}

func (a Buy) String() string     { return "$" + a.Ticker + "|BUY " + a.Shares.String() }
func (a Sell) String() string    { return "$" + a.Ticker + "|SELL " + a.Shares.String() }
func (a SellAll) String() string { return "$" + a.Ticker + "|SELL ALL" }

// String returns the memo fragment of r, as parsed by ParseValueUpdate.
func (r Revaluation) String() string {
	return "$" + r.Ticker + "|" + strconv.FormatInt(r.Delta, 10)
}

// String returns the memo of a bulk value-update entry.
func (v ValueUpdate) String() string {
	parts := make([]string, len(v.Revaluations))
	for i, r := range v.Revaluations {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

// ParseAction classifies a transaction by its payee and memo.
//
// Transactions paid to UpdatePayee are parsed by ParseValueUpdate: the
// returned ValueUpdate holds the valid fragments even when err is not nil.
// Other memos of the form "$TICKER|ACTION" must follow the trade grammar, and
// anything else, "$" prefixed text without '|' included, is Cash. Errors wrap
// ErrMalformedMemo.
func ParseAction(tx Transaction) (Action, error) {
	if tx.PayeeName == UpdatePayee {
		v, errs := ParseValueUpdate(tx.Memo)
		return v, errors.Join(errs...)
	}
	memo := strings.TrimSpace(tx.Memo)
	if !strings.HasPrefix(memo, "$") {
		return Cash{}, nil
	}
	ticker, verb, found := strings.Cut(memo[1:], "|")
	if !found {
		return Cash{}, nil
	}
	ticker = strings.TrimSpace(ticker)
	if err := checkTicker(ticker); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrMalformedMemo, tx.Memo, err)
	}

	fields := strings.Fields(verb)
	switch {
	case len(fields) == 2 && fields[0] == "SELL" && fields[1] == "ALL":
		return SellAll{Ticker: ticker}, nil
	case len(fields) == 2 && fields[0] == "BUY":
		q, err := parseShares(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrMalformedMemo, tx.Memo, err)
		}
		return Buy{Ticker: ticker, Shares: q}, nil
	case len(fields) == 2 && fields[0] == "SELL":
		q, err := parseShares(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrMalformedMemo, tx.Memo, err)
		}
		return Sell{Ticker: ticker, Shares: q}, nil
	case len(fields) == 1 && isInteger(fields[0]):
		return nil, fmt.Errorf("%w %q: value update outside of a %q entry", ErrMalformedMemo, tx.Memo, UpdatePayee)
	default:
		return nil, fmt.Errorf("%w %q: unknown action %q", ErrMalformedMemo, tx.Memo, strings.TrimSpace(verb))
	}
}

// ParseValueUpdate parses a comma separated list of "$TICKER|delta"
// fragments. The leading "$" is optional.
//
// Malformed fragments are reported in errs and left out of the result, the
// valid ones are kept. An empty memo is an empty update.
func ParseValueUpdate(memo string) (v ValueUpdate, errs []error) {
	if strings.TrimSpace(memo) == "" {
		return v, nil
	}
	for _, fragment := range strings.Split(memo, ",") {
		r, err := parseRevaluation(fragment)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		v.Revaluations = append(v.Revaluations, r)
	}
	return v, errs
}

func parseRevaluation(fragment string) (Revaluation, error) {
	s := strings.TrimPrefix(strings.TrimSpace(fragment), "$")
	ticker, delta, found := strings.Cut(s, "|")
	if !found {
		return Revaluation{}, fmt.Errorf("%w: fragment %q: missing '|'", ErrMalformedMemo, fragment)
	}
	ticker = strings.TrimSpace(ticker)
	if err := checkTicker(ticker); err != nil {
		return Revaluation{}, fmt.Errorf("%w: fragment %q: %w", ErrMalformedMemo, fragment, err)
	}
	d, err := strconv.ParseInt(strings.TrimSpace(delta), 10, 64)
	if err != nil {
		return Revaluation{}, fmt.Errorf("%w: fragment %q: invalid delta: %w", ErrMalformedMemo, fragment, err)
	}
	return Revaluation{Ticker: ticker, Delta: d}, nil
}

func checkTicker(ticker string) error {
	if ticker == CashTicker {
		return fmt.Errorf("ticker %q is reserved", ticker)
	}
	if !tickerPattern.MatchString(ticker) {
		return fmt.Errorf("invalid ticker %q", ticker)
	}
	return nil
}

// parseShares parses a strictly positive share count.
func parseShares(s string) (Quantity, error) {
	q, err := ParseQuantity(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid share count %q", s)
	}
	if !q.IsPositive() {
		return Quantity{}, fmt.Errorf("share count %q must be positive", s)
	}
	return q, nil
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
