// Package renderer renders sync reports and account holdings as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/invest"
	"github.com/etnz/invest/date"
)

//go:embed templates/*.md
var embedded embed.FS

// templates holds one assembly template per report, and its partials named
// after the assembly with a "_" suffix.
var templates, _ = fs.Sub(embedded, "templates")

// Holdings is the view of an account positions, with their market value when
// quoted.
type Holdings struct {
	Account   string
	Date      date.Date
	Currency  string
	Positions []Position
	Cash      Position
	Book      invest.Money // Book is the total book value, cash and closed positions included.
	Market    invest.Money // Market is the book value once adjusted.
	Delta     invest.Money
}

// Position is a single line of Holdings.
type Position struct {
	Ticker string
	Shares invest.Quantity
	Book   invest.Money
	Price  invest.Money
	Market invest.Money
	Delta  invest.Money
	Quoted bool
}

// NewHoldings creates the view of h. Open positions are listed by ticker,
// closed ones are omitted. Quotes can be nil.
func NewHoldings(account string, on date.Date, h invest.Holdings, q invest.Quotes) *Holdings {
	cur := h.Cash().Book.Currency()
	deltas, _ := invest.Reconcile(h, q)
	delta := make(map[string]invest.Money, len(deltas))
	for _, d := range deltas {
		delta[d.Ticker] = invest.Milli(d.Amount, cur)
	}
	position := func(hh invest.Holding) Position {
		p := Position{
			Ticker: hh.Ticker,
			Shares: hh.Shares,
			Book:   hh.Book,
			Delta:  delta[hh.Ticker].WithCurrency(cur),
		}
		if price, ok := q.Price(hh.Ticker); ok && price.IsPositive() {
			p.Quoted = true
			p.Price = invest.M(price, cur)
			p.Market = hh.Book.Add(p.Delta)
		}
		return p
	}

	v := &Holdings{
		Account:  account,
		Date:     on,
		Currency: cur,
		Cash:     position(h.Cash()),
		Book:     h.Total(),
	}
	for _, t := range h.Open() {
		v.Positions = append(v.Positions, position(*h.Get(t)))
	}
	v.Delta = v.Cash.Delta
	for _, p := range v.Positions {
		v.Delta = v.Delta.Add(p.Delta)
	}
	v.Market = v.Book.Add(v.Delta)
	return v
}

// Report is the view of a sync run.
type Report struct {
	RunID       string
	Budget      string
	Currency    string
	Date        date.Date
	Status      string
	Accounts    []*Holdings
	Adjustments []Adjustment
	Warnings    []string
}

// Adjustment is a line of the adjustments table.
type Adjustment struct {
	Account string
	Date    date.Date
	Amount  invest.Money
	Memo    string // Memo is escaped for table cells.
}

// NewReport creates the view of a sync run.
func NewReport(r *invest.Report) *Report {
	v := &Report{
		RunID:    r.RunID,
		Budget:   r.Budget.Name,
		Currency: r.Budget.Currency,
		Date:     r.Date,
	}
	names := make(map[string]string, len(r.Accounts))
	for _, a := range r.Accounts {
		names[a.Account.ID] = a.Account.Name
		v.Accounts = append(v.Accounts, NewHoldings(a.Account.Name, r.Date, a.Holdings, r.Quotes))
	}
	for _, a := range r.Adjustments() {
		v.Adjustments = append(v.Adjustments, Adjustment{
			Account: names[a.AccountID],
			Date:    a.Date,
			Amount:  invest.Milli(a.Amount, r.Budget.Currency),
			Memo:    strings.ReplaceAll(a.Memo, "|", `\|`),
		})
	}
	for _, w := range r.Warnings {
		v.Warnings = append(v.Warnings, w.String())
	}

	switch n := len(v.Adjustments); {
	case n == 0:
		v.Status = "No updates needed."
	case r.Submitted:
		v.Status = fmt.Sprintf("Submitted %d adjustment(s).", n)
	default:
		v.Status = fmt.Sprintf("Dry run: %d adjustment(s) not submitted.", n)
	}
	return v
}

// RenderHoldings renders the Holdings struct to a markdown string.
func RenderHoldings(h *Holdings) string {
	partials := map[string]string{
		"holdings_title":     "holdings_title.md",
		"holdings_positions": "holdings_positions.md",
	}
	return renderTemplate("holdings", "holdings.md", partials, h)
}

// RenderReport renders the Report struct to a markdown string.
func RenderReport(r *Report) string {
	partials := map[string]string{
		"sync_title":         "sync_title.md",
		"sync_adjustments":   "sync_adjustments.md",
		"sync_warnings":      "sync_warnings.md",
		"holdings_title":     "holdings_title.md",
		"holdings_positions": "holdings_positions.md",
	}
	return renderTemplate("sync", "sync.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
