// Package yahoo resolves latest quotes from the Yahoo Finance chart API.
package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/invest"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBaseURL is the Yahoo Finance query endpoint.
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	// DefaultUserAgent is a browser-like user agent, the API rejects default
	// Go clients.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	pricePath = "$.chart.result[0].meta.regularMarketPrice"
)

// Client fetches quotes, one chart request per ticker. It implements
// invest.QuoteResolver.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	concurrency int // maximum number of requests in flight.
	log         zerolog.Logger
}

// NewClient creates a new Yahoo Finance client. An empty baseURL means
// DefaultBaseURL.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		concurrency: 4,
		log:         log.With().Str("component", "yahoo").Logger(),
	}
}

var _ invest.QuoteResolver = (*Client)(nil)

// ResolveQuotes fetches the regular market price of tickers. Unknown tickers
// are left out of the result, any other failure aborts and is returned.
func (c *Client) ResolveQuotes(ctx context.Context, tickers []string) (invest.Quotes, error) {
	var mu sync.Mutex
	quotes := make(invest.Quotes, len(tickers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, ticker := range tickers {
		g.Go(func() error {
			price, found, err := c.Quote(ctx, ticker)
			if err != nil {
				return err
			}
			if !found {
				c.log.Debug().Str("ticker", ticker).Msg("No quote")
				return nil
			}
			mu.Lock()
			quotes[ticker] = price
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return quotes, nil
}

// Quote fetches the regular market price of a single ticker. found is false
// when Yahoo does not know the ticker.
func (c *Client) Quote(ctx context.Context, ticker string) (price decimal.Decimal, found bool, err error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return price, false, fmt.Errorf("yahoo: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return price, false, fmt.Errorf("yahoo: cannot get %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return price, false, fmt.Errorf("yahoo: cannot read %s: %w", ticker, err)
	}
	c.log.Debug().Str("ticker", ticker).Int("status", resp.StatusCode).Msg("Chart")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return price, false, nil
	case resp.StatusCode != http.StatusOK:
		return price, false, fmt.Errorf("yahoo: cannot get %s: %v", ticker, resp.Status)
	}

	var jobj any
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	if err := dec.Decode(&jobj); err != nil {
		return price, false, fmt.Errorf("yahoo: invalid response for %s: %w", ticker, err)
	}
	return extractPrice(jobj, pricePath)
}

// extractPrice reads a positive price at path in jobj. A missing value is
// not an error.
func extractPrice(jobj any, path string) (decimal.Decimal, bool, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		// unknown key or null result.
		return decimal.Decimal{}, false, nil
	}
	// jsonpath may answer a list of one value.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return decimal.Decimal{}, false, nil
		}
		jval = jlist[0]
	}

	var price decimal.Decimal
	switch v := jval.(type) {
	case json.Number:
		price, err = decimal.NewFromString(v.String())
	case float64:
		price = decimal.NewFromFloat(v)
	case nil:
		return decimal.Decimal{}, false, nil
	default:
		err = fmt.Errorf("not a number: %v", jval)
	}
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("yahoo: error parsing %q: %w", path, err)
	}
	if !price.IsPositive() {
		return decimal.Decimal{}, false, nil
	}
	return price, true, nil
}
