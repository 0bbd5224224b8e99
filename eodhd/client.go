// Package eodhd resolves latest quotes from the EOD Historical Data real-time
// API.
package eodhd

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/etnz/invest"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the EODHD API endpoint.
	DefaultBaseURL = "https://eodhd.com/api"
	// DefaultExchange is appended to tickers without an exchange suffix.
	DefaultExchange = "US"
)

// Client fetches quotes from EODHD. It implements invest.QuoteResolver.
type Client struct {
	apiKey     string
	exchange   string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API endpoint.
func WithBaseURL(baseURL string) Option { return func(c *Client) { c.baseURL = baseURL } }

// WithExchange sets the exchange code of tickers without a suffix.
func WithExchange(exchange string) Option { return func(c *Client) { c.exchange = exchange } }

// WithCache caches responses in the temp directory for window, to spare the
// API quota when runs are frequent.
func WithCache(window time.Duration) Option {
	return func(c *Client) {
		if window > 0 {
			c.httpClient = newCachingClient(os.TempDir(), window, c.log)
		}
	}
}

// NewClient creates a new EODHD client.
func NewClient(apiKey string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		exchange:   DefaultExchange,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With().Str("component", "eodhd").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ invest.QuoteResolver = (*Client)(nil)

// Symbol returns the EODHD symbol of a ticker: "VTI" is "VTI.US" on the
// default exchange, "AIR.PA" is kept as is.
func (c *Client) Symbol(ticker string) string {
	if strings.Contains(ticker, ".") || c.exchange == "" {
		return ticker
	}
	return ticker + "." + c.exchange
}

// ResolveQuotes fetches the latest price of all tickers in a single request.
func (c *Client) ResolveQuotes(ctx context.Context, tickers []string) (invest.Quotes, error) {
	quotes := make(invest.Quotes, len(tickers))
	if len(tickers) == 0 {
		return quotes, nil
	}
	symbols := make([]string, len(tickers))
	for i, t := range tickers {
		symbols[i] = c.Symbol(t)
	}

	prices, err := fetchRealTime(ctx, c.httpClient, c.baseURL, c.apiKey, symbols)
	if err != nil {
		return nil, err
	}
	for i, t := range tickers {
		p, ok := prices[symbols[i]]
		if !ok {
			c.log.Debug().Str("ticker", t).Str("symbol", symbols[i]).Msg("No quote")
			continue
		}
		quotes[t] = p
	}
	return quotes, nil
}
