package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API.

// fetchRealTime returns the latest price of EODHD symbols ("SYMBOL.EXCHANGE").
// Symbols without a price are absent from the result.
func fetchRealTime(ctx context.Context, client *http.Client, baseURL, apiKey string, symbols []string) (map[string]decimal.Decimal, error) {
	// https://eodhd.com/api/real-time/AAPL.US?s=VTI.US,BND.US&api_token=demo&fmt=json
	//
	// A single symbol answers an object, several an array of:
	//	{
	//		"code": "AAPL.US",
	//		"timestamp": 1716580800,
	//		"open": 188.82,
	//		"close": 189.98,
	//		"previousClose": 186.88,
	//		...
	//	}
	// Unknown symbols answer "NA" values.
	if len(symbols) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("api_token", apiKey)
	q.Set("fmt", "json")
	if len(symbols) > 1 {
		q.Set("s", strings.Join(symbols[1:], ","))
	}
	addr := fmt.Sprintf("%s/real-time/%s?%s", baseURL, url.PathEscape(symbols[0]), q.Encode())

	var content any
	if err := jwget(ctx, client, addr, &content); err != nil {
		return nil, fmt.Errorf("eodhd: real-time quotes: %w", err)
	}
	items, ok := content.([]any)
	if !ok {
		items = []any{content}
	}

	prices := make(map[string]decimal.Decimal, len(items))
	for _, item := range items {
		code, err := jsonpath.Get("$.code", item)
		if err != nil {
			continue
		}
		symbol, ok := code.(string)
		if !ok {
			continue
		}
		last, err := jsonpath.Get("$.close", item)
		if err != nil {
			continue
		}
		n, ok := last.(json.Number)
		if !ok {
			continue // "NA"
		}
		price, err := decimal.NewFromString(n.String())
		if err != nil || !price.IsPositive() {
			continue
		}
		prices[symbol] = price
	}
	return prices, nil
}
