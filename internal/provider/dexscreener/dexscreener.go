package dexscreener

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/provider"
)

const DefaultBaseURL = "https://api.dexscreener.com/latest/dex"

// Pair is one raw DexScreener search result. String-typed numeric fields are
// returned as-is by the API and parsed during merging.
type Pair struct {
	Address       string       `json:"address"`
	BaseToken     BaseToken    `json:"baseToken"`
	PriceUsd      string       `json:"priceUsd"`
	PriceChange   *PriceChange `json:"priceChange"`
	Volume        *Volume      `json:"volume"`
	Liquidity     *Liquidity   `json:"liquidity"`
	FDV           *float64     `json:"fdv"`
	PairCreatedAt int64        `json:"pairCreatedAt"`
	Txns          *Txns        `json:"txns"`
	DexID         string       `json:"dexId"`
}

type BaseToken struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type PriceChange struct {
	H1  string `json:"h1"`
	H24 string `json:"h24"`
}

type Volume struct {
	H1  *float64 `json:"h1"`
	H24 *float64 `json:"h24"`
}

type Liquidity struct {
	USD *float64 `json:"usd"`
}

type Txns struct {
	H1 *TxnWindow `json:"h1"`
}

type TxnWindow struct {
	Buys  int64 `json:"buys"`
	Sells int64 `json:"sells"`
}

type searchResponse struct {
	Pairs []Pair `json:"pairs"`
}

// Client fetches token pairs from the DexScreener search API.
type Client struct {
	BaseURL string
	http    *provider.Client
}

func NewClient(http *provider.Client) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		http:    http,
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]Pair, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s", c.BaseURL, url.QueryEscape(query))

	var resp searchResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("dexscreener search %q: %w", query, err)
	}

	return resp.Pairs, nil
}
