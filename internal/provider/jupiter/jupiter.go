package jupiter

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/provider"
)

const (
	DefaultBaseURL = "https://lite-api.jup.ag/tokens/v2/search"

	// SourceID identifies Jupiter in merged sourceIds.
	SourceID = "jupiter"
)

// Token is one raw Jupiter search result.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Info    Info   `json:"info"`
}

type Info struct {
	PriceInfo   *PriceInfo `json:"priceInfo"`
	MarketCap   *float64   `json:"marketCap"`
	DailyVolume *float64   `json:"dailyVolume"`
}

type PriceInfo struct {
	PricePerToken *float64     `json:"pricePerToken"`
	PriceChange   *PriceChange `json:"priceChange"`
}

type PriceChange struct {
	Hour *float64 `json:"hour"`
	Day  *float64 `json:"day"`
	Week *float64 `json:"week"`
}

type searchResponse struct {
	Data []Token `json:"data"`
}

// Client fetches tokens from the Jupiter lite search API.
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

func (c *Client) Search(ctx context.Context, query string) ([]Token, error) {
	endpoint := fmt.Sprintf("%s?query=%s", c.BaseURL, url.QueryEscape(query))

	var resp searchResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("jupiter search %q: %w", query, err)
	}

	return resp.Data, nil
}
