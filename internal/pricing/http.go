package pricing

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"holdings-engine/internal/api"
	"holdings-engine/internal/types"
)

// HTTPSource fetches quotes from a finnhub-style JSON endpoint:
// GET {base}/quote?symbol={key} -> {"currentPrice": 123.45}.
type HTTPSource struct {
	client *api.Client
}

type quoteResponse struct {
	CurrentPrice float64 `json:"currentPrice"`
}

// NewHTTPSource creates a source against the given base URL. The API key,
// when set, is sent as a request token header.
func NewHTTPSource(baseURL, apiKey string, timeout time.Duration) *HTTPSource {
	opts := []api.ClientOption{
		api.WithBaseURL(baseURL),
		api.WithTimeout(timeout),
		api.WithLogging(true),
	}
	if apiKey != "" {
		opts = append(opts, api.WithHeader("X-Finnhub-Token", apiKey))
	}
	return &HTTPSource{client: api.NewClient(opts...)}
}

func (s *HTTPSource) Quote(ctx context.Context, instrumentKey string) (float64, error) {
	resp, err := s.client.GET(ctx, "/quote?symbol="+url.QueryEscape(instrumentKey))
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", instrumentKey, types.ErrPricingUnavailable, err)
	}

	var quote quoteResponse
	if err := resp.ParseJSON(&quote); err != nil {
		return 0, fmt.Errorf("%s: %w: %v", instrumentKey, types.ErrPricingUnavailable, err)
	}
	if quote.CurrentPrice <= 0 {
		return 0, fmt.Errorf("%s: %w: no price in response", instrumentKey, types.ErrPricingUnavailable)
	}
	return quote.CurrentPrice, nil
}
