package pricing

import (
	"context"
	"fmt"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"holdings-engine/internal/types"
)

// KiteSource quotes listed instruments through the Zerodha Kite Connect
// LTP API. Instrument keys are plain trading symbols; the exchange prefix
// is added here.
type KiteSource struct {
	kc       *kiteconnect.Client
	exchange string
}

func NewKiteSource(apiKey, accessToken, exchange string) *KiteSource {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	if exchange == "" {
		exchange = "NSE"
	}
	return &KiteSource{kc: kc, exchange: exchange}
}

func (s *KiteSource) Quote(ctx context.Context, instrumentKey string) (float64, error) {
	instrument := s.exchange + ":" + instrumentKey

	quotes, err := s.kc.GetLTP(instrument)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", instrumentKey, types.ErrPricingUnavailable, err)
	}

	quote, ok := quotes[instrument]
	if !ok || quote.LastPrice <= 0 {
		return 0, fmt.Errorf("%s: %w: no LTP returned", instrumentKey, types.ErrPricingUnavailable)
	}
	return quote.LastPrice, nil
}
