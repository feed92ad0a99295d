// Package pricing provides the market quote collaborators. Every source
// implements interfaces.PriceSource: one lookup per instrument, failing
// independently so one dead quote never blocks a valuation pass.
package pricing

import (
	"context"
	"fmt"

	"holdings-engine/internal/types"
)

// StaticSource serves quotes from a fixed table. Used for DRY_RUN style
// operation and in tests, where valuations must be deterministic.
type StaticSource struct {
	prices map[string]float64
}

func NewStaticSource(prices map[string]float64) *StaticSource {
	if prices == nil {
		prices = make(map[string]float64)
	}
	return &StaticSource{prices: prices}
}

func (s *StaticSource) Quote(ctx context.Context, instrumentKey string) (float64, error) {
	price, ok := s.prices[instrumentKey]
	if !ok {
		return 0, fmt.Errorf("%s: %w", instrumentKey, types.ErrPricingUnavailable)
	}
	return price, nil
}
