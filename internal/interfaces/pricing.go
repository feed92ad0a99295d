package interfaces

import "context"

// PriceSource supplies the current market price for one instrument.
// Lookups fail independently per instrument; a failure degrades that
// position's valuation to pending and must not block the others.
type PriceSource interface {
	Quote(ctx context.Context, instrumentKey string) (float64, error)
}
