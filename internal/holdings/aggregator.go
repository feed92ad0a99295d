package holdings

import (
	"context"
	"fmt"

	"holdings-engine/internal/logger"
	"holdings-engine/internal/types"
)

// Aggregate folds a transaction ledger into current positions, keyed by
// instrument. Only Buy records build positions: Sell records affect
// quantity solely through the reconciliation flow, which keeps the Buy
// record's share count consistent when a sale is recorded.
//
// Malformed records are excluded and reported in the skipped list; they
// never fail the whole pass.
func Aggregate(ctx context.Context, records []types.TransactionRecord) (map[string]types.Position, []string) {
	positions := make(map[string]types.Position)
	var skipped []string

	for _, rec := range records {
		if rec.TransactionType != types.Buy {
			continue
		}

		if errs := types.Validate(rec); len(errs) > 0 {
			reason := fmt.Sprintf("record %s: %v", rec.ID, errs[0])
			skipped = append(skipped, reason)
			logger.Warn(ctx, "Skipping malformed ledger record",
				"record_id", rec.ID,
				"instrument_type", string(rec.Type),
				"reason", errs[0].Error(),
			)
			continue
		}

		qty, cost := recordQuantityCost(rec)

		key := rec.InstrumentKey()
		pos, ok := positions[key]
		if !ok {
			pos = types.Position{
				InstrumentKey: key,
				Type:          rec.Type,
				PurchaseDate:  rec.PurchaseDate,
			}
		}
		pos.Quantity += qty
		pos.Cost += cost
		pos.Records++
		if rec.PurchaseDate != "" && (pos.PurchaseDate == "" || rec.PurchaseDate < pos.PurchaseDate) {
			pos.PurchaseDate = rec.PurchaseDate
		}
		if pos.Quantity > 0 {
			pos.UnitPrice = pos.Cost / pos.Quantity
		} else {
			pos.UnitPrice = pos.Cost
		}
		positions[key] = pos
	}

	return positions, skipped
}

// recordQuantityCost applies the instrument-specific quantity and
// cost-basis formulas to one validated Buy record.
func recordQuantityCost(rec types.TransactionRecord) (qty, cost float64) {
	switch rec.Type {
	case types.Stock:
		qty = rec.NumberOfShares
		cost = rec.PurchasePrice * rec.NumberOfShares
	case types.MutualFund:
		if rec.AmountType == types.Rupees {
			qty = rec.Amount / rec.Price
		} else {
			qty = rec.Amount
		}
		cost = qty * rec.Price
	case types.GoldBond:
		qty = rec.Units
		cost = rec.Units * rec.Price
	case types.Bond:
		// A bond holding is the lump amount itself, not a unit count.
		cost = rec.InvestmentAmount
	}
	return qty, cost
}

// Valuate annotates a position with a current market price. A nil price
// leaves the valuation pending: every derived field stays nil rather than
// reading as zero.
func Valuate(pos types.Position, currentPrice *float64) types.ValuationSnapshot {
	snap := types.ValuationSnapshot{Position: pos}
	if currentPrice == nil {
		return snap
	}

	price := *currentPrice
	var value float64
	if pos.Type == types.Bond {
		// The quote for a lump bond position is its current worth.
		value = price
	} else {
		value = price * pos.Quantity
	}
	gainLoss := value - pos.Cost

	snap.CurrentPrice = &price
	snap.CurrentValue = &value
	snap.GainLoss = &gainLoss
	if pos.Cost != 0 {
		pct := gainLoss / pos.Cost * 100
		snap.GainLossPercentage = &pct
	}
	return snap
}
