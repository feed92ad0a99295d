// Package export projects a valuation snapshot into the flat tabular
// record set handed to an export sink.
package export

import (
	"github.com/shopspring/decimal"

	"holdings-engine/internal/types"
)

// Placeholder serialized for any value that is absent or pending. Never a
// zero: a pending valuation and a worthless position must stay
// distinguishable in the exported file.
const Placeholder = "-"

// Format derives the export table from already-valued snapshots. It never
// recomputes from raw ledger fields: the displayed view and the exported
// file must come from the same calculation path, so the snapshot is the
// single source for every figure here.
func Format(snapshots []types.ValuationSnapshot) []types.ExportRow {
	rows := make([]types.ExportRow, 0, len(snapshots))
	for _, snap := range snapshots {
		rows = append(rows, formatRow(snap))
	}
	return rows
}

func formatRow(snap types.ValuationSnapshot) types.ExportRow {
	row := types.ExportRow{
		Symbol:        snap.InstrumentKey,
		Type:          string(snap.Type),
		Quantity:      quantityCell(snap.Position),
		PurchasePrice: money(snap.UnitPrice),
		PurchaseDate:  orPlaceholder(snap.PurchaseDate),
		CurrentPrice:  Placeholder,
		CurrentValue:  Placeholder,
		GainLoss:      Placeholder,
	}
	if snap.InstrumentKey == "" {
		row.Symbol = "N/A"
	}

	if !snap.Pending() {
		row.CurrentPrice = money(*snap.CurrentPrice)
		row.CurrentValue = money(*snap.CurrentValue)
		row.GainLoss = money(*snap.GainLoss)
	}
	return row
}

// quantityCell renders the held quantity. Bonds are lump amounts with no
// unit count, so the cell stays a placeholder.
func quantityCell(pos types.Position) string {
	if pos.Type == types.Bond {
		return Placeholder
	}
	return decimal.NewFromFloat(pos.Quantity).Round(2).String()
}

// money renders a monetary value with two fixed decimals.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
