package export

import (
	"testing"

	"holdings-engine/internal/types"
)

func priced(pos types.Position, price float64) types.ValuationSnapshot {
	snap := types.ValuationSnapshot{Position: pos}
	var value float64
	if pos.Type == types.Bond {
		value = price
	} else {
		value = price * pos.Quantity
	}
	gain := value - pos.Cost
	snap.CurrentPrice = &price
	snap.CurrentValue = &value
	snap.GainLoss = &gain
	return snap
}

func TestFormat(t *testing.T) {
	snaps := []types.ValuationSnapshot{
		priced(types.Position{
			InstrumentKey: "RELIANCE", Type: types.Stock,
			Quantity: 10, Cost: 28505, UnitPrice: 2850.5, PurchaseDate: "2025-04-01",
		}, 3000),
		priced(types.Position{
			InstrumentKey: "HDFC Flexi Cap Fund", Type: types.MutualFund,
			Quantity: 34.4767, Cost: 50000, UnitPrice: 1450.25, PurchaseDate: "2025-05-12",
		}, 1500),
		priced(types.Position{
			InstrumentKey: "NHAI Tax Free 2030", Type: types.Bond,
			Cost: 100000, UnitPrice: 100000, PurchaseDate: "2025-01-15",
		}, 108000),
		{
			// Quote never arrived: every valuation cell stays a placeholder.
			Position: types.Position{
				InstrumentKey: "SGB 2031 Series II", Type: types.GoldBond,
				Quantity: 8, Cost: 50000, UnitPrice: 6250, PurchaseDate: "2025-03-20",
			},
		},
	}

	rows := Format(snaps)
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}

	want := []types.ExportRow{
		{
			Symbol: "RELIANCE", Type: "Stock", Quantity: "10",
			PurchasePrice: "2850.50", PurchaseDate: "2025-04-01",
			CurrentPrice: "3000.00", CurrentValue: "30000.00", GainLoss: "1495.00",
		},
		{
			Symbol: "HDFC Flexi Cap Fund", Type: "MutualFund", Quantity: "34.48",
			PurchasePrice: "1450.25", PurchaseDate: "2025-05-12",
			CurrentPrice: "1500.00", CurrentValue: "51715.05", GainLoss: "1715.05",
		},
		{
			Symbol: "NHAI Tax Free 2030", Type: "Bond", Quantity: "-",
			PurchasePrice: "100000.00", PurchaseDate: "2025-01-15",
			CurrentPrice: "108000.00", CurrentValue: "108000.00", GainLoss: "8000.00",
		},
		{
			Symbol: "SGB 2031 Series II", Type: "GoldBond", Quantity: "8",
			PurchasePrice: "6250.00", PurchaseDate: "2025-03-20",
			CurrentPrice: "-", CurrentValue: "-", GainLoss: "-",
		},
	}

	for i, w := range want {
		if rows[i] != w {
			t.Errorf("Row %d mismatch:\n got  %+v\n want %+v", i, rows[i], w)
		}
	}
}

func TestFormatMissingSymbol(t *testing.T) {
	rows := Format([]types.ValuationSnapshot{
		{Position: types.Position{Type: types.Stock, Quantity: 1}},
	})
	if rows[0].Symbol != "N/A" {
		t.Errorf("Expected N/A fallback, got %q", rows[0].Symbol)
	}
}

func TestFormatPendingNeverZero(t *testing.T) {
	rows := Format([]types.ValuationSnapshot{
		{Position: types.Position{InstrumentKey: "INFY", Type: types.Stock, Quantity: 20, Cost: 30000}},
	})
	row := rows[0]
	for _, cell := range []string{row.CurrentPrice, row.CurrentValue, row.GainLoss} {
		if cell != Placeholder {
			t.Errorf("Expected placeholder for pending cell, got %q", cell)
		}
		if cell == "0.00" || cell == "0" {
			t.Error("A pending valuation must never read as zero")
		}
	}
}

func TestFormatEmpty(t *testing.T) {
	if rows := Format(nil); len(rows) != 0 {
		t.Errorf("Expected empty table, got %d rows", len(rows))
	}
}
