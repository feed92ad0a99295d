package holdings

import (
	"context"
	"math"
	"testing"

	"holdings-engine/internal/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateStockFold(t *testing.T) {
	records := []types.TransactionRecord{
		{Type: types.Stock, TransactionType: types.Buy, StockName: "RELIANCE", NumberOfShares: 10, PurchasePrice: 2800, PurchaseDate: "2025-04-01"},
		{Type: types.Stock, TransactionType: types.Buy, StockName: "RELIANCE", NumberOfShares: 5, PurchasePrice: 2900, PurchaseDate: "2025-03-15"},
	}

	positions, skipped := Aggregate(context.Background(), records)
	if len(skipped) != 0 {
		t.Fatalf("Expected no skips, got %v", skipped)
	}

	pos, ok := positions["RELIANCE"]
	if !ok {
		t.Fatal("Expected RELIANCE position")
	}
	if pos.Quantity != 15 {
		t.Errorf("Expected quantity 15, got %f", pos.Quantity)
	}
	wantCost := 10*2800.0 + 5*2900.0
	if !almostEqual(pos.Cost, wantCost) {
		t.Errorf("Expected cost %f, got %f", wantCost, pos.Cost)
	}
	if !almostEqual(pos.UnitPrice, wantCost/15) {
		t.Errorf("Expected average unit price %f, got %f", wantCost/15, pos.UnitPrice)
	}
	if pos.PurchaseDate != "2025-03-15" {
		t.Errorf("Expected earliest purchase date, got %s", pos.PurchaseDate)
	}
	if pos.Records != 2 {
		t.Errorf("Expected 2 folded records, got %d", pos.Records)
	}
}

func TestAggregateMutualFundRupees(t *testing.T) {
	records := []types.TransactionRecord{
		{Type: types.MutualFund, TransactionType: types.Buy, SchemeName: "HDFC Flexi Cap Fund", Amount: 50000, AmountType: types.Rupees, Price: 1250},
	}

	positions, _ := Aggregate(context.Background(), records)
	pos := positions["HDFC Flexi Cap Fund"]

	wantQty := 50000.0 / 1250.0
	if !almostEqual(pos.Quantity, wantQty) {
		t.Errorf("Expected %f units, got %f", wantQty, pos.Quantity)
	}
	// Cost derives from units times NAV, so a rupee investment folds back
	// to the amount invested.
	if !almostEqual(pos.Cost, 50000) {
		t.Errorf("Expected cost 50000, got %f", pos.Cost)
	}
}

func TestAggregateMutualFundUnits(t *testing.T) {
	records := []types.TransactionRecord{
		{Type: types.MutualFund, TransactionType: types.Buy, SchemeName: "Axis Bluechip", Amount: 40, AmountType: types.Units, Price: 55.5},
	}

	positions, _ := Aggregate(context.Background(), records)
	pos := positions["Axis Bluechip"]

	if pos.Quantity != 40 {
		t.Errorf("Expected 40 units, got %f", pos.Quantity)
	}
	if !almostEqual(pos.Cost, 40*55.5) {
		t.Errorf("Expected cost %f, got %f", 40*55.5, pos.Cost)
	}
}

func TestAggregateGoldBond(t *testing.T) {
	records := []types.TransactionRecord{
		{Type: types.GoldBond, TransactionType: types.Buy, FixedIncomeName: "SGB 2031 Series II", Units: 8, Price: 6250},
	}

	positions, _ := Aggregate(context.Background(), records)
	pos := positions["SGB 2031 Series II"]

	if pos.Quantity != 8 {
		t.Errorf("Expected 8 units, got %f", pos.Quantity)
	}
	if !almostEqual(pos.Cost, 8*6250.0) {
		t.Errorf("Expected cost %f, got %f", 8*6250.0, pos.Cost)
	}
}

func TestAggregateBondNoQuantity(t *testing.T) {
	records := []types.TransactionRecord{
		{Type: types.Bond, TransactionType: types.Buy, FixedIncomeName: "NHAI Tax Free 2030", InvestmentAmount: 100000},
	}

	positions, _ := Aggregate(context.Background(), records)
	pos := positions["NHAI Tax Free 2030"]

	if pos.Quantity != 0 {
		t.Errorf("Expected no unit quantity for bond, got %f", pos.Quantity)
	}
	if pos.Cost != 100000 {
		t.Errorf("Expected cost 100000, got %f", pos.Cost)
	}
	// With no quantity the unit price reads as the lump cost.
	if pos.UnitPrice != 100000 {
		t.Errorf("Expected unit price 100000, got %f", pos.UnitPrice)
	}
}

func TestAggregateIgnoresSellRecords(t *testing.T) {
	price := 3000.0
	records := []types.TransactionRecord{
		{Type: types.Stock, TransactionType: types.Buy, StockName: "TCS", NumberOfShares: 12, PurchasePrice: 3500},
		{Type: types.Stock, TransactionType: types.Sell, StockName: "TCS", NumberOfShares: 4, SellPrice: &price, SellDate: "2025-06-01"},
	}

	positions, skipped := Aggregate(context.Background(), records)
	if len(skipped) != 0 {
		t.Fatalf("Expected no skips, got %v", skipped)
	}
	if positions["TCS"].Quantity != 12 {
		t.Errorf("Expected sell record to be ignored, got quantity %f", positions["TCS"].Quantity)
	}
}

func TestAggregateSkipsMalformed(t *testing.T) {
	records := []types.TransactionRecord{
		{ID: "r1", Type: types.Stock, TransactionType: types.Buy, StockName: "TCS", NumberOfShares: 12, PurchasePrice: 3500},
		{ID: "r2", Type: types.Stock, TransactionType: types.Buy, NumberOfShares: 5, PurchasePrice: 100},
	}

	positions, skipped := Aggregate(context.Background(), records)
	if len(positions) != 1 {
		t.Errorf("Expected only the valid record to aggregate, got %d positions", len(positions))
	}
	if len(skipped) != 1 {
		t.Fatalf("Expected 1 skip, got %v", skipped)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	records := []types.TransactionRecord{
		{Type: types.Stock, TransactionType: types.Buy, StockName: "INFY", NumberOfShares: 20, PurchasePrice: 1500},
		{Type: types.GoldBond, TransactionType: types.Buy, FixedIncomeName: "SGB 2031 Series II", Units: 8, Price: 6250},
	}

	first, _ := Aggregate(context.Background(), records)
	second, _ := Aggregate(context.Background(), records)

	if len(first) != len(second) {
		t.Fatalf("Expected identical passes, got %d vs %d positions", len(first), len(second))
	}
	for key, pos := range first {
		if second[key] != pos {
			t.Errorf("Position %s differs between passes: %+v vs %+v", key, pos, second[key])
		}
	}
}

func TestValuate(t *testing.T) {
	pos := types.Position{InstrumentKey: "INFY", Type: types.Stock, Quantity: 20, Cost: 30000}

	price := 1600.0
	snap := Valuate(pos, &price)
	if snap.Pending() {
		t.Fatal("Expected priced snapshot")
	}
	if *snap.CurrentValue != 32000 {
		t.Errorf("Expected value 32000, got %f", *snap.CurrentValue)
	}
	if *snap.GainLoss != 2000 {
		t.Errorf("Expected gain 2000, got %f", *snap.GainLoss)
	}
	wantPct := 2000.0 / 30000.0 * 100
	if !almostEqual(*snap.GainLossPercentage, wantPct) {
		t.Errorf("Expected pct %f, got %f", wantPct, *snap.GainLossPercentage)
	}
}

func TestValuatePending(t *testing.T) {
	snap := Valuate(types.Position{InstrumentKey: "INFY", Quantity: 20, Cost: 30000}, nil)
	if !snap.Pending() {
		t.Fatal("Expected pending snapshot")
	}
	if snap.CurrentValue != nil || snap.GainLoss != nil || snap.GainLossPercentage != nil {
		t.Error("Expected all derived fields nil while pending")
	}
}

func TestValuateBondLumpValue(t *testing.T) {
	pos := types.Position{InstrumentKey: "NHAI Tax Free 2030", Type: types.Bond, Cost: 100000}

	// The quote for a lump bond position is already its current worth.
	price := 108000.0
	snap := Valuate(pos, &price)
	if *snap.CurrentValue != 108000 {
		t.Errorf("Expected value 108000, got %f", *snap.CurrentValue)
	}
	if *snap.GainLoss != 8000 {
		t.Errorf("Expected gain 8000, got %f", *snap.GainLoss)
	}
}

func TestValuateZeroCostPercentage(t *testing.T) {
	price := 50.0
	snap := Valuate(types.Position{InstrumentKey: "FREEBIE", Type: types.Stock, Quantity: 1}, &price)
	if snap.GainLossPercentage != nil {
		t.Error("Expected percentage to stay nil at zero cost")
	}
	if *snap.GainLoss != 50 {
		t.Errorf("Expected gain 50, got %f", *snap.GainLoss)
	}
}
