package holdings

import (
	"math"
	"testing"

	"holdings-engine/internal/types"
)

func pricedSnapshot(key string, cost, value float64) types.ValuationSnapshot {
	gain := value - cost
	snap := types.ValuationSnapshot{
		Position: types.Position{InstrumentKey: key, Type: types.Stock, Cost: cost},
	}
	snap.CurrentPrice = &value
	snap.CurrentValue = &value
	snap.GainLoss = &gain
	return snap
}

func TestReduceTotals(t *testing.T) {
	snaps := []types.ValuationSnapshot{
		pricedSnapshot("RELIANCE", 28000, 30000),
		pricedSnapshot("TCS", 42000, 40000),
	}

	totals := ReduceTotals(snaps)
	if totals.Partial {
		t.Error("Expected complete totals")
	}
	if totals.TotalInvestmentCost != 70000 {
		t.Errorf("Expected cost 70000, got %f", totals.TotalInvestmentCost)
	}
	if totals.TotalInvestmentValue != 70000 {
		t.Errorf("Expected value 70000, got %f", totals.TotalInvestmentValue)
	}
	// The total gain must always equal value minus cost, never a separate sum.
	if math.Abs(totals.TotalGainLoss-(totals.TotalInvestmentValue-totals.TotalInvestmentCost)) > 1e-9 {
		t.Errorf("Gain %f breaks the value-cost identity", totals.TotalGainLoss)
	}
	if totals.TotalGainLossPercentage == nil || math.Abs(*totals.TotalGainLossPercentage) > 1e-9 {
		t.Errorf("Expected 0%% overall, got %v", totals.TotalGainLossPercentage)
	}
}

func TestReduceTotalsPartial(t *testing.T) {
	pending := types.ValuationSnapshot{
		Position: types.Position{InstrumentKey: "INFY", Type: types.Stock, Cost: 15000},
	}
	snaps := []types.ValuationSnapshot{
		pricedSnapshot("RELIANCE", 28000, 30000),
		pending,
	}

	totals := ReduceTotals(snaps)
	if !totals.Partial {
		t.Fatal("Expected partial totals with a pending snapshot")
	}
	if len(totals.PendingKeys) != 1 || totals.PendingKeys[0] != "INFY" {
		t.Errorf("Expected INFY pending, got %v", totals.PendingKeys)
	}
	// The pending position contributes nothing, not zero-value-at-full-cost.
	if totals.TotalInvestmentCost != 28000 {
		t.Errorf("Expected pending cost excluded, got %f", totals.TotalInvestmentCost)
	}
	if totals.TotalGainLoss != 2000 {
		t.Errorf("Expected gain 2000, got %f", totals.TotalGainLoss)
	}
}

func TestReduceTotalsEmpty(t *testing.T) {
	totals := ReduceTotals(nil)
	if totals.Partial {
		t.Error("Expected empty portfolio to be complete")
	}
	if totals.TotalGainLossPercentage != nil {
		t.Error("Expected percentage undefined at zero cost")
	}
}
