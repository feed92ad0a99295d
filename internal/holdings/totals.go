package holdings

import "holdings-engine/internal/types"

// ReduceTotals combines per-position valuations into portfolio totals.
// Snapshots still awaiting a price contribute nothing to the sums; their
// keys are reported so the caller can present the totals as partial
// instead of implying every position was counted.
func ReduceTotals(snapshots []types.ValuationSnapshot) types.PortfolioTotals {
	var totals types.PortfolioTotals

	for _, snap := range snapshots {
		if snap.Pending() {
			totals.Partial = true
			totals.PendingKeys = append(totals.PendingKeys, snap.InstrumentKey)
			continue
		}
		totals.TotalInvestmentCost += snap.Cost
		totals.TotalInvestmentValue += *snap.CurrentValue
	}

	totals.TotalGainLoss = totals.TotalInvestmentValue - totals.TotalInvestmentCost
	if totals.TotalInvestmentCost != 0 {
		pct := totals.TotalGainLoss / totals.TotalInvestmentCost * 100
		totals.TotalGainLossPercentage = &pct
	}

	return totals
}
