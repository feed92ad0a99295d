package interfaces

import (
	"context"

	"holdings-engine/internal/types"
)

// Engine is the position aggregation and quantity-reconciliation engine.
// It is a pure computation and decision layer: persistence, pricing and
// export serialization go through the collaborator interfaces it is built
// with. Every call takes the user id explicitly; the engine reads no
// ambient identity.
type Engine interface {
	// Refresh folds the user's ledger into positions, prices them
	// concurrently and reduces portfolio totals. Individual pricing
	// failures leave that row pending; they never fail the pass.
	Refresh(ctx context.Context, userID string) (*types.PortfolioView, error)

	// SaveRecord validates and applies a create or edit submission. An
	// edit that reduces a Stock position's share count is not applied:
	// the outcome reports AwaitingDecision and the caller must resolve it
	// with ConfirmCorrection or ConfirmSale, or discard it with
	// CancelReconciliation.
	SaveRecord(ctx context.Context, userID string, rec types.TransactionRecord) (*types.SaveOutcome, error)

	// ConfirmCorrection resolves a pending reduction as a data-entry
	// correction: the record is rewritten in place, nothing is inserted.
	ConfirmCorrection(ctx context.Context, userID string) (*types.SaveOutcome, error)

	// ConfirmSale resolves a pending reduction as an economic sale: the
	// holding is reduced and a new Sell record for the difference is
	// inserted with the supplied details.
	ConfirmSale(ctx context.Context, userID, sellDate string, sellPrice float64) (*types.SaveOutcome, error)

	// CancelReconciliation discards the pending reduction, if any.
	CancelReconciliation(ctx context.Context) error

	// DeleteRecord removes a ledger record.
	DeleteRecord(ctx context.Context, userID, id string) error

	// Export runs a valuation pass and writes the snapshot table to the
	// export sink, returning the path written.
	Export(ctx context.Context, userID string) (string, error)
}
