package interfaces

import (
	"context"

	"holdings-engine/internal/types"
)

// LedgerStore is the transaction ledger collaborator. The engine never
// assumes multi-record atomicity from it: the two mutations of a confirmed
// sale are issued as two calls, and a failure in between is surfaced as a
// partial-apply error, never silently absorbed.
type LedgerStore interface {
	// List returns all ledger records for a user.
	List(ctx context.Context, userID string) ([]types.TransactionRecord, error)

	// Create inserts a record and returns the id it assigned.
	// Id-assignment policy belongs to the store, not the engine.
	Create(ctx context.Context, rec types.TransactionRecord) (string, error)

	// Replace overwrites the record with the given id.
	Replace(ctx context.Context, id string, rec types.TransactionRecord) error

	// Delete removes the record with the given id.
	Delete(ctx context.Context, id string) error
}
