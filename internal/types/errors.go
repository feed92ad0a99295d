package types

import (
	"errors"
	"fmt"
)

var (
	// ErrReconcileConflict is returned when a quantity reduction is started
	// while another one is still awaiting a decision.
	ErrReconcileConflict = errors.New("reconciliation already in progress")

	// ErrPricingUnavailable marks a single instrument's quote lookup
	// failure. Non-fatal: the position's valuation stays pending and the
	// rest of the pass continues.
	ErrPricingUnavailable = errors.New("price unavailable")

	// ErrStoreUnavailable wraps ledger store failures. Retryable; the
	// engine itself never retries.
	ErrStoreUnavailable = errors.New("ledger store unavailable")

	// ErrRecordNotFound is returned when an edit or delete names an id the
	// ledger does not hold.
	ErrRecordNotFound = errors.New("record not found")
)

// ValidationError describes one way a transaction record is malformed.
// Records failing validation are rejected before aggregation and never
// partially applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record: %s: %s", e.Field, e.Message)
}

// PartialSaleError is raised when the second of the two sale mutations
// fails after the first succeeded. The ledger now holds the reduced Buy
// record but not the Sell record; the caller must reconcile (retry the
// insert or roll back the update) rather than treat the sale as applied.
type PartialSaleError struct {
	UpdatedID string
	Insert    TransactionRecord
	Err       error
}

func (e *PartialSaleError) Error() string {
	return fmt.Sprintf("sale partially applied: holding %s updated but sell insert failed: %v", e.UpdatedID, e.Err)
}

func (e *PartialSaleError) Unwrap() error { return e.Err }
