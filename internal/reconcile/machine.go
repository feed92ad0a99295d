// Package reconcile decides what a reduction in a recorded Stock quantity
// means: a data-entry correction, rewritten in place, or an economic sale,
// split into the reduced holding plus a new Sell record. Either way the
// ledger's history stays intact.
package reconcile

import (
	"errors"
	"sync"

	"holdings-engine/internal/types"
)

// State is the machine's position in the decision protocol.
type State string

const (
	// No reduction in flight.
	StateIdle State = "Idle"
	// A reduction was detected; waiting for correction-or-sale.
	StateAwaitingDecision State = "AwaitingDecision"
	// Sale chosen; waiting for sell date and price.
	StateAwaitingSaleDetails State = "AwaitingSaleDetails"
)

// Context is the transient state of one in-flight quantity reduction.
type Context struct {
	OriginalQuantity float64
	ProposedQuantity float64
	Existing         types.TransactionRecord
	Edited           types.TransactionRecord
}

// Machine holds at most one pending reduction at a time. Starting a second
// one while the first awaits a decision is rejected; a stale context is
// discarded only through an explicit Cancel.
type Machine struct {
	mu    sync.Mutex
	state State
	ctx   *Context
}

func New() *Machine {
	return &Machine{state: StateIdle}
}

// State returns the current protocol state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending returns a copy of the in-flight context, if any.
func (m *Machine) Pending() (Context, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx == nil {
		return Context{}, false
	}
	return *m.ctx, true
}

// Begin starts the decision protocol for an edit that reduces a Stock
// position's share count. The caller routes only strict reductions here;
// unchanged or increased quantities bypass the machine entirely.
func (m *Machine) Begin(existing, edited types.TransactionRecord) error {
	if edited.NumberOfShares < 0 {
		return &types.ValidationError{Field: "numberOfShares", Message: "must not be negative"}
	}
	if edited.NumberOfShares >= existing.NumberOfShares {
		return errors.New("not a reduction: quantity unchanged or increased")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return types.ErrReconcileConflict
	}

	m.ctx = &Context{
		OriginalQuantity: existing.NumberOfShares,
		ProposedQuantity: edited.NumberOfShares,
		Existing:         existing,
		Edited:           edited,
	}
	m.state = StateAwaitingDecision
	return nil
}

// Correct resolves the pending reduction as a data-entry correction: the
// existing record is overwritten with the edited fields verbatim, reduced
// quantity included, and nothing new is inserted.
func (m *Machine) Correct() (types.ReconcileResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAwaitingDecision {
		return types.ReconcileResult{}, errors.New("no reduction awaiting a decision")
	}

	update := m.ctx.Edited
	update.ID = m.ctx.Existing.ID
	m.reset()
	return types.ReconcileResult{Update: update}, nil
}

// RequestSale resolves the decision as a sale and moves on to collecting
// the sale details.
func (m *Machine) RequestSale() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAwaitingDecision {
		return errors.New("no reduction awaiting a decision")
	}
	m.state = StateAwaitingSaleDetails
	return nil
}

// ConfirmSale validates the sale details and produces the two ledger
// mutations: the original Buy record rewritten with the reduced quantity,
// and a new Sell record for the difference. The insert carries no id; the
// ledger store assigns one. A proposed quantity of zero is legal and
// closes the position in full.
func (m *Machine) ConfirmSale(sellDate string, sellPrice float64) (types.ReconcileResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAwaitingSaleDetails {
		return types.ReconcileResult{}, errors.New("no sale awaiting details")
	}
	if sellDate == "" {
		return types.ReconcileResult{}, &types.ValidationError{Field: "sellDate", Message: "required to record a sale"}
	}
	if sellPrice <= 0 {
		return types.ReconcileResult{}, &types.ValidationError{Field: "sellPrice", Message: "must be positive"}
	}

	c := m.ctx

	update := c.Edited
	update.ID = c.Existing.ID
	update.TransactionType = types.Buy
	update.NumberOfShares = c.ProposedQuantity
	update.SellPrice = nil
	update.SellDate = ""

	price := sellPrice
	insert := &types.TransactionRecord{
		UserID:          c.Existing.UserID,
		Type:            types.Stock,
		TransactionType: types.Sell,
		StockName:       c.Edited.StockName,
		DematAccount:    c.Edited.DematAccount,
		NumberOfShares:  c.OriginalQuantity - c.ProposedQuantity,
		SellPrice:       &price,
		SellDate:        sellDate,
	}

	m.reset()
	return types.ReconcileResult{Update: update, Insert: insert}, nil
}

// Cancel discards the pending reduction and returns the machine to Idle.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// caller must hold mu.
func (m *Machine) reset() {
	m.ctx = nil
	m.state = StateIdle
}
