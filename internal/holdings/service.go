package holdings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"holdings-engine/internal/auditlog"
	"holdings-engine/internal/export"
	"holdings-engine/internal/interfaces"
	"holdings-engine/internal/logger"
	"holdings-engine/internal/reconcile"
	"holdings-engine/internal/types"
)

// Service is the position aggregation and quantity-reconciliation engine.
// It owns no persistence, pricing or serialization itself; those run
// through the collaborators it is constructed with.
type Service struct {
	ledger  interfaces.LedgerStore
	prices  interfaces.PriceSource
	sink    interfaces.ExportSink
	machine *reconcile.Machine
}

var _ interfaces.Engine = (*Service)(nil)

func New(ledger interfaces.LedgerStore, prices interfaces.PriceSource, sink interfaces.ExportSink) *Service {
	return &Service{
		ledger:  ledger,
		prices:  prices,
		sink:    sink,
		machine: reconcile.New(),
	}
}

// Refresh folds the user's ledger into positions and prices them. Quote
// lookups run concurrently, one per instrument, and the pass completes
// only after every lookup has settled. Each goroutine writes only its own
// slot in the snapshot slice, so the fan-out needs no locking.
func (s *Service) Refresh(ctx context.Context, userID string) (*types.PortfolioView, error) {
	records, err := s.ledger.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ledger for user %s: %w: %v", userID, types.ErrStoreUnavailable, err)
	}
	logger.Debug(ctx, "Ledger loaded", "user_id", userID, "records", len(records))

	positions, skipped := Aggregate(ctx, records)

	keys := make([]string, 0, len(positions))
	for k := range positions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snapshots := make([]types.ValuationSnapshot, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			snapshots[i] = s.valuatePosition(ctx, positions[key])
		}(i, key)
	}
	wg.Wait()

	totals := ReduceTotals(snapshots)
	logger.Info(ctx, "Valuation pass completed",
		"user_id", userID,
		"positions", len(snapshots),
		"pending", len(totals.PendingKeys),
		"total_value", totals.TotalInvestmentValue,
		"total_cost", totals.TotalInvestmentCost,
	)

	return &types.PortfolioView{
		UserID:    userID,
		Snapshots: snapshots,
		Totals:    totals,
		Skipped:   skipped,
	}, nil
}

// valuatePosition fetches one instrument's quote and values the position.
// A failed lookup degrades this snapshot to pending; it never propagates.
func (s *Service) valuatePosition(ctx context.Context, pos types.Position) types.ValuationSnapshot {
	price, err := s.prices.Quote(ctx, pos.InstrumentKey)
	if err != nil {
		logger.Warn(ctx, "Quote lookup failed, valuation pending",
			"instrument", pos.InstrumentKey,
			"error", err.Error(),
		)
		return Valuate(pos, nil)
	}

	snap := Valuate(pos, &price)
	if snap.CurrentValue != nil && snap.GainLoss != nil {
		logger.Valuation(ctx, pos.InstrumentKey, price, *snap.CurrentValue, *snap.GainLoss)
	}
	return snap
}

// SaveRecord validates and applies a create or edit submission. The only
// path that defers a write is an edit reducing a Stock position's share
// count: that enters the reconciliation protocol and waits for the caller
// to say whether it was a correction or a sale.
func (s *Service) SaveRecord(ctx context.Context, userID string, rec types.TransactionRecord) (*types.SaveOutcome, error) {
	rec.UserID = userID

	if errs := types.Validate(rec); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// New record: direct create.
	if rec.ID == "" {
		id, err := s.ledger.Create(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("create record: %w: %v", types.ErrStoreUnavailable, err)
		}
		rec.ID = id
		_ = auditlog.Append(auditlog.Entry{
			UserID: userID, RecordID: id, Action: auditlog.ActionCreate,
			Instrument: rec.InstrumentKey(), Quantity: rec.NumberOfShares,
		})
		logger.Info(ctx, "Record created", "user_id", userID, "record_id", id, "instrument", rec.InstrumentKey())
		return &types.SaveOutcome{Status: types.SaveApplied, Inserted: &rec}, nil
	}

	existing, err := s.findRecord(ctx, userID, rec.ID)
	if err != nil {
		return nil, err
	}

	// Only Stock positions have a freely editable quantity; a strict
	// reduction needs a decision before anything is written.
	if existing.Type == types.Stock && rec.Type == types.Stock &&
		existing.TransactionType == types.Buy &&
		rec.NumberOfShares < existing.NumberOfShares {
		if err := s.machine.Begin(existing, rec); err != nil {
			return nil, err
		}
		logger.Info(ctx, "Quantity reduction detected, awaiting decision",
			"user_id", userID,
			"record_id", rec.ID,
			"instrument", rec.InstrumentKey(),
			"original_qty", existing.NumberOfShares,
			"proposed_qty", rec.NumberOfShares,
		)
		return &types.SaveOutcome{
			Status:           types.SaveAwaitingDecision,
			OriginalQuantity: existing.NumberOfShares,
			ProposedQuantity: rec.NumberOfShares,
		}, nil
	}

	// Unchanged or increased quantity, or a non-Stock instrument: direct
	// single-record overwrite, no decision step.
	if err := s.replaceRecord(ctx, userID, rec.ID, rec); err != nil {
		return nil, err
	}
	return &types.SaveOutcome{Status: types.SaveApplied, Updated: &rec}, nil
}

// ConfirmCorrection resolves the pending reduction as a data-entry
// correction: one in-place rewrite, no new records.
func (s *Service) ConfirmCorrection(ctx context.Context, userID string) (*types.SaveOutcome, error) {
	pending, ok := s.machine.Pending()
	res, err := s.machine.Correct()
	if err != nil {
		return nil, err
	}
	if err := s.replaceRecord(ctx, userID, res.Update.ID, res.Update); err != nil {
		return nil, err
	}
	if ok {
		logger.Reconciliation(ctx, res.Update.InstrumentKey(), "correction",
			pending.OriginalQuantity, pending.ProposedQuantity, "record_id", res.Update.ID)
	}
	return &types.SaveOutcome{Status: types.SaveCorrected, Updated: &res.Update}, nil
}

// ConfirmSale resolves the pending reduction as an economic sale. The two
// mutations are issued in order against a store that offers no multi-record
// atomicity; if the insert fails after the update succeeded, the caller
// gets a PartialSaleError naming both halves rather than a silent partial
// state.
func (s *Service) ConfirmSale(ctx context.Context, userID, sellDate string, sellPrice float64) (*types.SaveOutcome, error) {
	pending, ok := s.machine.Pending()
	if s.machine.State() == reconcile.StateAwaitingDecision {
		if err := s.machine.RequestSale(); err != nil {
			return nil, err
		}
	}
	res, err := s.machine.ConfirmSale(sellDate, sellPrice)
	if err != nil {
		return nil, err
	}

	if err := s.replaceRecord(ctx, userID, res.Update.ID, res.Update); err != nil {
		return nil, err
	}

	insert := *res.Insert
	id, err := s.ledger.Create(ctx, insert)
	if err != nil {
		return nil, &types.PartialSaleError{UpdatedID: res.Update.ID, Insert: insert, Err: err}
	}
	insert.ID = id
	_ = auditlog.Append(auditlog.Entry{
		UserID: userID, RecordID: id, Action: auditlog.ActionCreate,
		Instrument: insert.InstrumentKey(), Quantity: insert.NumberOfShares,
		Detail: "sell split from " + res.Update.ID,
	})

	if ok {
		logger.Reconciliation(ctx, insert.InstrumentKey(), "sale",
			pending.OriginalQuantity, pending.ProposedQuantity,
			"sold_qty", insert.NumberOfShares,
			"sell_price", sellPrice,
		)
	}
	return &types.SaveOutcome{
		Status:   types.SaveSaleRecorded,
		Updated:  &res.Update,
		Inserted: &insert,
	}, nil
}

// CancelReconciliation discards the pending reduction, if any.
func (s *Service) CancelReconciliation(ctx context.Context) error {
	if pending, ok := s.machine.Pending(); ok {
		logger.Info(ctx, "Pending reduction cancelled",
			"instrument", pending.Edited.InstrumentKey(),
			"original_qty", pending.OriginalQuantity,
			"proposed_qty", pending.ProposedQuantity,
		)
	}
	s.machine.Cancel()
	return nil
}

// DeleteRecord removes a ledger record.
func (s *Service) DeleteRecord(ctx context.Context, userID, id string) error {
	rec, err := s.findRecord(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.ledger.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record %s: %w: %v", id, types.ErrStoreUnavailable, err)
	}
	_ = auditlog.Append(auditlog.Entry{
		UserID: userID, RecordID: id, Action: auditlog.ActionDelete,
		Instrument: rec.InstrumentKey(), Quantity: rec.NumberOfShares,
	})
	logger.Info(ctx, "Record deleted", "user_id", userID, "record_id", id)
	return nil
}

// Export runs a valuation pass and writes the snapshot table to the sink.
func (s *Service) Export(ctx context.Context, userID string) (string, error) {
	view, err := s.Refresh(ctx, userID)
	if err != nil {
		return "", err
	}
	rows := export.Format(view.Snapshots)
	path, err := s.sink.Write(ctx, rows)
	if err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	logger.Info(ctx, "Snapshot exported", "user_id", userID, "rows", len(rows), "path", path)
	return path, nil
}

func (s *Service) findRecord(ctx context.Context, userID, id string) (types.TransactionRecord, error) {
	records, err := s.ledger.List(ctx, userID)
	if err != nil {
		return types.TransactionRecord{}, fmt.Errorf("list ledger for user %s: %w: %v", userID, types.ErrStoreUnavailable, err)
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return types.TransactionRecord{}, fmt.Errorf("record %s: %w", id, types.ErrRecordNotFound)
}

func (s *Service) replaceRecord(ctx context.Context, userID, id string, rec types.TransactionRecord) error {
	if err := s.ledger.Replace(ctx, id, rec); err != nil {
		return fmt.Errorf("replace record %s: %w: %v", id, types.ErrStoreUnavailable, err)
	}
	_ = auditlog.Append(auditlog.Entry{
		UserID: userID, RecordID: id, Action: auditlog.ActionReplace,
		Instrument: rec.InstrumentKey(), Quantity: rec.NumberOfShares,
	})
	logger.Info(ctx, "Record replaced", "user_id", userID, "record_id", id, "instrument", rec.InstrumentKey())
	return nil
}
