package holdingsobs

import (
	"context"
	"time"

	"holdings-engine/internal/interfaces"
	"holdings-engine/internal/logger"
	"holdings-engine/internal/trace"
	"holdings-engine/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

// Wrap adds tracing and timing logs around every engine operation.
func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Refresh(ctx context.Context, userID string) (*types.PortfolioView, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Refresh")
	defer span.End()

	start := time.Now()

	view, err := oe.engine.Refresh(ctx, userID)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Valuation pass failed", err,
			"user_id", userID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Valuation pass finished",
		"user_id", userID,
		"positions", len(view.Snapshots),
		"partial", view.Totals.Partial,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return view, nil
}

func (oe *observableEngine) SaveRecord(ctx context.Context, userID string, rec types.TransactionRecord) (*types.SaveOutcome, error) {
	ctx, span := trace.StartSpan(ctx, "engine.SaveRecord")
	defer span.End()

	outcome, err := oe.engine.SaveRecord(ctx, userID, rec)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Save failed", err,
			"user_id", userID,
			"record_id", rec.ID,
			"instrument", rec.InstrumentKey(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Save resolved",
		"user_id", userID,
		"instrument", rec.InstrumentKey(),
		"status", string(outcome.Status),
	)
	return outcome, nil
}

func (oe *observableEngine) ConfirmCorrection(ctx context.Context, userID string) (*types.SaveOutcome, error) {
	ctx, span := trace.StartSpan(ctx, "engine.ConfirmCorrection")
	defer span.End()

	outcome, err := oe.engine.ConfirmCorrection(ctx, userID)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Correction failed", err, "user_id", userID)
		return nil, err
	}
	return outcome, nil
}

func (oe *observableEngine) ConfirmSale(ctx context.Context, userID, sellDate string, sellPrice float64) (*types.SaveOutcome, error) {
	ctx, span := trace.StartSpan(ctx, "engine.ConfirmSale")
	defer span.End()

	outcome, err := oe.engine.ConfirmSale(ctx, userID, sellDate, sellPrice)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Sale confirmation failed", err,
			"user_id", userID,
			"sell_date", sellDate,
			"sell_price", sellPrice,
		)
		return nil, err
	}
	return outcome, nil
}

func (oe *observableEngine) CancelReconciliation(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "engine.CancelReconciliation")
	defer span.End()

	return oe.engine.CancelReconciliation(ctx)
}

func (oe *observableEngine) DeleteRecord(ctx context.Context, userID, id string) error {
	ctx, span := trace.StartSpan(ctx, "engine.DeleteRecord")
	defer span.End()

	if err := oe.engine.DeleteRecord(ctx, userID, id); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Delete failed", err, "user_id", userID, "record_id", id)
		return err
	}
	return nil
}

func (oe *observableEngine) Export(ctx context.Context, userID string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Export")
	defer span.End()

	start := time.Now()

	path, err := oe.engine.Export(ctx, userID)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Export failed", err,
			"user_id", userID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Export finished",
		"user_id", userID,
		"path", path,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return path, nil
}
