package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"holdings-engine/internal/auditlog"
	"holdings-engine/internal/export"
	"holdings-engine/internal/holdings"
	"holdings-engine/internal/holdings/holdingsobs"
	"holdings-engine/internal/interfaces"
	"holdings-engine/internal/ledger"
	"holdings-engine/internal/logger"
	"holdings-engine/internal/pricing"
	"holdings-engine/internal/store"
	"holdings-engine/internal/trace"
	"holdings-engine/internal/types"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// compressOldAuditLogs gzips audit files past the configured retention
func compressOldAuditLogs(ctx context.Context, cfg *store.Config) {
	if cfg.Audit.RetentionDays > 0 {
		if err := auditlog.CompressOlder(cfg.Audit.RetentionDays); err != nil {
			logger.Warn(ctx, "Failed to compress old audit logs", "error", err)
		}
	}
}

// initializePriceSource picks the quote collaborator from config and wraps
// it in a TTL cache
func initializePriceSource(ctx context.Context, cfg *store.Config) interfaces.PriceSource {
	timeout := time.Duration(cfg.Quote.TimeoutSeconds) * time.Second

	var src interfaces.PriceSource
	switch cfg.PriceSource {
	case "HTTP":
		apiKey := ""
		if cfg.Quote.APIKeyEnv != "" {
			apiKey = os.Getenv(cfg.Quote.APIKeyEnv)
		}
		src = pricing.NewHTTPSource(cfg.Quote.BaseURL, apiKey, timeout)
		logger.Info(ctx, "Using HTTP quote API", "base_url", cfg.Quote.BaseURL)
	case "KITE":
		src = pricing.NewKiteSource(os.Getenv("KITE_API_KEY"), os.Getenv("KITE_ACCESS_TOKEN"), cfg.Exchange)
		logger.Info(ctx, "Using Zerodha Kite LTP quotes", "exchange", cfg.Exchange)
	case "SCRAPE":
		src = pricing.NewScrapeSource(timeout)
		logger.Warn(ctx, "Using scraped quote pages - prices may lag the market")
	default:
		src = pricing.NewStaticSource(cfg.Quote.Static)
		logger.Warn(ctx, "Using STATIC quotes - valuations are simulated", "instruments", len(cfg.Quote.Static))
	}

	ttl := time.Duration(cfg.Quote.CacheTTLSeconds) * time.Second
	return pricing.NewCachedSource(src, ttl)
}

// initializeEngine wires the engine with its collaborators and
// observability middleware
func initializeEngine(ctx context.Context, cfg *store.Config, ledgerStore interfaces.LedgerStore) interfaces.Engine {
	prices := initializePriceSource(ctx, cfg)
	sink := export.NewCSVSink(cfg.Export.Dir)
	return holdingsobs.Wrap(holdings.New(ledgerStore, prices, sink))
}

// seedDemoLedger inserts one record of each instrument type when the
// ledger is empty, so a fresh run has something to value
func seedDemoLedger(ctx context.Context, eng interfaces.Engine, memStore *ledger.MemoryStore, userID string) {
	if memStore.Len() > 0 {
		return
	}

	sample := []types.TransactionRecord{
		{
			Type:            types.Stock,
			TransactionType: types.Buy,
			StockName:       "RELIANCE",
			DematAccount:    "DEMAT-001",
			NumberOfShares:  10,
			PurchasePrice:   2850.50,
			PurchaseDate:    "2025-04-01",
		},
		{
			Type:            types.MutualFund,
			TransactionType: types.Buy,
			SchemeName:      "HDFC Flexi Cap Fund",
			FolioNo:         "HD123456",
			Amount:          50000,
			AmountType:      types.Rupees,
			Price:           1450.25,
			PurchaseDate:    "2025-05-12",
		},
		{
			Type:            types.GoldBond,
			TransactionType: types.Buy,
			FixedIncomeName: "SGB 2031 Series II",
			Units:           8,
			Price:           6250,
			PurchaseDate:    "2025-03-20",
		},
		{
			Type:             types.Bond,
			TransactionType:  types.Buy,
			FixedIncomeName:  "NHAI Tax Free 2030",
			InvestmentAmount: 100000,
			PurchaseDate:     "2025-01-15",
		},
	}

	for _, rec := range sample {
		if _, err := eng.SaveRecord(ctx, userID, rec); err != nil {
			logger.ErrorWithErr(ctx, "Failed to seed demo record", err, "instrument", rec.InstrumentKey())
		}
	}
	logger.Info(ctx, "Demo ledger seeded", "user_id", userID, "records", len(sample))
}
