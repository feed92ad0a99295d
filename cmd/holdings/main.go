package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"holdings-engine/internal/ledger"
	"holdings-engine/internal/store"
	"holdings-engine/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	cfg, err := store.LoadConfig("config.yaml")
	must(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer trace.Shutdown(context.Background())

	compressOldAuditLogs(ctx, cfg)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	memStore := ledger.NewMemoryStore()
	eng := initializeEngine(ctx, cfg, memStore)
	seedDemoLedger(ctx, eng, memStore, cfg.Demo.UserID)

	tick := time.NewTicker(time.Duration(cfg.Demo.PollSeconds) * time.Second)
	defer tick.Stop()

	log.Println("Holdings engine started.")
	for {
		select {
		case <-tick.C:
			view, err := eng.Refresh(ctx, cfg.Demo.UserID)
			if err != nil {
				log.Printf("refresh error: %v", err)
				continue
			}
			b, _ := json.Marshal(view.Totals)
			fmt.Println(string(b))
		case <-sigc:
			log.Println("Shutting down...")
			if p, err := eng.Export(ctx, cfg.Demo.UserID); err == nil && p != "" {
				log.Println("Holdings CSV written:", p)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}
