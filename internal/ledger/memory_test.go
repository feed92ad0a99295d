package ledger

import (
	"context"
	"errors"
	"testing"

	"holdings-engine/internal/types"
)

func stockRecord(user, name string, shares float64) types.TransactionRecord {
	return types.TransactionRecord{
		UserID:          user,
		Type:            types.Stock,
		TransactionType: types.Buy,
		StockName:       name,
		NumberOfShares:  shares,
		PurchasePrice:   100,
	}
}

func TestMemoryStoreCreateAssignsID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, stockRecord("u1", "RELIANCE", 10))
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("Expected store-assigned id")
	}

	id2, err := store.Create(ctx, stockRecord("u1", "TCS", 5))
	if err != nil {
		t.Fatal(err)
	}
	if id2 == id {
		t.Error("Expected unique ids")
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 records, got %d", store.Len())
	}
}

func TestMemoryStoreListFiltersByUser(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, stockRecord("u1", "RELIANCE", 10)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, stockRecord("u2", "TCS", 5)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, stockRecord("u1", "INFY", 20)); err != nil {
		t.Fatal(err)
	}

	records, err := store.List(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records for u1, got %d", len(records))
	}
	// Listings come back in insertion order.
	if records[0].StockName != "RELIANCE" || records[1].StockName != "INFY" {
		t.Errorf("Expected insertion order, got %s then %s", records[0].StockName, records[1].StockName)
	}
}

func TestMemoryStoreReplace(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, stockRecord("u1", "RELIANCE", 10))
	if err != nil {
		t.Fatal(err)
	}

	updated := stockRecord("u1", "RELIANCE", 25)
	if err := store.Replace(ctx, id, updated); err != nil {
		t.Fatal(err)
	}

	records, _ := store.List(ctx, "u1")
	if records[0].NumberOfShares != 25 {
		t.Errorf("Expected 25 shares, got %f", records[0].NumberOfShares)
	}
	if records[0].ID != id {
		t.Errorf("Expected replace to keep the id, got %s", records[0].ID)
	}

	err = store.Replace(ctx, "missing", updated)
	if !errors.Is(err, types.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, stockRecord("u1", "RELIANCE", 10))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", store.Len())
	}

	if err := store.Delete(ctx, id); !errors.Is(err, types.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}
