package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/instock/internal/domain/model"

	"github.com/google/uuid"
)

// Runs only against a disposable database named by INSTOCK_TEST_DATABASE_URL.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("INSTOCK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("INSTOCK_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}

	stock := int64(3)
	snap := NewSnapshot("test", "2025-01-01T00:00:00.000Z",
		[]model.Row{{Title: "Acrylic Stand", Stock: &stock, StockDisplay: "3"}},
		model.NameMap{"宝鐘マリン": "Houshou Marine"},
		model.SearchTerms{"Houshou Marine": {"Houshou Marine", "宝鐘マリン"}})
	before := store.Count(ctx)
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.Count(ctx) != before+1 {
		t.Errorf("expected count to grow by one")
	}

	got, err := store.Get(ctx, snap.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BuiltAt != snap.BuiltAt || len(got.Items) != 1 || *got.Items[0].Stock != 3 {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if got.Names["宝鐘マリン"] != "Houshou Marine" {
		t.Errorf("name map not round-tripped: %v", got.Names)
	}

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != snap.ID {
		t.Errorf("expected latest %s, got %s", snap.ID, latest.ID)
	}

	list, err := store.List(ctx, 1)
	if err != nil || len(list) != 1 || list[0].Rows != 1 {
		t.Errorf("unexpected list %v (err %v)", list, err)
	}
	if _, err := store.List(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
