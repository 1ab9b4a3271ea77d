package merch_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/dbopen"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/listing"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/merch"
	_ "modernc.org/sqlite"
)

func newStore(t *testing.T) (*merch.Store, *sql.DB) {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(merch.Schema))
	return merch.NewStore(db), db
}

func TestCreate_CoercesUnknownCategory(t *testing.T) {
	store, _ := newStore(t)
	m, err := store.Create(context.Background(), "u1", merch.Input{
		Name: "Syal retro", Category: "bandana"})
	if err != nil {
		t.Fatal(err)
	}
	if m.Category != "others" {
		t.Fatalf("category = %q, want others", m.Category)
	}
}

func TestCreate_ClampsNegativePriceAndStock(t *testing.T) {
	store, _ := newStore(t)
	m, err := store.Create(context.Background(), "u1", merch.Input{
		Name: "Jersey", Category: "jersey", Price: -5000, Stock: -1})
	if err != nil {
		t.Fatal(err)
	}
	if m.Price != 0 || m.Stock != 0 {
		t.Fatalf("price %d stock %d, want 0 0", m.Price, m.Stock)
	}
}

func TestCreate_RequiresName(t *testing.T) {
	store, _ := newStore(t)
	if _, err := store.Create(context.Background(), "u1", merch.Input{Category: "cap"}); !errors.Is(err, merch.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	// A name that is only markup strips to empty and is rejected too.
	if _, err := store.Create(context.Background(), "u1", merch.Input{
		Name: "<img src=x>", Category: "cap"}); !errors.Is(err, merch.ErrInvalidInput) {
		t.Fatalf("markup-only name err = %v, want ErrInvalidInput", err)
	}
}

func seedCatalog(t *testing.T, store *merch.Store, db *sql.DB, n int, category string) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= n; i++ {
		m, err := store.Create(ctx, "u1", merch.Input{
			Name:        fmt.Sprintf("Item %d", i),
			Category:    category,
			Description: fmt.Sprintf("deskripsi %d", i),
			Price:       10000 * i,
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := db.Exec(`UPDATE merch SET created_at = ? WHERE id = ?`, int64(1000+i), m.ID); err != nil {
			t.Fatal(err)
		}
	}
}

func TestList_CategoryAndSearch(t *testing.T) {
	store, db := newStore(t)
	seedCatalog(t, store, db, 3, "jersey")
	seedCatalog(t, store, db, 2, "cap")
	ctx := context.Background()

	p := listing.Params{Category: "jersey", Page: 1, PageSize: merch.PageSize, Sort: listing.SortDesc}
	res, err := store.List(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 {
		t.Fatalf("jersey total = %d, want 3", res.Total)
	}
	for _, m := range res.Items {
		if m.Category != "jersey" {
			t.Fatalf("item %s leaked through category filter", m.ID)
		}
	}

	// Search spans name OR description, case-insensitively.
	p = listing.Params{Category: "all", Query: "DESKRIPSI 2", Page: 1, PageSize: 6, Sort: listing.SortDesc}
	res, err = store.List(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 {
		t.Fatalf("search total = %d, want 2 (one per category seed)", res.Total)
	}
}

func TestList_Pagination(t *testing.T) {
	store, db := newStore(t)
	seedCatalog(t, store, db, 11, "jersey")
	ctx := context.Background()

	p := listing.Params{Category: "all", Page: 1, PageSize: merch.PageSize, Sort: listing.SortDesc}
	page1, err := store.List(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(page1.Items) != 6 || !page1.HasNext {
		t.Fatalf("page 1 = %d items, hasNext %v", len(page1.Items), page1.HasNext)
	}
	if page1.Items[0].Name != "Item 11" {
		t.Fatalf("first item = %q, want newest", page1.Items[0].Name)
	}

	p.Page = 2
	page2, err := store.List(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2.Items) != 5 || page2.HasNext {
		t.Fatalf("page 2 = %d items, hasNext %v", len(page2.Items), page2.HasNext)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	m, err := store.Create(ctx, "u1", merch.Input{Name: "Topi", Category: "cap", Price: 50000})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := store.Update(ctx, m.ID, merch.Input{Name: "Topi baru", Category: "cap", Price: 60000, Stock: 3})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Topi baru" || updated.Price != 60000 || updated.Stock != 3 {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := store.Update(ctx, "missing", merch.Input{Name: "x", Category: "cap"}); !errors.Is(err, merch.ErrNotFound) {
		t.Fatalf("update missing err = %v", err)
	}

	if err := store.Delete(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, m.ID); !errors.Is(err, merch.ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}
