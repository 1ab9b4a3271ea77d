package news_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/dbopen"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/listing"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/news"
	_ "modernc.org/sqlite"
)

func newStore(t *testing.T) (*news.Store, *sql.DB) {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(news.Schema))
	return news.NewStore(db), db
}

type article struct {
	id, title, category string
	month               any
}

// seedArticles inserts articles with known ascending ids so feed ordering is
// deterministic regardless of id generation.
func seedArticles(t *testing.T, db *sql.DB, rows []article) {
	t.Helper()
	for i, r := range rows {
		_, err := db.Exec(
			`INSERT INTO news (id, title, category, publish_date, published_month, content, created_at)
			VALUES (?, ?, ?, '', ?, 'isi', ?)`,
			r.id, r.title, r.category, r.month, int64(1000+i))
		if err != nil {
			t.Fatalf("seed %s: %v", r.id, err)
		}
	}
}

func feedParams() listing.Params {
	return listing.Params{Category: "all", Page: 1, PageSize: news.FeedPageSize, Sort: listing.SortDesc}
}

func TestCreate_RequiredFieldsAndSanitization(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, news.Input{Title: "x", Category: "match"}); !errors.Is(err, news.ErrInvalidInput) {
		t.Fatalf("missing content err = %v, want ErrInvalidInput", err)
	}

	n, err := store.Create(ctx, news.Input{
		Title:    `Timnas <b>menang</b>`,
		Category: "match",
		Content:  `<script>alert(1)</script>Laporan lengkap.`,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.Title != "Timnas menang" {
		t.Fatalf("title = %q, markup must be stripped", n.Title)
	}
	if n.Content != "Laporan lengkap." {
		t.Fatalf("content = %q, script must be stripped", n.Content)
	}
}

func TestCreate_OutOfRangeMonthBecomesNull(t *testing.T) {
	store, _ := newStore(t)
	month := 13
	n, err := store.Create(context.Background(), news.Input{
		Title: "x", Category: "c", Content: "y", PublishedMonth: &month})
	if err != nil {
		t.Fatal(err)
	}
	if n.PublishedMonth != nil {
		t.Fatalf("month 13 stored as %d, want null", *n.PublishedMonth)
	}
}

func TestList_MonthFilter(t *testing.T) {
	store, db := newStore(t)
	seedArticles(t, db, []article{
		{"n1", "Oktober", "match", 10},
		{"n2", "September", "match", 9},
		{"n3", "Mei", "match", 5},
		{"n4", "Tanpa bulan", "match", nil},
	})

	p := feedParams()
	p.Month = 10
	res, err := store.List(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Items[0].Title != "Oktober" {
		t.Fatalf("month filter result = %+v", res.Items)
	}
}

func TestList_SortAscReversesDesc(t *testing.T) {
	store, db := newStore(t)
	var rows []article
	for i := 1; i <= 5; i++ {
		rows = append(rows, article{fmt.Sprintf("n%d", i), fmt.Sprintf("Berita %d", i), "match", nil})
	}
	seedArticles(t, db, rows)
	ctx := context.Background()

	desc, err := store.List(ctx, feedParams())
	if err != nil {
		t.Fatal(err)
	}
	p := feedParams()
	p.Sort = listing.SortAsc
	asc, err := store.List(ctx, p)
	if err != nil {
		t.Fatal(err)
	}

	if desc.Items[0].ID != "n5" || asc.Items[0].ID != "n1" {
		t.Fatalf("desc starts %s, asc starts %s", desc.Items[0].ID, asc.Items[0].ID)
	}
	for i := range desc.Items {
		if desc.Items[i].ID != asc.Items[len(asc.Items)-1-i].ID {
			t.Fatalf("asc is not the reversal of desc at %d", i)
		}
	}
}

func TestList_PageSizeWindow(t *testing.T) {
	store, db := newStore(t)
	var rows []article
	for i := 1; i <= 7; i++ {
		rows = append(rows, article{fmt.Sprintf("n%d", i), fmt.Sprintf("Berita %d", i), "match", nil})
	}
	seedArticles(t, db, rows)

	p := feedParams()
	p.PageSize = 3
	p.Page = 2
	res, err := store.List(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 3 || !res.HasNext || res.Total != 7 {
		t.Fatalf("window = %d items, hasNext %v, total %d", len(res.Items), res.HasNext, res.Total)
	}
	if res.Items[0].ID != "n4" {
		t.Fatalf("page 2 starts at %s, want n4", res.Items[0].ID)
	}
}

func TestList_CategoryAndSearch(t *testing.T) {
	store, db := newStore(t)
	seedArticles(t, db, []article{
		{"n1", "News 1", "match", nil},
		{"n2", "News 2", "match", nil},
		{"n3", "Transfer rumour", "player", nil},
	})

	p := feedParams()
	p.Query = "News 1"
	res, err := store.List(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Items[0].ID != "n1" {
		t.Fatalf("search result = %+v", res.Items)
	}

	p = feedParams()
	p.Category = "player"
	res, err = store.List(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Items[0].ID != "n3" {
		t.Fatalf("category result = %+v", res.Items)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	n, err := store.Create(ctx, news.Input{Title: "Lama", Category: "match", Content: "isi"})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := store.Update(ctx, n.ID, news.Input{Title: "Baru", Category: "match", Content: "isi"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Baru" {
		t.Fatalf("title = %q after update", updated.Title)
	}

	if _, err := store.Update(ctx, "missing", news.Input{Title: "a", Category: "b", Content: "c"}); !errors.Is(err, news.ErrNotFound) {
		t.Fatalf("update missing err = %v", err)
	}

	if err := store.Delete(ctx, n.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, n.ID); !errors.Is(err, news.ErrNotFound) {
		t.Fatalf("get after delete err = %v", err)
	}
}
