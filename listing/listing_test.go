package listing_test

import (
	"fmt"
	"net/url"
	"slices"
	"testing"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/listing"
)

type item struct {
	ID       string
	Title    string
	Body     string
	Category string
	Month    int
	Rank     int64
}

var fields = listing.Fields[item]{
	Category: func(it item) string { return it.Category },
	Search: []func(item) string{
		func(it item) string { return it.Title },
		func(it item) string { return it.Body },
	},
	Rank:  func(it item) int64 { return it.Rank },
	ID:    func(it item) string { return it.ID },
	Month: func(it item) int { return it.Month },
}

// numbered builds n items with unique ascending ranks so ordering
// assertions are unambiguous.
func numbered(n int) []item {
	items := make([]item, n)
	for i := range items {
		items[i] = item{
			ID:       fmt.Sprintf("i%02d", i+1),
			Title:    fmt.Sprintf("News %d", i+1),
			Category: "all-weather",
			Rank:     int64(1000 + i),
		}
	}
	return items
}

func params(page, pageSize int) listing.Params {
	return listing.Params{Category: "all", Page: page, PageSize: pageSize, Sort: listing.SortDesc}
}

func TestFromQuery_Defaults(t *testing.T) {
	p := listing.FromQuery(url.Values{}, 6)
	if p.Category != "all" || p.Page != 1 || p.PageSize != 6 || p.Sort != listing.SortDesc {
		t.Fatalf("defaults = %+v", p)
	}
	if p.HasCategory() {
		t.Fatal("empty query must not activate the category filter")
	}
}

func TestFromQuery_MalformedPageFallsBack(t *testing.T) {
	for _, raw := range []string{"abc", "", "-3", "1.5"} {
		p := listing.FromQuery(url.Values{"page": {raw}}, 6)
		if p.Page != 1 {
			t.Fatalf("page %q parsed to %d, want fallback 1", raw, p.Page)
		}
	}
}

func TestFromFeedQuery_ClampsPageSize(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"50", 50},
		{"0", 1},
		{"-5", 1},
		{"100", 100},
		{"5000", 100},
		{"junk", 10},
		{"", 10},
	}
	for _, c := range cases {
		p := listing.FromFeedQuery(url.Values{"page_size": {c.raw}}, 10)
		if p.PageSize != c.want {
			t.Fatalf("page_size %q -> %d, want %d", c.raw, p.PageSize, c.want)
		}
	}
}

func TestFromFeedQuery_MonthAndSort(t *testing.T) {
	p := listing.FromFeedQuery(url.Values{"month": {"10"}, "sort": {"asc"}}, 10)
	if p.Month != 10 || p.Sort != listing.SortAsc {
		t.Fatalf("params = %+v", p)
	}
	// Out-of-range months deactivate the filter rather than erroring.
	for _, raw := range []string{"0", "13", "x"} {
		p := listing.FromFeedQuery(url.Values{"month": {raw}}, 10)
		if p.Month != 0 {
			t.Fatalf("month %q -> %d, want 0", raw, p.Month)
		}
	}
}

// Eleven items at page size six must split 6 + 5 with has_next flipping
// between the pages.
func TestApply_ElevenItemsTwoPages(t *testing.T) {
	items := numbered(11)

	page1 := listing.Apply(items, params(1, 6), fields)
	if len(page1.Items) != 6 || !page1.HasNext || page1.Total != 11 {
		t.Fatalf("page 1 = %d items, hasNext %v, total %d", len(page1.Items), page1.HasNext, page1.Total)
	}

	page2 := listing.Apply(items, params(2, 6), fields)
	if len(page2.Items) != 5 || page2.HasNext {
		t.Fatalf("page 2 = %d items, hasNext %v", len(page2.Items), page2.HasNext)
	}
}

func TestApply_CategoryFilter(t *testing.T) {
	items := []item{
		{ID: "a", Category: "cap", Rank: 3},
		{ID: "b", Category: "jersey", Rank: 2},
		{ID: "c", Category: "cap", Rank: 1},
	}
	p := params(1, 6)
	p.Category = "cap"
	res := listing.Apply(items, p, fields)
	if res.Total != 2 {
		t.Fatalf("total = %d, want 2", res.Total)
	}
	for _, it := range res.Items {
		if it.Category != "cap" {
			t.Fatalf("item %s leaked through category filter", it.ID)
		}
	}
}

func TestApply_UnknownCategoryYieldsZeroMatches(t *testing.T) {
	p := params(1, 6)
	p.Category = "no-such-category"
	res := listing.Apply(numbered(5), p, fields)
	if res.Total != 0 || len(res.Items) != 0 || res.HasNext {
		t.Fatalf("unknown category produced %+v", res)
	}
}

// Against {"News 1", "News 2"} the query "News 1" matches only the first.
func TestApply_SearchSubstring(t *testing.T) {
	items := []item{
		{ID: "a", Title: "News 1", Rank: 2},
		{ID: "b", Title: "News 2", Rank: 1},
	}
	p := params(1, 6)
	p.Query = "News 1"
	res := listing.Apply(items, p, fields)
	if res.Total != 1 || res.Items[0].ID != "a" {
		t.Fatalf("search result = %+v", res.Items)
	}
}

func TestApply_SearchCaseInsensitiveAcrossFields(t *testing.T) {
	items := []item{
		{ID: "a", Title: "Garuda wins", Rank: 3},
		{ID: "b", Body: "the GARUDA squad", Rank: 2},
		{ID: "c", Title: "unrelated", Body: "nothing here", Rank: 1},
	}
	p := params(1, 6)
	p.Query = "garuda"
	res := listing.Apply(items, p, fields)
	if res.Total != 2 {
		t.Fatalf("total = %d, want 2 (title OR body)", res.Total)
	}
}

// Pagination overrun is a success with an empty window, never an error.
func TestApply_PageFarBeyondEnd(t *testing.T) {
	res := listing.Apply(numbered(5), params(999, 6), fields)
	if len(res.Items) != 0 || res.HasNext {
		t.Fatalf("overrun page = %d items, hasNext %v", len(res.Items), res.HasNext)
	}
	if res.Page != 999 || res.Total != 5 {
		t.Fatalf("envelope = %+v", res)
	}
}

func TestApply_MonthFilter(t *testing.T) {
	items := []item{
		{ID: "a", Month: 10, Rank: 4},
		{ID: "b", Month: 9, Rank: 3},
		{ID: "c", Month: 5, Rank: 2},
		{ID: "d", Month: 0, Rank: 1}, // null month
	}
	p := params(1, 6)
	p.Month = 10
	res := listing.Apply(items, p, fields)
	if res.Total != 1 || res.Items[0].ID != "a" {
		t.Fatalf("month filter result = %+v", res.Items)
	}
}

// asc must be the exact reversal of desc when ranks are unique.
func TestApply_SortAscReversesDesc(t *testing.T) {
	items := numbered(7)

	desc := listing.Apply(items, params(1, 100), fields)
	p := params(1, 100)
	p.Sort = listing.SortAsc
	asc := listing.Apply(items, p, fields)

	if len(desc.Items) != len(asc.Items) {
		t.Fatalf("lengths differ: %d vs %d", len(desc.Items), len(asc.Items))
	}
	for i := range desc.Items {
		if desc.Items[i].ID != asc.Items[len(asc.Items)-1-i].ID {
			t.Fatalf("asc is not the reversal of desc at index %d", i)
		}
	}
}

func TestApply_RankTiesBreakByID(t *testing.T) {
	items := []item{
		{ID: "b", Rank: 5},
		{ID: "a", Rank: 5},
		{ID: "c", Rank: 5},
	}
	res := listing.Apply(items, params(1, 6), fields)
	got := []string{res.Items[0].ID, res.Items[1].ID, res.Items[2].ID}
	if !slices.Equal(got, []string{"c", "b", "a"}) {
		t.Fatalf("desc tie order = %v, want [c b a]", got)
	}
}

func TestApply_Deterministic(t *testing.T) {
	items := numbered(20)
	first := listing.Apply(items, params(2, 6), fields)
	second := listing.Apply(items, params(2, 6), fields)
	for i := range first.Items {
		if first.Items[i].ID != second.Items[i].ID {
			t.Fatalf("identical requests diverged at index %d", i)
		}
	}
}

// Walking the pages until has_next goes false must reproduce the filtered,
// sorted set exactly once, with no gaps or overlaps.
func TestApply_PagesPartitionTheSet(t *testing.T) {
	items := numbered(23)

	var walked []string
	for page := 1; ; page++ {
		res := listing.Apply(items, params(page, 6), fields)
		for _, it := range res.Items {
			walked = append(walked, it.ID)
		}
		if !res.HasNext {
			break
		}
	}

	full := listing.Apply(items, params(1, 100), fields)
	var want []string
	for _, it := range full.Items {
		want = append(want, it.ID)
	}
	if !slices.Equal(walked, want) {
		t.Fatalf("concatenated pages != full set\n got %v\nwant %v", walked, want)
	}
	seen := map[string]bool{}
	for _, id := range walked {
		if seen[id] {
			t.Fatalf("item %s appeared in two windows", id)
		}
		seen[id] = true
	}
}

func TestWindow_HasNextBoundary(t *testing.T) {
	// hasNext is true iff page*pageSize < total.
	cases := []struct {
		page, size, total int
		want              bool
	}{
		{1, 6, 11, true},
		{2, 6, 11, false},
		{1, 6, 6, false},
		{1, 6, 7, true},
		{999, 6, 6, false},
	}
	for _, c := range cases {
		p := params(c.page, c.size)
		if _, _, got := p.Window(c.total); got != c.want {
			t.Fatalf("Window(page=%d size=%d total=%d) hasNext = %v, want %v",
				c.page, c.size, c.total, got, c.want)
		}
	}
}

func TestWindow_HandBuiltParamsAreSlicable(t *testing.T) {
	// FromQuery never yields Page < 1, but Window is exported and Apply
	// slices with its bounds, so degenerate Params must still produce a
	// valid [start, end) range.
	cases := []listing.Params{
		{Page: 0, PageSize: 6},
		{Page: -3, PageSize: 6},
		{Page: 1, PageSize: 0},
	}
	for _, p := range cases {
		start, end, _ := p.Window(11)
		if start < 0 || end < start || end > 11 {
			t.Fatalf("Window(%+v) = [%d, %d)", p, start, end)
		}
		res := listing.Apply(numbered(11), p, fields)
		if len(res.Items) > 11 {
			t.Fatalf("Apply(%+v) returned %d items", p, len(res.Items))
		}
	}
}

func TestPageOf_NilItemsBecomeEmptySlice(t *testing.T) {
	res := listing.PageOf[item](nil, params(1, 6), 0)
	if res.Items == nil {
		t.Fatal("Items must serialize as [] not null")
	}
}
