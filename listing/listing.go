// Package listing implements the shared filter/sort/pagination layer used by
// every paged collection in Garuda Spot (forum posts, news articles, merch).
//
// The processing order is fixed: category filter, then free-text search, then
// the optional month filter, then sort, then count, then the page window.
// Stores that push these operations into SQL must preserve the same order and
// the same envelope; Apply is the reference in-memory implementation.
package listing

import (
	"net/url"
	"slices"
	"strings"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/form"
)

const (
	// AllCategories is the reserved pseudo-category meaning "no filter".
	AllCategories = "all"

	// DefaultPageSize is the fixed page size for partial/AJAX listings.
	DefaultPageSize = 6

	// MinPageSize and MaxPageSize bound caller-supplied page sizes on the
	// feed paths. Partial paths never read page size from the request.
	MinPageSize = 1
	MaxPageSize = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params holds the normalized request parameters of one listing call.
// Zero-value fields mean "no filter"; construct via FromQuery or
// FromFeedQuery to get the defaulting behaviour.
type Params struct {
	Category string
	Query    string
	Page     int
	PageSize int
	Month    int    // 1..12, 0 = no month filter
	Sort     string // SortAsc or SortDesc
}

// FromQuery parses the fixed-page-size form of Params from a query string.
// Missing or malformed values fall back to defaults, never to an error:
// category defaults to "all", page to 1. pageSize is fixed by the caller.
func FromQuery(q url.Values, pageSize int) Params {
	category := q.Get("category")
	if category == "" {
		category = AllCategories
	}
	page := form.Int(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	return Params{
		Category: category,
		Query:    strings.TrimSpace(q.Get("q")),
		Page:     page,
		PageSize: pageSize,
		Sort:     SortDesc,
	}
}

// FromFeedQuery parses the feed form of Params: the caller may supply
// page_size (clamped to [MinPageSize, MaxPageSize]), a month filter (1..12),
// and a sort direction (asc|desc, default desc).
func FromFeedQuery(q url.Values, defaultSize int) Params {
	p := FromQuery(q, defaultSize)

	size := form.Int(q.Get("page_size"), defaultSize)
	if size == defaultSize && q.Get("page_size") == "" {
		size = form.Int(q.Get("pageSize"), defaultSize)
	}
	if size < MinPageSize {
		size = MinPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	p.PageSize = size

	if m := form.Int(q.Get("month"), 0); m >= 1 && m <= 12 {
		p.Month = m
	}
	if q.Get("sort") == SortAsc {
		p.Sort = SortAsc
	}
	return p
}

// HasCategory reports whether the category filter is active.
func (p Params) HasCategory() bool {
	return p.Category != "" && p.Category != AllCategories
}

// Offset is the start of the page window in the filtered, sorted set.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Window computes the [start, end) slice bounds for a filtered set of the
// given total size, plus whether a next page exists. A page beyond the last
// valid page yields an empty window (start == end); out-of-range pages are
// never an error on either consumption mode. Both bounds are clamped to
// [0, total] so a hand-built Params with Page < 1 stays safe to slice with.
func (p Params) Window(total int) (start, end int, hasNext bool) {
	start = p.Offset()
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end = start + p.PageSize
	if end > total {
		end = total
	}
	if end < start {
		end = start
	}
	return start, end, p.Offset()+p.PageSize < total
}

// Result is the listing envelope shared by the JSON feed endpoints and, via
// its Page/HasNext fields, the AJAX partial responses.
type Result[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasNext  bool `json:"has_next"`
}

// PageOf wraps an already-windowed slice in a Result. Stores that run the
// window in SQL use this after counting the filtered set.
func PageOf[T any](items []T, p Params, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	_, _, hasNext := p.Window(total)
	return Result[T]{
		Items:    items,
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    total,
		HasNext:  hasNext,
	}
}

// Fields describes how the generic engine reads a listable item. Search
// accessors are combined with logical OR; Month may be nil when the listing
// has no month attribute; Rank is the display rank (typically a creation
// timestamp) and ID breaks rank ties so pagination stays deterministic.
type Fields[T any] struct {
	Category func(T) string
	Search   []func(T) string
	Rank     func(T) int64
	ID       func(T) string
	Month    func(T) int
}

// Apply runs the full listing pipeline over an in-memory slice: category
// filter, case-insensitive substring search, month filter, stable sort,
// count, page window. It never mutates items.
func Apply[T any](items []T, p Params, f Fields[T]) Result[T] {
	matched := make([]T, 0, len(items))
	query := strings.ToLower(p.Query)
	for _, it := range items {
		if p.HasCategory() && f.Category(it) != p.Category {
			continue
		}
		if query != "" && !matchesAny(it, query, f.Search) {
			continue
		}
		if p.Month != 0 && (f.Month == nil || f.Month(it) != p.Month) {
			continue
		}
		matched = append(matched, it)
	}

	slices.SortStableFunc(matched, func(a, b T) int {
		c := compareRank(f.Rank(a), f.Rank(b))
		if c == 0 {
			c = strings.Compare(f.ID(a), f.ID(b))
		}
		if p.Sort == SortAsc {
			return c
		}
		return -c
	})

	total := len(matched)
	start, end, _ := p.Window(total)
	return PageOf(matched[start:end], p, total)
}

func matchesAny[T any](it T, query string, accessors []func(T) string) bool {
	for _, get := range accessors {
		if strings.Contains(strings.ToLower(get(it)), query) {
			return true
		}
	}
	return false
}

func compareRank(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
