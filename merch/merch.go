// Package merch implements the merchandise catalog: user-submitted products
// with a fixed category set, price/stock fields that parse-or-default, and a
// filterable paged listing.
package merch

import "errors"

// PageSize is the fixed catalog page size.
const PageSize = 6

var (
	ErrNotFound     = errors.New("merch: not found")
	ErrInvalidInput = errors.New("merch: invalid input")
)

// Categories is the fixed category set. Anything else coerces to "others".
var Categories = []string{"cap", "hoodie", "jacket", "jersey", "keychain", "scarf", "others"}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Merch is one catalog product.
type Merch struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Vendor      string `json:"vendor"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Category    string `json:"category"`
	Link        string `json:"link"`
	UserID      string `json:"user_id"`
	CreatedAt   int64  `json:"created_at"`
}

// Schema contains the DDL for the merch table.
const Schema = `
CREATE TABLE IF NOT EXISTS merch (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    vendor TEXT NOT NULL DEFAULT '',
    price INTEGER NOT NULL DEFAULT 0,
    stock INTEGER NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    thumbnail TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT 'others',
    link TEXT NOT NULL DEFAULT '',
    user_id TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_merch_category ON merch(category);
`
