// Package news implements articles: admin-curated content with category and
// month filters, a paged JSON feed, and the legacy JSON/XML dump endpoints.
package news

import "errors"

// FeedPageSize is the default page size of the news feed when the caller
// does not supply one.
const FeedPageSize = 10

var (
	ErrNotFound     = errors.New("news: not found")
	ErrInvalidInput = errors.New("news: invalid input")
)

// News is one article. PublishDate is a display string, kept verbatim from
// the editor; PublishedMonth (1..12, nil when unknown) backs the month
// filter on the feed.
type News struct {
	ID             string `json:"id" xml:"id,attr"`
	Title          string `json:"title" xml:"title"`
	Category       string `json:"category" xml:"category"`
	PublishDate    string `json:"publish_date" xml:"publish_date"`
	PublishedMonth *int   `json:"published_month" xml:"published_month,omitempty"`
	Content        string `json:"content" xml:"content"`
	CreatedAt      int64  `json:"created_at" xml:"created_at"`
}

// Schema contains the DDL for the news table.
const Schema = `
CREATE TABLE IF NOT EXISTS news (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    category TEXT NOT NULL,
    publish_date TEXT NOT NULL DEFAULT '',
    published_month INTEGER,
    content TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_news_month ON news(published_month);
CREATE INDEX IF NOT EXISTS idx_news_category ON news(category);
`
