// Package forum implements threads: posts with categories, comments,
// session-keyed likes, and the paged listing behind the forum page and its
// AJAX partial.
package forum

import "errors"

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// PageSize is the fixed listing page size for the forum. Not user-controlled.
const PageSize = 6

var (
	ErrNotFound     = errors.New("forum: not found")
	ErrInvalidInput = errors.New("forum: invalid input")
)

// Category is a named partition of the forum.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post is one forum thread.
type Post struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	AuthorName   string `json:"author_name"`
	CategorySlug string `json:"category"`
	CategoryName string `json:"category_name"`
	Excerpt      string `json:"excerpt"`
	Body         string `json:"body"`
	Status       string `json:"status"`
	LikeCount    int    `json:"like_count"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// Comment is a reply on a post, listed oldest first.
type Comment struct {
	ID         string `json:"id"`
	PostID     string `json:"post_id"`
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
	CreatedAt  int64  `json:"created_at"`
}
