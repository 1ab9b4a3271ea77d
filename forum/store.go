package forum

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/dbopen"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/idgen"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/listing"
)

// Store provides forum persistence on the site database.
type Store struct {
	db     *sql.DB
	newID  idgen.Generator
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

// NewStore creates a forum store. Titles and author names are stripped of
// all markup; bodies keep the user-generated-content subset.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		newID:  idgen.Default,
		strict: bluemonday.StrictPolicy(),
		ugc:    bluemonday.UGCPolicy(),
	}
}

// EnsureDefaultCategories seeds the standard category set when the table is
// empty. Idempotent.
func (s *Store) EnsureDefaultCategories(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("forum: count categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	defaults := []struct{ name, slug string }{
		{"News", "news"},
		{"Player", "player"},
		{"Merch", "merch"},
		{"Ticket", "ticket"},
		{"Match", "match"},
	}
	for _, c := range defaults {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO categories (id, name, slug) VALUES (?, ?, ?)`,
			s.newID(), c.name, c.slug); err != nil {
			return fmt.Errorf("forum: seed category %s: %w", c.slug, err)
		}
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CreatePostInput carries the raw form values of a new post.
type CreatePostInput struct {
	Title        string
	AuthorName   string
	CategorySlug string
	Body         string
}

// CreatePost sanitizes, slugifies, and inserts a new published post. The
// excerpt is auto-derived from the first 220 characters of the body when the
// body survives sanitization.
func (s *Store) CreatePost(ctx context.Context, in CreatePostInput) (*Post, error) {
	title := strings.TrimSpace(s.strict.Sanitize(in.Title))
	body := strings.TrimSpace(s.ugc.Sanitize(in.Body))
	author := strings.TrimSpace(s.strict.Sanitize(in.AuthorName))
	if title == "" || body == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrInvalidInput)
	}
	if author == "" {
		author = "Anonim"
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE slug = ?`, in.CategorySlug).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("forum: check category: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.CategorySlug)
	}

	slug, err := s.uniqueSlug(ctx, title)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	p := &Post{
		ID:           s.newID(),
		Title:        title,
		Slug:         slug,
		AuthorName:   author,
		CategorySlug: in.CategorySlug,
		Excerpt:      excerpt(body),
		Body:         body,
		Status:       StatusPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, slug, author_name, category_slug, excerpt, body,
		status, like_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		p.ID, p.Title, p.Slug, p.AuthorName, p.CategorySlug, p.Excerpt, p.Body,
		p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("forum: insert post: %w", err)
	}
	return s.GetPost(ctx, slug)
}

// GetPost fetches a published post by slug.
func (s *Store) GetPost(ctx context.Context, slug string) (*Post, error) {
	row := s.db.QueryRowContext(ctx, selectPost+
		` WHERE p.slug = ? AND p.status = ?`, slug, StatusPublished)
	return scanPost(row)
}

const selectPost = `
	SELECT p.id, p.title, p.slug, p.author_name, p.category_slug, c.name,
	       p.excerpt, p.body, p.status, p.like_count, p.created_at, p.updated_at
	FROM posts p JOIN categories c ON c.slug = p.category_slug`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.AuthorName, &p.CategorySlug, &p.CategoryName,
		&p.Excerpt, &p.Body, &p.Status, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("forum: scan post: %w", err)
	}
	return &p, nil
}

// ListPosts runs the listing pipeline in SQL: published filter, category
// filter, substring search over title/body/excerpt, newest-first order with
// the post id breaking rank ties, count, then the page window. The count and
// the window are separate statements; a writer landing between them shifts
// Total by a row, which the listing contract tolerates.
func (s *Store) ListPosts(ctx context.Context, p listing.Params) (listing.Result[Post], error) {
	var zero listing.Result[Post]

	where := []string{"p.status = ?"}
	args := []any{StatusPublished}
	if p.HasCategory() {
		where = append(where, "p.category_slug = ?")
		args = append(args, p.Category)
	}
	if p.Query != "" {
		pattern := "%" + escapeLike(p.Query) + "%"
		where = append(where, `(p.title LIKE ? ESCAPE '\' OR p.body LIKE ? ESCAPE '\' OR p.excerpt LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	cond := strings.Join(where, " AND ")

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts p WHERE `+cond, args...).Scan(&total)
	if err != nil {
		return zero, fmt.Errorf("forum: count posts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		selectPost+` WHERE `+cond+` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`,
		append(args, p.PageSize, p.Offset())...)
	if err != nil {
		return zero, fmt.Errorf("forum: list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return zero, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return zero, err
	}
	return listing.PageOf(posts, p, total), nil
}

// CreateComment adds a comment to a published post.
func (s *Store) CreateComment(ctx context.Context, postSlug, author, body string) (*Comment, error) {
	post, err := s.GetPost(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	body = strings.TrimSpace(s.strict.Sanitize(body))
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", ErrInvalidInput)
	}
	author = strings.TrimSpace(s.strict.Sanitize(author))
	if author == "" {
		author = "Anonim"
	}
	c := &Comment{
		ID:         s.newID(),
		PostID:     post.ID,
		AuthorName: author,
		Body:       body,
		CreatedAt:  time.Now().UnixMilli(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, author_name, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.PostID, c.AuthorName, c.Body, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("forum: insert comment: %w", err)
	}
	return c, nil
}

// ListComments returns a post's comments oldest first.
func (s *Store) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, post_id, author_name, body, created_at
		FROM comments WHERE post_id = ? ORDER BY created_at, id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, rows.Err()
}

// ToggleLike flips the session's like for a post and returns the new state
// plus the post's like count. The whole toggle runs in one transaction so
// concurrent toggles from the same session cannot lose updates; like_count
// never drops below zero.
func (s *Store) ToggleLike(ctx context.Context, sessionID, postSlug string) (liked bool, count int, err error) {
	post, err := s.GetPost(ctx, postSlug)
	if err != nil {
		return false, 0, err
	}

	err = dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM post_likes WHERE session_id = ? AND post_id = ?`, sessionID, post.ID)
		if err != nil {
			return err
		}
		removed, _ := res.RowsAffected()
		if removed > 0 {
			liked = false
			_, err = tx.ExecContext(ctx,
				`UPDATE posts SET like_count = like_count - 1 WHERE id = ? AND like_count > 0`, post.ID)
			return err
		}
		liked = true
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_likes (session_id, post_id, created_at) VALUES (?, ?, ?)`,
			sessionID, post.ID, time.Now().UnixMilli()); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE posts SET like_count = like_count + 1 WHERE id = ?`, post.ID)
		return err
	})
	if err != nil {
		return false, 0, fmt.Errorf("forum: toggle like: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT like_count FROM posts WHERE id = ?`, post.ID).Scan(&count); err != nil {
		return liked, 0, fmt.Errorf("forum: read like count: %w", err)
	}
	return liked, count, nil
}

// LikedPostIDs returns the set of post ids the session has liked, for
// rendering the active state of like buttons.
func (s *Store) LikedPostIDs(ctx context.Context, sessionID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id FROM post_likes WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	liked := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		liked[id] = true
	}
	return liked, rows.Err()
}

// DeletePost removes a post by slug regardless of status. Comments and like
// rows cascade.
func (s *Store) DeletePost(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("forum: delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "post"
	}
	slug := base
	for i := 2; ; i++ {
		var count int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM posts WHERE slug = ?`, slug).Scan(&count); err != nil {
			return "", fmt.Errorf("forum: check slug: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Slugify lowercases s and collapses every non-alphanumeric run into a
// single hyphen, capped at 220 characters.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > 220 {
		out = out[:220]
	}
	return out
}

func excerpt(body string) string {
	runes := []rune(body)
	if len(runes) <= 220 {
		return body
	}
	return string(runes[:220])
}

// escapeLike escapes the LIKE wildcards so user queries match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
