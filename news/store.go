package news

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/idgen"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/listing"
)

// Store provides news persistence on the site database.
type Store struct {
	db     *sql.DB
	newID  idgen.Generator
	strict *bluemonday.Policy
}

// NewStore creates a news store. All text inputs are stripped of markup on
// write; article ids are UUIDv7 so id order is publication order.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		newID:  idgen.Default,
		strict: bluemonday.StrictPolicy(),
	}
}

// Input carries the raw form values of a news article.
type Input struct {
	Title          string
	Category       string
	PublishDate    string
	PublishedMonth *int
	Content        string
}

func (s *Store) sanitize(in Input) Input {
	in.Title = strings.TrimSpace(s.strict.Sanitize(in.Title))
	in.Category = strings.TrimSpace(s.strict.Sanitize(in.Category))
	in.PublishDate = strings.TrimSpace(s.strict.Sanitize(in.PublishDate))
	in.Content = strings.TrimSpace(s.strict.Sanitize(in.Content))
	if in.PublishedMonth != nil && (*in.PublishedMonth < 1 || *in.PublishedMonth > 12) {
		in.PublishedMonth = nil
	}
	return in
}

// Create inserts a new article. Title, category, and content are required.
func (s *Store) Create(ctx context.Context, in Input) (*News, error) {
	in = s.sanitize(in)
	if in.Title == "" || in.Category == "" || in.Content == "" {
		return nil, fmt.Errorf("%w: title, category, content are required", ErrInvalidInput)
	}
	n := &News{
		ID:             s.newID(),
		Title:          in.Title,
		Category:       in.Category,
		PublishDate:    in.PublishDate,
		PublishedMonth: in.PublishedMonth,
		Content:        in.Content,
		CreatedAt:      time.Now().UnixMilli(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO news (id, title, category, publish_date, published_month, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Category, n.PublishDate, nullableMonth(n.PublishedMonth), n.Content, n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("news: insert: %w", err)
	}
	return n, nil
}

// Update replaces an article's editable fields. Same required-field rule as
// Create.
func (s *Store) Update(ctx context.Context, id string, in Input) (*News, error) {
	in = s.sanitize(in)
	if in.Title == "" || in.Category == "" || in.Content == "" {
		return nil, fmt.Errorf("%w: title, category, content are required", ErrInvalidInput)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE news SET title = ?, category = ?, publish_date = ?, published_month = ?, content = ?
		WHERE id = ?`,
		in.Title, in.Category, in.PublishDate, nullableMonth(in.PublishedMonth), in.Content, id)
	if err != nil {
		return nil, fmt.Errorf("news: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes an article by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("news: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectNews = `SELECT id, title, category, publish_date, published_month, content, created_at FROM news`

// Get fetches one article by id.
func (s *Store) Get(ctx context.Context, id string) (*News, error) {
	row := s.db.QueryRowContext(ctx, selectNews+` WHERE id = ?`, id)
	n, err := scanNews(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return n, err
}

// ListAll returns every article newest first, for the dump endpoints.
func (s *Store) ListAll(ctx context.Context) ([]News, error) {
	rows, err := s.db.QueryContext(ctx, selectNews+` ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNews(rows)
}

// List runs the feed listing pipeline in SQL: category filter, substring
// search over title and content, month filter, sort by publication order
// (id, since ids are UUIDv7), count, page window.
func (s *Store) List(ctx context.Context, p listing.Params) (listing.Result[News], error) {
	var zero listing.Result[News]

	where := []string{"1=1"}
	args := []any{}
	if p.HasCategory() {
		where = append(where, "category = ?")
		args = append(args, p.Category)
	}
	if p.Query != "" {
		pattern := "%" + escapeLike(p.Query) + "%"
		where = append(where, `(title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if p.Month != 0 {
		where = append(where, "published_month = ?")
		args = append(args, p.Month)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM news WHERE `+cond, args...).Scan(&total); err != nil {
		return zero, fmt.Errorf("news: count: %w", err)
	}

	order := "ORDER BY id DESC"
	if p.Sort == listing.SortAsc {
		order = "ORDER BY id ASC"
	}
	rows, err := s.db.QueryContext(ctx,
		selectNews+` WHERE `+cond+` `+order+` LIMIT ? OFFSET ?`,
		append(args, p.PageSize, p.Offset())...)
	if err != nil {
		return zero, fmt.Errorf("news: list: %w", err)
	}
	defer rows.Close()

	items, err := collectNews(rows)
	if err != nil {
		return zero, err
	}
	return listing.PageOf(items, p, total), nil
}

func scanNews(row interface{ Scan(...any) error }) (*News, error) {
	var n News
	var month sql.NullInt64
	if err := row.Scan(&n.ID, &n.Title, &n.Category, &n.PublishDate, &month, &n.Content, &n.CreatedAt); err != nil {
		return nil, err
	}
	if month.Valid {
		m := int(month.Int64)
		n.PublishedMonth = &m
	}
	return &n, nil
}

func collectNews(rows *sql.Rows) ([]News, error) {
	var items []News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("news: scan: %w", err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

func nullableMonth(m *int) any {
	if m == nil {
		return nil
	}
	return *m
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
