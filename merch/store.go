package merch

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

// Store provides merch persistence on the site database.
type Store struct {
	db     *sql.DB
	newID  idgen.Generator
	strict *bluemonday.Policy
}

// NewStore creates a merch store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		newID:  idgen.Default,
		strict: bluemonday.StrictPolicy(),
	}
}

// Input carries the normalized values of a product. Price and Stock are
// already parse-or-defaulted by the handler; the store only clamps category.
type Input struct {
	Name        string
	Vendor      string
	Price       int
	Stock       int
	Description string
	Thumbnail   string
	Category    string
	Link        string
}

// Create inserts a new product owned by userID. Name is required.
func (s *Store) Create(ctx context.Context, userID string, in Input) (*Merch, error) {
	name := strings.TrimSpace(s.strict.Sanitize(in.Name))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	category := in.Category
	if !ValidCategory(category) {
		category = "others"
	}
	m := &Merch{
		ID:          s.newID(),
		Name:        name,
		Vendor:      strings.TrimSpace(s.strict.Sanitize(in.Vendor)),
		Price:       max(in.Price, 0),
		Stock:       max(in.Stock, 0),
		Description: strings.TrimSpace(s.strict.Sanitize(in.Description)),
		Thumbnail:   strings.TrimSpace(in.Thumbnail),
		Category:    category,
		Link:        strings.TrimSpace(in.Link),
		UserID:      userID,
		CreatedAt:   time.Now().UnixMilli(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO merch (id, name, vendor, price, stock, description, thumbnail, category, link, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Vendor, m.Price, m.Stock, m.Description, m.Thumbnail, m.Category, m.Link, m.UserID, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("merch: insert: %w", err)
	}
	return m, nil
}

// Update replaces a product's fields.
func (s *Store) Update(ctx context.Context, id string, in Input) (*Merch, error) {
	name := strings.TrimSpace(s.strict.Sanitize(in.Name))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	category := in.Category
	if !ValidCategory(category) {
		category = "others"
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE merch SET name = ?, vendor = ?, price = ?, stock = ?, description = ?,
		thumbnail = ?, category = ?, link = ? WHERE id = ?`,
		name, strings.TrimSpace(s.strict.Sanitize(in.Vendor)), max(in.Price, 0), max(in.Stock, 0),
		strings.TrimSpace(s.strict.Sanitize(in.Description)), strings.TrimSpace(in.Thumbnail),
		category, strings.TrimSpace(in.Link), id)
	if err != nil {
		return nil, fmt.Errorf("merch: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a product.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM merch WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("merch: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectMerch = `SELECT id, name, vendor, price, stock, description, thumbnail, category, link, user_id, created_at FROM merch`

// Get fetches one product by id.
func (s *Store) Get(ctx context.Context, id string) (*Merch, error) {
	var m Merch
	err := s.db.QueryRowContext(ctx, selectMerch+` WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.Vendor, &m.Price, &m.Stock, &m.Description,
			&m.Thumbnail, &m.Category, &m.Link, &m.UserID, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("merch: get: %w", err)
	}
	return &m, nil
}

// ListAll returns every product newest first, for the dump endpoint.
func (s *Store) ListAll(ctx context.Context) ([]Merch, error) {
	rows, err := s.db.QueryContext(ctx, selectMerch+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// List runs the catalog listing pipeline in SQL: category filter, substring
// search over name and description, newest first, count, page window.
func (s *Store) List(ctx context.Context, p listing.Params) (listing.Result[Merch], error) {
	var zero listing.Result[Merch]

	where := []string{"1=1"}
	args := []any{}
	if p.HasCategory() {
		where = append(where, "category = ?")
		args = append(args, p.Category)
	}
	if p.Query != "" {
		pattern := "%" + escapeLike(p.Query) + "%"
		where = append(where, `(name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM merch WHERE `+cond, args...).Scan(&total); err != nil {
		return zero, fmt.Errorf("merch: count: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		selectMerch+` WHERE `+cond+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, p.PageSize, p.Offset())...)
	if err != nil {
		return zero, fmt.Errorf("merch: list: %w", err)
	}
	defer rows.Close()

	items, err := collect(rows)
	if err != nil {
		return zero, err
	}
	return listing.PageOf(items, p, total), nil
}

func collect(rows *sql.Rows) ([]Merch, error) {
	var items []Merch
	for rows.Next() {
		var m Merch
		if err := rows.Scan(&m.ID, &m.Name, &m.Vendor, &m.Price, &m.Stock, &m.Description,
			&m.Thumbnail, &m.Category, &m.Link, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("merch: scan: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
