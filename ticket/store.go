package ticket

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Store provides ticket persistence on the site database.
type Store struct {
	db     *sql.DB
	newID  func() string
	strict *bluemonday.Policy
}

// NewStore creates a ticket store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		newID:  func() string { return uuid.NewString() },
		strict: bluemonday.StrictPolicy(),
	}
}

// MatchInput carries the normalized values of a ticket match.
type MatchInput struct {
	Team1    string
	Team2    string
	ImgTeam1 string
	ImgTeam2 string
	ImgCup   string
	Place    string
	Date     string
}

// LinkInput carries the normalized values of a vendor link.
type LinkInput struct {
	Vendor     string
	VendorLink string
	Price      int
	ImgVendor  string
}

func (s *Store) sanitizeMatch(in MatchInput) (MatchInput, error) {
	in.Team1 = strings.TrimSpace(s.strict.Sanitize(in.Team1))
	in.Team2 = strings.TrimSpace(s.strict.Sanitize(in.Team2))
	if in.Team1 == "" || in.Team2 == "" {
		return in, fmt.Errorf("%w: both teams are required", ErrInvalidInput)
	}
	in.Place = strings.TrimSpace(s.strict.Sanitize(in.Place))
	in.Date = strings.TrimSpace(in.Date)
	return in, nil
}

// CreateMatch inserts a new ticket match.
func (s *Store) CreateMatch(ctx context.Context, in MatchInput) (*Match, error) {
	in, err := s.sanitizeMatch(in)
	if err != nil {
		return nil, err
	}
	m := &Match{
		UUID:     s.newID(),
		Team1:    in.Team1,
		Team2:    in.Team2,
		ImgTeam1: strings.TrimSpace(in.ImgTeam1),
		ImgTeam2: strings.TrimSpace(in.ImgTeam2),
		ImgCup:   strings.TrimSpace(in.ImgCup),
		Place:    in.Place,
		Date:     in.Date,
		Links:    []Link{},
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO ticket_matches (uuid, team1, team2, img_team1, img_team2, img_cup, place, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.UUID, m.Team1, m.Team2, m.ImgTeam1, m.ImgTeam2, m.ImgCup, m.Place, m.Date)
	if err != nil {
		return nil, fmt.Errorf("ticket: insert match: %w", err)
	}
	m.ID, _ = res.LastInsertId()
	return m, nil
}

// UpdateMatch replaces a match's fields, addressed by uuid.
func (s *Store) UpdateMatch(ctx context.Context, matchUUID string, in MatchInput) (*Match, error) {
	in, err := s.sanitizeMatch(in)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE ticket_matches SET team1 = ?, team2 = ?, img_team1 = ?, img_team2 = ?,
		img_cup = ?, place = ?, date = ? WHERE uuid = ?`,
		in.Team1, in.Team2, strings.TrimSpace(in.ImgTeam1), strings.TrimSpace(in.ImgTeam2),
		strings.TrimSpace(in.ImgCup), in.Place, in.Date, matchUUID)
	if err != nil {
		return nil, fmt.Errorf("ticket: update match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetMatch(ctx, matchUUID)
}

// DeleteMatch removes a match and, via the FK cascade, its links.
func (s *Store) DeleteMatch(ctx context.Context, matchUUID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ticket_matches WHERE uuid = ?`, matchUUID)
	if err != nil {
		return fmt.Errorf("ticket: delete match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateLink adds a vendor link to the match addressed by uuid.
func (s *Store) CreateLink(ctx context.Context, matchUUID string, in LinkInput) (*Link, error) {
	vendor := strings.TrimSpace(s.strict.Sanitize(in.Vendor))
	if vendor == "" {
		return nil, fmt.Errorf("%w: vendor is required", ErrInvalidInput)
	}
	var matchID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM ticket_matches WHERE uuid = ?`, matchUUID).Scan(&matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ticket: lookup match: %w", err)
	}
	l := &Link{
		UUID:       s.newID(),
		Vendor:     vendor,
		VendorLink: strings.TrimSpace(in.VendorLink),
		Price:      max(in.Price, 0),
		ImgVendor:  strings.TrimSpace(in.ImgVendor),
		MatchID:    matchID,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ticket_links (uuid, vendor, vendor_link, price, img_vendor, match_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.UUID, l.Vendor, l.VendorLink, l.Price, l.ImgVendor, l.MatchID)
	if err != nil {
		return nil, fmt.Errorf("ticket: insert link: %w", err)
	}
	return l, nil
}

// UpdateLink replaces a vendor link's fields.
func (s *Store) UpdateLink(ctx context.Context, linkUUID string, in LinkInput) (*Link, error) {
	vendor := strings.TrimSpace(s.strict.Sanitize(in.Vendor))
	if vendor == "" {
		return nil, fmt.Errorf("%w: vendor is required", ErrInvalidInput)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE ticket_links SET vendor = ?, vendor_link = ?, price = ?, img_vendor = ?
		WHERE uuid = ?`,
		vendor, strings.TrimSpace(in.VendorLink), max(in.Price, 0),
		strings.TrimSpace(in.ImgVendor), linkUUID)
	if err != nil {
		return nil, fmt.Errorf("ticket: update link: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	var l Link
	err = s.db.QueryRowContext(ctx,
		`SELECT uuid, vendor, vendor_link, price, img_vendor, match_id
		FROM ticket_links WHERE uuid = ?`, linkUUID).
		Scan(&l.UUID, &l.Vendor, &l.VendorLink, &l.Price, &l.ImgVendor, &l.MatchID)
	if err != nil {
		return nil, fmt.Errorf("ticket: get link: %w", err)
	}
	return &l, nil
}

// DeleteLink removes one vendor link.
func (s *Store) DeleteLink(ctx context.Context, linkUUID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ticket_links WHERE uuid = ?`, linkUUID)
	if err != nil {
		return fmt.Errorf("ticket: delete link: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectMatch = `SELECT id, uuid, team1, team2, img_team1, img_team2, img_cup, place, date FROM ticket_matches`

// GetMatch fetches one match with its links, addressed by uuid.
func (s *Store) GetMatch(ctx context.Context, matchUUID string) (*Match, error) {
	var m Match
	err := s.db.QueryRowContext(ctx, selectMatch+` WHERE uuid = ?`, matchUUID).
		Scan(&m.ID, &m.UUID, &m.Team1, &m.Team2, &m.ImgTeam1, &m.ImgTeam2, &m.ImgCup, &m.Place, &m.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ticket: get match: %w", err)
	}
	links, err := s.linksFor(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m.Links = links
	return &m, nil
}

// List returns every match with its links nested, both in insertion order.
func (s *Store) List(ctx context.Context) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, selectMatch+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.UUID, &m.Team1, &m.Team2,
			&m.ImgTeam1, &m.ImgTeam2, &m.ImgCup, &m.Place, &m.Date); err != nil {
			return nil, fmt.Errorf("ticket: scan match: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		links, err := s.linksFor(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Links = links
	}
	return items, nil
}

func (s *Store) linksFor(ctx context.Context, matchID int64) ([]Link, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uuid, vendor, vendor_link, price, img_vendor, match_id
		FROM ticket_links WHERE match_id = ? ORDER BY rowid`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []Link{}
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.UUID, &l.Vendor, &l.VendorLink, &l.Price, &l.ImgVendor, &l.MatchID); err != nil {
			return nil, fmt.Errorf("ticket: scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
