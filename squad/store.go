package squad

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/form"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/idgen"
)

// Store provides player persistence on the site database.
type Store struct {
	db     *sql.DB
	newID  idgen.Generator
	strict *bluemonday.Policy
}

// NewStore creates a squad store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		newID:  idgen.Default,
		strict: bluemonday.StrictPolicy(),
	}
}

// Input carries the normalized values of a player.
type Input struct {
	Name      string
	PhotoURL  string
	BirthDate string
	Club      string
	HeightCm  int
	Position1 string
	Position2 string
	Position3 string
	Caps      int
	Goals     int
	Assists   int
}

func (s *Store) sanitize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(s.strict.Sanitize(in.Name))
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	// Unknown positions are dropped, not rejected; a player with no
	// recognized position reads as a midfielder via RoleTagFor.
	for _, pos := range []*string{&in.Position1, &in.Position2, &in.Position3} {
		if !ValidPosition(*pos) {
			*pos = ""
		}
	}
	if in.BirthDate != "" {
		if _, ok := form.Date(in.BirthDate); !ok {
			return in, fmt.Errorf("%w: birth_date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
	in.Club = strings.TrimSpace(s.strict.Sanitize(in.Club))
	if in.HeightCm < 0 {
		in.HeightCm = 0
	}
	return in, nil
}

const selectPlayer = `SELECT id, name, photo_url, birth_date, club, height_cm,
position1, position2, position3, caps, goals, assists, created_at FROM players`

// Create inserts a new player.
func (s *Store) Create(ctx context.Context, in Input) (*Player, error) {
	in, err := s.sanitize(in)
	if err != nil {
		return nil, err
	}
	p := fromInput(s.newID(), time.Now().UnixMilli(), in)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO players (id, name, photo_url, birth_date, club, height_cm,
		position1, position2, position3, caps, goals, assists, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.PhotoURL, p.BirthDate, p.Club, p.HeightCm,
		p.Position1, p.Position2, p.Position3, p.Caps, p.Goals, p.Assists, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("squad: insert: %w", err)
	}
	return p, nil
}

// Update replaces a player's fields. CreatedAt is preserved.
func (s *Store) Update(ctx context.Context, id string, in Input) (*Player, error) {
	in, err := s.sanitize(in)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE players SET name = ?, photo_url = ?, birth_date = ?, club = ?, height_cm = ?,
		position1 = ?, position2 = ?, position3 = ?, caps = ?, goals = ?, assists = ?
		WHERE id = ?`,
		in.Name, in.PhotoURL, in.BirthDate, in.Club, in.HeightCm,
		in.Position1, in.Position2, in.Position3,
		max(in.Caps, 0), max(in.Goals, 0), max(in.Assists, 0), id)
	if err != nil {
		return nil, fmt.Errorf("squad: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a player.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("squad: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get fetches one player by id.
func (s *Store) Get(ctx context.Context, id string) (*Player, error) {
	row := s.db.QueryRowContext(ctx, selectPlayer+` WHERE id = ?`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("squad: get: %w", err)
	}
	return p, nil
}

// ListAll returns the whole roster in join order, oldest entry first with
// name as tiebreak. The role filter runs in memory because the role tag is
// derived from position1, not stored.
func (s *Store) ListAll(ctx context.Context) ([]Player, error) {
	rows, err := s.db.QueryContext(ctx,
		selectPlayer+` ORDER BY created_at, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("squad: scan: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func fromInput(id string, createdAt int64, in Input) *Player {
	return &Player{
		ID:        id,
		Name:      in.Name,
		PhotoURL:  in.PhotoURL,
		BirthDate: in.BirthDate,
		Club:      in.Club,
		HeightCm:  in.HeightCm,
		Position1: in.Position1,
		Position2: in.Position2,
		Position3: in.Position3,
		Caps:      max(in.Caps, 0),
		Goals:     max(in.Goals, 0),
		Assists:   max(in.Assists, 0),
		CreatedAt: createdAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*Player, error) {
	var p Player
	err := row.Scan(&p.ID, &p.Name, &p.PhotoURL, &p.BirthDate, &p.Club, &p.HeightCm,
		&p.Position1, &p.Position2, &p.Position3, &p.Caps, &p.Goals, &p.Assists, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
