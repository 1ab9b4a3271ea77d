package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/form"
)

// Store provides match persistence on the site database.
type Store struct {
	db     *sql.DB
	newID  func() string
	strict *bluemonday.Policy
}

// NewStore creates a schedule store. Match ids are plain UUIDs so the
// legacy dump URLs keep working.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		newID:  func() string { return uuid.NewString() },
		strict: bluemonday.StrictPolicy(),
	}
}

// Input carries the normalized values of a fixture.
type Input struct {
	HomeTeam         string
	AwayTeam         string
	HomeCode         string
	AwayCode         string
	MatchDate        string
	Location         string
	Category         string
	HomeScore        int
	AwayScore        int
	CategoryImageURL string
	Lineup           string
	Review           string
	Home             Stats
	Away             Stats
}

func (s *Store) sanitize(in Input) (Input, error) {
	in.HomeTeam = strings.TrimSpace(s.strict.Sanitize(in.HomeTeam))
	in.AwayTeam = strings.TrimSpace(s.strict.Sanitize(in.AwayTeam))
	if in.HomeTeam == "" || in.AwayTeam == "" {
		return in, fmt.Errorf("%w: both teams are required", ErrInvalidInput)
	}
	if _, ok := form.Date(in.MatchDate); !ok {
		return in, fmt.Errorf("%w: match_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	in.HomeCode = strings.ToUpper(strings.TrimSpace(in.HomeCode))
	in.AwayCode = strings.ToUpper(strings.TrimSpace(in.AwayCode))
	in.Location = strings.TrimSpace(s.strict.Sanitize(in.Location))
	in.Category = strings.TrimSpace(s.strict.Sanitize(in.Category))
	in.Lineup = strings.TrimSpace(s.strict.Sanitize(in.Lineup))
	in.Review = strings.TrimSpace(s.strict.Sanitize(in.Review))
	return in, nil
}

const matchCols = `id, home_team, away_team, home_code, away_code, match_date, location, category,
home_score, away_score, category_image_url, lineup, review,
home_shots, home_shots_on_target, home_possession, home_passes, home_pass_accuracy,
home_fouls, home_yellow_cards, home_red_cards, home_offsides, home_corners,
away_shots, away_shots_on_target, away_possession, away_passes, away_pass_accuracy,
away_fouls, away_yellow_cards, away_red_cards, away_offsides, away_corners`

func matchArgs(m *Match) []any {
	return []any{
		m.ID, m.HomeTeam, m.AwayTeam, m.HomeCode, m.AwayCode, m.MatchDate, m.Location, m.Category,
		m.HomeScore, m.AwayScore, m.CategoryImageURL, m.Lineup, m.Review,
		m.Home.Shots, m.Home.ShotsOnTarget, m.Home.Possession, m.Home.Passes, m.Home.PassAccuracy,
		m.Home.Fouls, m.Home.YellowCards, m.Home.RedCards, m.Home.Offsides, m.Home.Corners,
		m.Away.Shots, m.Away.ShotsOnTarget, m.Away.Possession, m.Away.Passes, m.Away.PassAccuracy,
		m.Away.Fouls, m.Away.YellowCards, m.Away.RedCards, m.Away.Offsides, m.Away.Corners,
	}
}

// Create inserts a new fixture.
func (s *Store) Create(ctx context.Context, in Input) (*Match, error) {
	in, err := s.sanitize(in)
	if err != nil {
		return nil, err
	}
	m := fromInput(s.newID(), in)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", 33), ", ")
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO matches (`+matchCols+`) VALUES (`+placeholders+`)`, matchArgs(m)...)
	if err != nil {
		return nil, fmt.Errorf("schedule: insert: %w", err)
	}
	return m, nil
}

// Update replaces a fixture's fields.
func (s *Store) Update(ctx context.Context, id string, in Input) (*Match, error) {
	in, err := s.sanitize(in)
	if err != nil {
		return nil, err
	}
	m := fromInput(id, in)
	res, err := s.db.ExecContext(ctx,
		`UPDATE matches SET home_team = ?, away_team = ?, home_code = ?, away_code = ?,
		match_date = ?, location = ?, category = ?, home_score = ?, away_score = ?,
		category_image_url = ?, lineup = ?, review = ?,
		home_shots = ?, home_shots_on_target = ?, home_possession = ?, home_passes = ?, home_pass_accuracy = ?,
		home_fouls = ?, home_yellow_cards = ?, home_red_cards = ?, home_offsides = ?, home_corners = ?,
		away_shots = ?, away_shots_on_target = ?, away_possession = ?, away_passes = ?, away_pass_accuracy = ?,
		away_fouls = ?, away_yellow_cards = ?, away_red_cards = ?, away_offsides = ?, away_corners = ?
		WHERE id = ?`, append(matchArgs(m)[1:], id)...)
	if err != nil {
		return nil, fmt.Errorf("schedule: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return m, nil
}

// Delete removes a fixture.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("schedule: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get fetches one fixture by id.
func (s *Store) Get(ctx context.Context, id string) (*Match, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+matchCols+` FROM matches WHERE id = ?`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("schedule: get: %w", err)
	}
	return m, nil
}

// List returns every fixture, newest match date first.
func (s *Store) List(ctx context.Context) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+matchCols+` FROM matches ORDER BY match_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("schedule: scan: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

func fromInput(id string, in Input) *Match {
	return &Match{
		ID:               id,
		HomeTeam:         in.HomeTeam,
		AwayTeam:         in.AwayTeam,
		HomeCode:         in.HomeCode,
		AwayCode:         in.AwayCode,
		MatchDate:        in.MatchDate,
		Location:         in.Location,
		Category:         in.Category,
		HomeScore:        max(in.HomeScore, 0),
		AwayScore:        max(in.AwayScore, 0),
		CategoryImageURL: strings.TrimSpace(in.CategoryImageURL),
		Lineup:           in.Lineup,
		Review:           in.Review,
		Home:             in.Home,
		Away:             in.Away,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*Match, error) {
	var m Match
	err := row.Scan(
		&m.ID, &m.HomeTeam, &m.AwayTeam, &m.HomeCode, &m.AwayCode, &m.MatchDate, &m.Location, &m.Category,
		&m.HomeScore, &m.AwayScore, &m.CategoryImageURL, &m.Lineup, &m.Review,
		&m.Home.Shots, &m.Home.ShotsOnTarget, &m.Home.Possession, &m.Home.Passes, &m.Home.PassAccuracy,
		&m.Home.Fouls, &m.Home.YellowCards, &m.Home.RedCards, &m.Home.Offsides, &m.Home.Corners,
		&m.Away.Shots, &m.Away.ShotsOnTarget, &m.Away.Possession, &m.Away.Passes, &m.Away.PassAccuracy,
		&m.Away.Fouls, &m.Away.YellowCards, &m.Away.RedCards, &m.Away.Offsides, &m.Away.Corners,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
