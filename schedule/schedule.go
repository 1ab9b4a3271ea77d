// Package schedule implements the match schedule: fixtures with scores,
// lineups, and per-side match statistics, plus JSON/XML dumps for external
// widgets.
package schedule

import "errors"

var (
	ErrNotFound     = errors.New("schedule: not found")
	ErrInvalidInput = errors.New("schedule: invalid input")
)

// Match is one fixture. Stats hold the home/away sides of the same ten
// statistics; StatRows pairs them up for the detail view.
type Match struct {
	ID               string `json:"id" xml:"id"`
	HomeTeam         string `json:"home_team" xml:"home-team"`
	AwayTeam         string `json:"away_team" xml:"away-team"`
	HomeCode         string `json:"home_code" xml:"home-code"`
	AwayCode         string `json:"away_code" xml:"away-code"`
	MatchDate        string `json:"match_date" xml:"match-date"`
	Location         string `json:"location" xml:"location"`
	Category         string `json:"category" xml:"category"`
	HomeScore        int    `json:"home_score" xml:"home-score"`
	AwayScore        int    `json:"away_score" xml:"away-score"`
	CategoryImageURL string `json:"category_image_url" xml:"category-image-url"`
	Lineup           string `json:"lineup" xml:"lineup"`
	Review           string `json:"review" xml:"review"`
	Home             Stats  `json:"home_stats" xml:"home-stats"`
	Away             Stats  `json:"away_stats" xml:"away-stats"`
}

// Stats is one side's match statistics.
type Stats struct {
	Shots         int `json:"shots" xml:"shots"`
	ShotsOnTarget int `json:"shots_on_target" xml:"shots-on-target"`
	Possession    int `json:"possession" xml:"possession"`
	Passes        int `json:"passes" xml:"passes"`
	PassAccuracy  int `json:"pass_accuracy" xml:"pass-accuracy"`
	Fouls         int `json:"fouls" xml:"fouls"`
	YellowCards   int `json:"yellow_cards" xml:"yellow-cards"`
	RedCards      int `json:"red_cards" xml:"red-cards"`
	Offsides      int `json:"offsides" xml:"offsides"`
	Corners       int `json:"corners" xml:"corners"`
}

// StatRow is one detail-view statistic with both sides' values.
type StatRow struct {
	Label string `json:"label"`
	Home  int    `json:"home"`
	Away  int    `json:"away"`
}

// StatRows returns the detail-view statistics in display order.
func (m *Match) StatRows() []StatRow {
	return []StatRow{
		{"Shots", m.Home.Shots, m.Away.Shots},
		{"Shots on Target", m.Home.ShotsOnTarget, m.Away.ShotsOnTarget},
		{"Possession", m.Home.Possession, m.Away.Possession},
		{"Passes", m.Home.Passes, m.Away.Passes},
		{"Pass Accuracy", m.Home.PassAccuracy, m.Away.PassAccuracy},
		{"Fouls", m.Home.Fouls, m.Away.Fouls},
		{"Yellow Cards", m.Home.YellowCards, m.Away.YellowCards},
		{"Red Cards", m.Home.RedCards, m.Away.RedCards},
		{"Offsides", m.Home.Offsides, m.Away.Offsides},
		{"Corners", m.Home.Corners, m.Away.Corners},
	}
}

// Schema contains the DDL for the matches table.
const Schema = `
CREATE TABLE IF NOT EXISTS matches (
    id TEXT PRIMARY KEY,
    home_team TEXT NOT NULL,
    away_team TEXT NOT NULL,
    home_code TEXT NOT NULL DEFAULT '',
    away_code TEXT NOT NULL DEFAULT '',
    match_date TEXT NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    home_score INTEGER NOT NULL DEFAULT 0,
    away_score INTEGER NOT NULL DEFAULT 0,
    category_image_url TEXT NOT NULL DEFAULT '',
    lineup TEXT NOT NULL DEFAULT '',
    review TEXT NOT NULL DEFAULT '',
    home_shots INTEGER NOT NULL DEFAULT 0,
    home_shots_on_target INTEGER NOT NULL DEFAULT 0,
    home_possession INTEGER NOT NULL DEFAULT 0,
    home_passes INTEGER NOT NULL DEFAULT 0,
    home_pass_accuracy INTEGER NOT NULL DEFAULT 0,
    home_fouls INTEGER NOT NULL DEFAULT 0,
    home_yellow_cards INTEGER NOT NULL DEFAULT 0,
    home_red_cards INTEGER NOT NULL DEFAULT 0,
    home_offsides INTEGER NOT NULL DEFAULT 0,
    home_corners INTEGER NOT NULL DEFAULT 0,
    away_shots INTEGER NOT NULL DEFAULT 0,
    away_shots_on_target INTEGER NOT NULL DEFAULT 0,
    away_possession INTEGER NOT NULL DEFAULT 0,
    away_passes INTEGER NOT NULL DEFAULT 0,
    away_pass_accuracy INTEGER NOT NULL DEFAULT 0,
    away_fouls INTEGER NOT NULL DEFAULT 0,
    away_yellow_cards INTEGER NOT NULL DEFAULT 0,
    away_red_cards INTEGER NOT NULL DEFAULT 0,
    away_offsides INTEGER NOT NULL DEFAULT 0,
    away_corners INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_matches_date ON matches(match_date);
`
