// Package squad implements the player roster: national-team players with up
// to three positions, a derived role tag, and career counters.
package squad

import (
	"errors"
	"strings"
	"time"
)

// PageSize is the roster page size.
const PageSize = 6

var (
	ErrNotFound     = errors.New("squad: not found")
	ErrInvalidInput = errors.New("squad: invalid input")
)

// Role tags group positions into the four roster sections.
const (
	RoleGoalkeeper = "GOALKEEPER"
	RoleDefender   = "DEFENDER"
	RoleMidfielder = "MIDFIELDER"
	RoleAttacker   = "ATTACKER"
)

// Positions is the allowed position set. Anything else is rejected on write.
var Positions = []string{
	"GK",
	"LWB", "LB", "CB", "RB", "RWB",
	"LM", "CM", "CDM", "CAM", "RM",
	"LW", "ST", "RW",
}

// ValidPosition reports whether pos is in the allowed set. The empty string
// is valid for position2 and position3.
func ValidPosition(pos string) bool {
	if pos == "" {
		return true
	}
	for _, v := range Positions {
		if v == pos {
			return true
		}
	}
	return false
}

// RoleTagFor derives the roster section from a primary position. Unknown or
// empty positions land in midfield.
func RoleTagFor(position string) string {
	switch position {
	case "GK":
		return RoleGoalkeeper
	case "LWB", "LB", "CB", "RB", "RWB":
		return RoleDefender
	case "LM", "CM", "CDM", "CAM", "RM":
		return RoleMidfielder
	case "LW", "ST", "RW":
		return RoleAttacker
	default:
		return RoleMidfielder
	}
}

// Player is one roster entry. BirthDate is a YYYY-MM-DD string or empty;
// HeightCm is 0 when unknown.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PhotoURL  string `json:"photo_url"`
	BirthDate string `json:"birth_date"`
	Club      string `json:"club"`
	HeightCm  int    `json:"height_cm"`
	Position1 string `json:"position1"`
	Position2 string `json:"position2"`
	Position3 string `json:"position3"`
	Caps      int    `json:"caps"`
	Goals     int    `json:"goals"`
	Assists   int    `json:"assists"`
	CreatedAt int64  `json:"created_at"`
}

// RoleTag is the roster section derived from the primary position.
func (p *Player) RoleTag() string {
	return RoleTagFor(p.Position1)
}

// PositionList returns the non-empty positions in order.
func (p *Player) PositionList() []string {
	out := make([]string, 0, 3)
	for _, pos := range []string{p.Position1, p.Position2, p.Position3} {
		if pos != "" {
			out = append(out, pos)
		}
	}
	return out
}

// PositionDisplay joins the positions for card rendering.
func (p *Player) PositionDisplay() string {
	return strings.Join(p.PositionList(), " / ")
}

// Age computes the player's age at now from BirthDate, or -1 when the birth
// date is unknown.
func (p *Player) Age(now time.Time) int {
	t, err := time.Parse("2006-01-02", p.BirthDate)
	if err != nil {
		return -1
	}
	years := now.Year() - t.Year()
	if now.Month() < t.Month() || (now.Month() == t.Month() && now.Day() < t.Day()) {
		years--
	}
	if years < 0 {
		return -1
	}
	return years
}

// Schema contains the DDL for the players table.
const Schema = `
CREATE TABLE IF NOT EXISTS players (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    photo_url TEXT NOT NULL DEFAULT '',
    birth_date TEXT NOT NULL DEFAULT '',
    club TEXT NOT NULL DEFAULT '',
    height_cm INTEGER NOT NULL DEFAULT 0,
    position1 TEXT NOT NULL DEFAULT '',
    position2 TEXT NOT NULL DEFAULT '',
    position3 TEXT NOT NULL DEFAULT '',
    caps INTEGER NOT NULL DEFAULT 0,
    goals INTEGER NOT NULL DEFAULT 0,
    assists INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_players_created ON players(created_at);
`
