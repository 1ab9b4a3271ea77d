// Package ticket implements ticket sales: upcoming matches and the vendor
// links selling tickets for each, with nested JSON and interleaved XML dumps.
package ticket

import "errors"

var (
	ErrNotFound     = errors.New("ticket: not found")
	ErrInvalidInput = errors.New("ticket: invalid input")
)

// Match is one fixture sold through the ticket page. Links hold the vendor
// offers in insertion order.
type Match struct {
	ID       int64  `json:"id" xml:"id"`
	UUID     string `json:"uuid" xml:"uuid"`
	Team1    string `json:"team1" xml:"team1"`
	Team2    string `json:"team2" xml:"team2"`
	ImgTeam1 string `json:"img_team1" xml:"img-team1"`
	ImgTeam2 string `json:"img_team2" xml:"img-team2"`
	ImgCup   string `json:"img_cup" xml:"img-cup"`
	Place    string `json:"place" xml:"place"`
	Date     string `json:"date" xml:"date"`
	Links    []Link `json:"links" xml:"-"`
}

// Link is one vendor offer for a match.
type Link struct {
	UUID       string `json:"uuid" xml:"uuid"`
	Vendor     string `json:"vendor" xml:"vendor"`
	VendorLink string `json:"vendor_link" xml:"vendor-link"`
	Price      int    `json:"price" xml:"price"`
	ImgVendor  string `json:"img_vendor" xml:"img-vendor"`
	MatchID    int64  `json:"match_id" xml:"match-id"`
}

// Schema contains the DDL for the ticket tables. Matches keep a rowid id so
// links can reference them compactly; the uuid is the public handle.
const Schema = `
CREATE TABLE IF NOT EXISTS ticket_matches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uuid TEXT NOT NULL UNIQUE,
    team1 TEXT NOT NULL,
    team2 TEXT NOT NULL,
    img_team1 TEXT NOT NULL DEFAULT '',
    img_team2 TEXT NOT NULL DEFAULT '',
    img_cup TEXT NOT NULL DEFAULT '',
    place TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS ticket_links (
    uuid TEXT PRIMARY KEY,
    vendor TEXT NOT NULL,
    vendor_link TEXT NOT NULL DEFAULT '',
    price INTEGER NOT NULL DEFAULT 0,
    img_vendor TEXT NOT NULL DEFAULT '',
    match_id INTEGER NOT NULL REFERENCES ticket_matches(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_ticket_links_match ON ticket_links(match_id);
`
