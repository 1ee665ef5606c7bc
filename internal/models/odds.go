package models

import "time"

// BookQuote is one sportsbook's head-to-head money-line pair for a game.
// A nil price means the book did not quote that side.
type BookQuote struct {
	Title     string `json:"title"`
	HomePrice *int   `json:"home_price"`
	AwayPrice *int   `json:"away_price"`
}

// GameQuotes groups every book quote for one scheduled game.
type GameQuotes struct {
	ID           string      `json:"id"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	CommenceTime time.Time   `json:"commence_time"`
	Books        []BookQuote `json:"books"`
}

// IntPtr is a helper for building quotes in code and tests.
func IntPtr(v int) *int {
	return &v
}
