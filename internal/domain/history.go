package domain

import "time"

// HistoryEntry is one recorded search in a user's history, most recent first.
type HistoryEntry struct {
	Query      string    `json:"query"`
	Filters    FilterSet `json:"filters"`
	SearchedAt time.Time `json:"searched_at"`
}

// PopularQuery is a globally counted normalized query string.
type PopularQuery struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}
