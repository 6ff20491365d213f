package project

import "time"

// DefaultColor is the accent applied when a project is created without a color.
const DefaultColor = "#4A9EFF"

// MaxNameLength bounds project names.
const MaxNameLength = 100

// Project is a named bucket that sessions are tracked against
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	Archived  bool      `json:"archived"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Archived     bool      `json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
	SessionCount int       `json:"session_count"`
	TotalSeconds int64     `json:"total_seconds"`
}
