// Package entity defines the domain entities for the fiction feature.
package entity

import (
	"strings"
	"time"
)

// Fiction is a user-authored text entry.
// CreatedBy is set once at creation and never changes.
type Fiction struct {
	ID          string
	Title       string
	Author      string
	Genre       string
	Description string
	Content     string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Genres is the fixed set of accepted genres, in their normalized form.
var Genres = []string{
	"fantasy",
	"sci-fi",
	"mystery",
	"romance",
	"thriller",
	"horror",
	"adventure",
	"drama",
	"comedy",
	"other",
}

// NormalizeGenre lowercases s and reports whether it is one of Genres.
func NormalizeGenre(s string) (string, bool) {
	g := strings.ToLower(s)
	for _, known := range Genres {
		if g == known {
			return g, true
		}
	}
	return "", false
}
