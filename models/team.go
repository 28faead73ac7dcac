package models

import "time"

const DefaultTeamColor = "#D0620D"

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Captain   *string   `json:"captain,omitempty" db:"captain"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	// Computed at read time, never persisted.
	PlayerCount int    `json:"players" db:"-"`
	Initials    string `json:"initials,omitempty" db:"-"`
}

// TeamDetail is a team together with its current roster.
type TeamDetail struct {
	Team    Team     `json:"team"`
	Players []Player `json:"players"`
}
