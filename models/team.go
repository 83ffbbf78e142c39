package models

import "time"

type Team struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	DivisionID     int        `json:"division_id"`
	OrganisationID int        `json:"organisation_id"`
	LogoURL        *string    `json:"logo_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// Watchlist is a device's subscription to a team's notifications.
type Watchlist struct {
	ID        int       `json:"id"`
	UserID    *int      `json:"user_id,omitempty"`
	DeviceID  string    `json:"device_id"`
	TeamID    int       `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
}
