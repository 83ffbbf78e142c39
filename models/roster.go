package models

import "time"

type RosterRole string

const (
	RoleManager RosterRole = "manager"
	RoleScorer  RosterRole = "scorer"
	RoleUmpire  RosterRole = "umpire"
	RolePlayer  RosterRole = "player"
)

// Roster assigns a user to a role for a team (and optionally a single
// match). Roster rows drive notification token collection.
type Roster struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	TeamID    int        `json:"team_id"`
	MatchID   *int       `json:"match_id,omitempty"`
	Role      RosterRole `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// MatchUmpire assigns an umpire to a match by sequence (umpire 1/2).
type MatchUmpire struct {
	ID             int       `json:"id"`
	MatchID        int       `json:"match_id"`
	UserID         *int      `json:"user_id,omitempty"`
	UmpireName     *string   `json:"umpire_name,omitempty"`
	SequenceNumber int       `json:"sequence_number"`
	CreatedAt      time.Time `json:"created_at"`
}

// Lineup marks a player as attending a match for a team.
type Lineup struct {
	ID       int  `json:"id"`
	MatchID  int  `json:"match_id"`
	TeamID   int  `json:"team_id"`
	PlayerID int  `json:"player_id"`
	Attended bool `json:"attended"`
}
