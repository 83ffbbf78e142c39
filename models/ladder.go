package models

import "time"

// LadderStanding is one team's accumulated ladder row for a division.
type LadderStanding struct {
	ID              int       `json:"id"`
	DivisionID      int       `json:"division_id"`
	TeamID          int       `json:"team_id"`
	Points          int       `json:"points"`
	GamesPlayed     int       `json:"games_played"`
	Wins            int       `json:"wins"`
	Draws           int       `json:"draws"`
	Losses          int       `json:"losses"`
	ScoreFor        int       `json:"score_for"`
	ScoreAgainst    int       `json:"score_against"`
	ScoreDifference int       `json:"score_difference"`
	UpdatedAt       time.Time `json:"updated_at"`
}
