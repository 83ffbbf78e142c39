package models

import "time"

// MatchScores is a per-period score snapshot, one row per
// (match_id, period), upserted as periods complete.
type MatchScores struct {
	ID         int       `json:"id"`
	MatchID    int       `json:"match_id"`
	Period     int       `json:"period"`
	Team1Score int       `json:"team1_score"`
	Team2Score int       `json:"team2_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// MatchPausedTime records one pause/resume cycle and the cumulative
// paused duration for the period it happened in.
type MatchPausedTime struct {
	ID           int       `json:"id"`
	MatchID      int       `json:"match_id"`
	Period       int       `json:"period"`
	IsBreak      bool      `json:"is_break"`
	TotalPausedMs int64    `json:"total_paused_ms"`
	CreatedAt    time.Time `json:"created_at"`
}
