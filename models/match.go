package models

import "time"

type MatchStatus string

const (
	// An unstarted match carries no status at all; the zero value stands
	// in for the original NULL column.
	MatchStatusStarted MatchStatus = "STARTED"
	MatchStatusPaused  MatchStatus = "PAUSED"
	MatchStatusEnded   MatchStatus = "ENDED"
)

type ScorerStatus string

const (
	ScorerStatusScorer1 ScorerStatus = "SCORER1"
	ScorerStatusScorer2 ScorerStatus = "SCORER2"
)

type Match struct {
	ID                  int          `json:"id"`
	DivisionID          int          `json:"division_id"`
	Team1ID             int          `json:"team1_id"`
	Team2ID             int          `json:"team2_id"`
	Team1Score          int          `json:"team1_score"`
	Team2Score          int          `json:"team2_score"`
	MatchStatus         MatchStatus  `json:"match_status,omitempty"`
	StartTime           *time.Time   `json:"start_time,omitempty"`
	OriginalStartTime   *time.Time   `json:"original_start_time,omitempty"`
	PauseStartTime      *time.Time   `json:"pause_start_time,omitempty"`
	TotalPausedMs       int64        `json:"total_paused_ms"`
	EndTime             *time.Time   `json:"end_time,omitempty"`
	ExtraStartTime      *time.Time   `json:"extra_start_time,omitempty"`
	ExtraExtraStartTime *time.Time   `json:"extra_extra_start_time,omitempty"`
	ScorerStatus        ScorerStatus `json:"scorer_status,omitempty"`
	CentrePassStatus    *string      `json:"centre_pass_status,omitempty"`
	CentrePassWonBy     *int         `json:"centre_pass_won_by,omitempty"`
	// MatchDuration is the scheduled playing time in milliseconds,
	// PeriodsCount the number of scoring segments. Both feed the
	// best-effort period timestamp estimate when no offsets are given.
	MatchDuration int        `json:"match_duration"`
	PeriodsCount  int        `json:"periods_count"`
	Team1ResultID *int       `json:"team1_result_id,omitempty"`
	Team2ResultID *int       `json:"team2_result_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// InPlay reports whether the match clock is running or merely paused.
func (m *Match) InPlay() bool {
	return m.MatchStatus == MatchStatusStarted || m.MatchStatus == MatchStatusPaused
}
