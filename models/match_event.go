package models

import (
	"strconv"
	"time"
)

type EventCategory string

const (
	EventCategoryTimer EventCategory = "timer"
	EventCategoryScore EventCategory = "score"
	EventCategoryStat  EventCategory = "stat"
)

// Timer event types.
const (
	EventTypeStart       = "start"
	EventTypePause       = "pause"
	EventTypeResume      = "resume"
	EventTypePeriodStart = "periodStart"
	EventTypePeriodEnd   = "periodEnd"
	EventTypeExtraTime   = "extraTime"
)

// Score event types.
const (
	EventTypeUpdate = "update"
)

// MatchEvent is an immutable row in the append-only match log.
// Attributes are free-form key/value pairs; construction goes through
// the typed helpers below so call sites never hand-write keys.
type MatchEvent struct {
	ID              int           `json:"id"`
	MatchID         int           `json:"match_id"`
	EventCategory   EventCategory `json:"event_category"`
	Type            string        `json:"type"`
	EventTimestamp  time.Time     `json:"event_timestamp"`
	Period          int           `json:"period"`
	Attribute1Key   *string       `json:"attribute1_key,omitempty"`
	Attribute1Value *string       `json:"attribute1_value,omitempty"`
	Attribute2Key   *string       `json:"attribute2_key,omitempty"`
	Attribute2Value *string       `json:"attribute2_value,omitempty"`
	UserID          *int          `json:"user_id,omitempty"`
	Source          string        `json:"source,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

func strPtr(s string) *string { return &s }

// NewTimerEvent records a clock transition (start/pause/resume/extra).
func NewTimerEvent(matchID int, eventType string, at time.Time, period int, isBreak *bool, userID *int) *MatchEvent {
	ev := &MatchEvent{
		MatchID:        matchID,
		EventCategory:  EventCategoryTimer,
		Type:           eventType,
		EventTimestamp: at,
		Period:         period,
		UserID:         userID,
	}
	if isBreak != nil {
		ev.Attribute1Key = strPtr("isBreak")
		ev.Attribute1Value = strPtr(strconv.FormatBool(*isBreak))
	}
	return ev
}

// NewScoreEvent records both running scores at the moment of an update.
func NewScoreEvent(matchID int, at time.Time, period, team1Score, team2Score int, userID *int) *MatchEvent {
	return &MatchEvent{
		MatchID:         matchID,
		EventCategory:   EventCategoryScore,
		Type:            EventTypeUpdate,
		EventTimestamp:  at,
		Period:          period,
		Attribute1Key:   strPtr("team1score"),
		Attribute1Value: strPtr(strconv.Itoa(team1Score)),
		Attribute2Key:   strPtr("team2score"),
		Attribute2Value: strPtr(strconv.Itoa(team2Score)),
		UserID:          userID,
	}
}

// NewStatEvent records a per-action game statistic (goal, miss, foul)
// keyed by team sequence and position, with the player id when known.
func NewStatEvent(matchID int, gameStatCode string, at time.Time, period, teamSequence, positionID int, playerID *int, userID *int) *MatchEvent {
	ev := &MatchEvent{
		MatchID:         matchID,
		EventCategory:   EventCategoryStat,
		Type:            gameStatCode,
		EventTimestamp:  at,
		Period:          period,
		Attribute1Key:   strPtr("team" + strconv.Itoa(teamSequence)),
		Attribute1Value: strPtr(strconv.Itoa(positionID)),
		UserID:          userID,
	}
	if playerID != nil {
		ev.Attribute2Key = strPtr("playerId")
		ev.Attribute2Value = strPtr(strconv.Itoa(*playerID))
	}
	return ev
}
