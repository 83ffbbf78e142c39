package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtside/competition-system/live"
	"github.com/courtside/competition-system/models"
	"github.com/courtside/competition-system/repositories"
)

// LiveBroadcaster pushes score frames to websocket subscribers.
// Satisfied by *live.Hub.
type LiveBroadcaster interface {
	BroadcastMatch(matchID int, msg live.Message)
}

// PeriodScoresInput is the per-period snapshot submitted when a period
// completes (or when a match ends).
type PeriodScoresInput struct {
	MatchID    int  `json:"match_id"`
	Period     int  `json:"period"`
	Team1Score int  `json:"team1_score"`
	Team2Score int  `json:"team2_score"`
}

type UpdateScoreInput struct {
	MatchID          int
	Team1Score       int
	Team2Score       int
	Period           int
	TeamSequence     int
	PositionID       int
	PlayerID         *int
	GameStatCode     string
	CentrePassStatus *string
	UserID           *int
}

type UpdateStatsInput struct {
	MatchID      int
	Period       int
	TeamSequence int
	PositionID   int
	PlayerID     *int
	GameStatCode string
	UserID       *int
}

// MatchEventService is the score and event recorder: it appends to the
// immutable match log and keeps the match row's denormalized scores in
// sync. It never reorders events and never deduplicates; the caller
// owns event ordering.
type MatchEventService interface {
	RecordPeriodScore(ctx context.Context, match *models.Match, scores PeriodScoresInput, msFromStart, startedMsFromStart *int64) (*models.Match, error)
	UpdateScore(ctx context.Context, input UpdateScoreInput) (*models.Match, error)
	UpdateStats(ctx context.Context, input UpdateStatsInput) error
	LogTimerEvent(ctx context.Context, matchID int, eventType string, at time.Time, period int, isBreak *bool, userID *int) error
	FindByParams(ctx context.Context, matchID int, filter repositories.MatchEventFilter) ([]*models.MatchEvent, error)
	ListByMatch(ctx context.Context, matchID int, limit int) ([]*models.MatchEvent, error)
	DeleteByMatch(ctx context.Context, matchID int) (int64, error)
}

type matchEventService struct {
	matchRepo  repositories.MatchRepository
	eventRepo  repositories.MatchEventRepository
	scoresRepo repositories.MatchScoresRepository
	notifier   Notifier
	hub        LiveBroadcaster
	logger     *slog.Logger
}

func NewMatchEventService(
	matchRepo repositories.MatchRepository,
	eventRepo repositories.MatchEventRepository,
	scoresRepo repositories.MatchScoresRepository,
	notifier Notifier,
	hub LiveBroadcaster,
	logger *slog.Logger,
) MatchEventService {
	return &matchEventService{
		matchRepo:  matchRepo,
		eventRepo:  eventRepo,
		scoresRepo: scoresRepo,
		notifier:   notifier,
		hub:        hub,
		logger:     logger,
	}
}

// RecordPeriodScore upserts the MatchScores row for (match, period) and
// refreshes the match row when the submitted scores differ from its
// denormalized copy. It always appends periodStart/periodEnd timer
// events; timestamps come from the supplied clock offsets when present,
// otherwise from a proportional estimate over the scheduled duration.
func (s *matchEventService) RecordPeriodScore(ctx context.Context, match *models.Match, scores PeriodScoresInput, msFromStart, startedMsFromStart *int64) (*models.Match, error) {
	if scores.Period <= 0 {
		return nil, ErrPeriodRequired
	}

	existing, err := s.scoresRepo.GetByMatchAndPeriod(ctx, nil, match.ID, scores.Period)
	switch {
	case err == nil:
		existing.Team1Score = scores.Team1Score
		existing.Team2Score = scores.Team2Score
		if updateErr := s.scoresRepo.Update(ctx, nil, existing); updateErr != nil {
			return nil, fmt.Errorf("%w: period scores for match %d period %d: %w", ErrUpdateFailed, match.ID, scores.Period, updateErr)
		}
	case errors.Is(err, repositories.ErrMatchScoresNotFound):
		row := &models.MatchScores{
			MatchID:    match.ID,
			Period:     scores.Period,
			Team1Score: scores.Team1Score,
			Team2Score: scores.Team2Score,
		}
		if createErr := s.scoresRepo.Create(ctx, nil, row); createErr != nil {
			return nil, fmt.Errorf("%w: period scores for match %d period %d: %w", ErrSaveFailed, match.ID, scores.Period, createErr)
		}
	default:
		return nil, fmt.Errorf("failed to look up period scores for match %d: %w", match.ID, err)
	}

	if scores.Team1Score != match.Team1Score || scores.Team2Score != match.Team2Score {
		if updateErr := s.matchRepo.UpdateScores(ctx, match.ID, scores.Team1Score, scores.Team2Score, nil); updateErr != nil {
			return nil, fmt.Errorf("%w: match %d scores: %w", ErrUpdateFailed, match.ID, updateErr)
		}
		match.Team1Score = scores.Team1Score
		match.Team2Score = scores.Team2Score
		s.notifier.SendMatchEvent(ctx, match, true, NotifyOptions{})
		s.broadcastScore(match)
	}

	periodStart, periodEnd := s.periodWindow(match, scores.Period, msFromStart, startedMsFromStart)
	if err := s.appendTimerEvent(ctx, match.ID, models.EventTypePeriodStart, periodStart, scores.Period, nil, nil); err != nil {
		return nil, err
	}
	if err := s.appendTimerEvent(ctx, match.ID, models.EventTypePeriodEnd, periodEnd, scores.Period, nil, nil); err != nil {
		return nil, err
	}

	return match, nil
}

// periodWindow resolves the period boundary timestamps. Explicit clock
// offsets win; without them the window is estimated as an equal split
// of matchDuration across periodsCount.
func (s *matchEventService) periodWindow(match *models.Match, period int, msFromStart, startedMsFromStart *int64) (time.Time, time.Time) {
	base := time.Now()
	if match.StartTime != nil {
		base = *match.StartTime
	}

	if startedMsFromStart != nil && msFromStart != nil {
		return base.Add(time.Duration(*startedMsFromStart) * time.Millisecond),
			base.Add(time.Duration(*msFromStart) * time.Millisecond)
	}

	periodsCount := match.PeriodsCount
	if periodsCount <= 0 {
		periodsCount = 4
	}
	periodDuration := time.Duration(match.MatchDuration/periodsCount) * time.Millisecond
	start := base.Add(time.Duration(period-1) * periodDuration)
	return start, start.Add(periodDuration)
}

// UpdateScore unconditionally overwrites the match scores (and the
// centre pass status when given), then appends a score/update event,
// plus a stat event iff a game stat code accompanies the change.
func (s *matchEventService) UpdateScore(ctx context.Context, input UpdateScoreInput) (*models.Match, error) {
	if input.GameStatCode != "" && input.TeamSequence != 1 && input.TeamSequence != 2 {
		return nil, ErrInvalidTeamSequence
	}

	match, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", input.MatchID, err)
	}

	if err := s.matchRepo.UpdateScores(ctx, match.ID, input.Team1Score, input.Team2Score, input.CentrePassStatus); err != nil {
		return nil, fmt.Errorf("%w: match %d scores: %w", ErrUpdateFailed, match.ID, err)
	}
	match.Team1Score = input.Team1Score
	match.Team2Score = input.Team2Score
	if input.CentrePassStatus != nil {
		match.CentrePassStatus = input.CentrePassStatus
	}

	now := time.Now()
	scoreEvent := models.NewScoreEvent(match.ID, now, input.Period, input.Team1Score, input.Team2Score, input.UserID)
	if err := s.eventRepo.Create(ctx, nil, scoreEvent); err != nil {
		return nil, fmt.Errorf("%w: score event for match %d: %w", ErrSaveFailed, match.ID, err)
	}

	if input.GameStatCode != "" {
		statEvent := models.NewStatEvent(match.ID, input.GameStatCode, now, input.Period,
			input.TeamSequence, input.PositionID, input.PlayerID, input.UserID)
		if err := s.eventRepo.Create(ctx, nil, statEvent); err != nil {
			return nil, fmt.Errorf("%w: stat event for match %d: %w", ErrSaveFailed, match.ID, err)
		}
	}

	s.notifier.SendMatchEvent(ctx, match, true, NotifyOptions{UserID: input.UserID})
	s.broadcastScore(match)

	return match, nil
}

// UpdateStats appends only a stat event; scores are untouched. Used for
// non-scoring actions such as fouls and turnovers.
func (s *matchEventService) UpdateStats(ctx context.Context, input UpdateStatsInput) error {
	if input.GameStatCode == "" {
		return ErrValidationFailed
	}
	if input.TeamSequence != 1 && input.TeamSequence != 2 {
		return ErrInvalidTeamSequence
	}

	match, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to load match %d: %w", input.MatchID, err)
	}

	statEvent := models.NewStatEvent(match.ID, input.GameStatCode, time.Now(), input.Period,
		input.TeamSequence, input.PositionID, input.PlayerID, input.UserID)
	if err := s.eventRepo.Create(ctx, nil, statEvent); err != nil {
		return fmt.Errorf("%w: stat event for match %d: %w", ErrSaveFailed, match.ID, err)
	}
	return nil
}

func (s *matchEventService) LogTimerEvent(ctx context.Context, matchID int, eventType string, at time.Time, period int, isBreak *bool, userID *int) error {
	return s.appendTimerEvent(ctx, matchID, eventType, at, period, isBreak, userID)
}

func (s *matchEventService) appendTimerEvent(ctx context.Context, matchID int, eventType string, at time.Time, period int, isBreak *bool, userID *int) error {
	event := models.NewTimerEvent(matchID, eventType, at, period, isBreak, userID)
	if err := s.eventRepo.Create(ctx, nil, event); err != nil {
		return fmt.Errorf("%w: %s event for match %d: %w", ErrSaveFailed, eventType, matchID, err)
	}
	return nil
}

// FindByParams surfaces the heuristic signature lookup used by score
// and stat corrections: the most recent N events matching category,
// type and attribute pairs.
func (s *matchEventService) FindByParams(ctx context.Context, matchID int, filter repositories.MatchEventFilter) ([]*models.MatchEvent, error) {
	events, err := s.eventRepo.FindByParams(ctx, matchID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find events for match %d: %w", matchID, err)
	}
	return events, nil
}

func (s *matchEventService) ListByMatch(ctx context.Context, matchID int, limit int) ([]*models.MatchEvent, error) {
	events, err := s.eventRepo.ListByMatch(ctx, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for match %d: %w", matchID, err)
	}
	return events, nil
}

// DeleteByMatch is the administrative bulk cleanup; the only path that
// removes rows from the otherwise append-only log.
func (s *matchEventService) DeleteByMatch(ctx context.Context, matchID int) (int64, error) {
	deleted, err := s.eventRepo.DeleteByMatch(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete events for match %d: %w", matchID, err)
	}
	s.logger.Info("match events deleted",
		slog.Int("match_id", matchID), slog.Int64("count", deleted))
	return deleted, nil
}

func (s *matchEventService) broadcastScore(match *models.Match) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastMatch(match.ID, live.Message{
		Type:    live.MessageTypeScoreUpdated,
		MatchID: match.ID,
		Payload: map[string]interface{}{
			"team1_score": match.Team1Score,
			"team2_score": match.Team2Score,
			"updated_at":  time.Now().UnixMilli(),
		},
	})
}
