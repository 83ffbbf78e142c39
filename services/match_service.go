package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtside/competition-system/models"
	"github.com/courtside/competition-system/repositories"
)

// Lifecycle notification subtypes.
const (
	subtypeMatchStarted  = "match_started"
	subtypeMatchPaused   = "match_paused"
	subtypeMatchResumed  = "match_resumed"
	subtypeMatchEnded    = "match_ended"
	subtypeMatchRestart  = "match_restarted"
	subtypeScorerChanged = "scorer_changed"
)

type CreateMatchInput struct {
	DivisionID    int        `json:"division_id"`
	Team1ID       int        `json:"team1_id"`
	Team2ID       int        `json:"team2_id"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	MatchDuration int        `json:"match_duration"`
	PeriodsCount  int        `json:"periods_count"`
}

// MatchService owns the match lifecycle: the temporal status machine
// (unstarted -> STARTED -> PAUSED <-> STARTED -> ENDED, with restart
// forcing back to STARTED) and the side effects each transition
// carries: timer events into the append-only log and a lifecycle push.
type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, teamID *int, status *models.MatchStatus) ([]*models.Match, error)
	Delete(ctx context.Context, id int) error

	Start(ctx context.Context, matchID int, msFromStart *int64, userID *int) (*models.Match, error)
	Pause(ctx context.Context, matchID int, msFromStart *int64, isBreak bool, period int, userID *int) (*models.Match, error)
	Resume(ctx context.Context, matchID int, msFromStart, pausedMs *int64, isBreak bool, period int, userID *int) (*models.Match, error)
	End(ctx context.Context, matchID int, scores PeriodScoresInput, msFromStart, startedMsFromStart *int64, userID *int) (*models.Match, error)
	Restart(ctx context.Context, matchID int, timeInMilliseconds int64, clearAttendance bool, userID *int) (*models.Match, error)
	StartExtraTime(ctx context.Context, matchID int, msFromStart *int64, period int, isExtraExtra bool, userID *int) (*models.Match, error)
	ChangeScorer(ctx context.Context, matchID int, scorerStatus models.ScorerStatus, userID *int) (*models.Match, error)
	SendBulkUpdate(ctx context.Context, matchIDs []int, userID *int) ([]*models.Match, error)
}

type matchService struct {
	transactor     repositories.Transactor
	matchRepo      repositories.MatchRepository
	scoresRepo     repositories.MatchScoresRepository
	pausedTimeRepo repositories.MatchPausedTimeRepository
	umpireRepo     repositories.MatchUmpireRepository
	lineupRepo     repositories.LineupRepository
	eventService   MatchEventService
	notifier       Notifier
	ladderService  LadderService
	logger         *slog.Logger
}

func NewMatchService(
	transactor repositories.Transactor,
	matchRepo repositories.MatchRepository,
	scoresRepo repositories.MatchScoresRepository,
	pausedTimeRepo repositories.MatchPausedTimeRepository,
	umpireRepo repositories.MatchUmpireRepository,
	lineupRepo repositories.LineupRepository,
	eventService MatchEventService,
	notifier Notifier,
	ladderService LadderService,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		transactor:     transactor,
		matchRepo:      matchRepo,
		scoresRepo:     scoresRepo,
		pausedTimeRepo: pausedTimeRepo,
		umpireRepo:     umpireRepo,
		lineupRepo:     lineupRepo,
		eventService:   eventService,
		notifier:       notifier,
		ladderService:  ladderService,
		logger:         logger,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.Team1ID == 0 || input.Team2ID == 0 {
		return nil, ErrTeamRequired
	}
	match := &models.Match{
		DivisionID:    input.DivisionID,
		Team1ID:       input.Team1ID,
		Team2ID:       input.Team2ID,
		StartTime:     input.StartTime,
		MatchDuration: input.MatchDuration,
		PeriodsCount:  input.PeriodsCount,
		ScorerStatus:  models.ScorerStatusScorer1,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, fmt.Errorf("%w: match: %w", ErrSaveFailed, err)
	}
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return s.loadMatch(ctx, id)
}

func (s *matchService) List(ctx context.Context, teamID *int, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx, teamID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// Delete soft-deletes the match row; its event, score and paused-time
// history stays behind as the audit trail.
func (s *matchService) Delete(ctx context.Context, id int) error {
	if err := s.matchRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return nil
}

// Start moves the match to STARTED. The previous scheduled start is
// preserved in originalStartTime; the new clock origin is the old
// startTime shifted by msFromStart, or now when the match never had
// one.
func (s *matchService) Start(ctx context.Context, matchID int, msFromStart *int64, userID *int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var newStart time.Time
	if match.StartTime != nil {
		original := *match.StartTime
		match.OriginalStartTime = &original
		newStart = original
		if msFromStart != nil {
			newStart = original.Add(time.Duration(*msFromStart) * time.Millisecond)
		}
	} else {
		newStart = now
	}
	match.StartTime = &newStart
	match.MatchStatus = models.MatchStatusStarted

	if err := s.updateMatch(ctx, match); err != nil {
		return nil, err
	}

	if err := s.eventService.LogTimerEvent(ctx, match.ID, models.EventTypeStart, newStart, 1, nil, userID); err != nil {
		return nil, err
	}

	s.notifier.SendMatchEvent(ctx, match, false, NotifyOptions{UserID: userID, Subtype: subtypeMatchStarted})
	return match, nil
}

func (s *matchService) Pause(ctx context.Context, matchID int, msFromStart *int64, isBreak bool, period int, userID *int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.InPlay() {
		return nil, ErrMatchNotInPlay
	}

	now := time.Now()
	match.PauseStartTime = &now
	match.MatchStatus = models.MatchStatusPaused

	if err := s.updateMatch(ctx, match); err != nil {
		return nil, err
	}

	if err := s.eventService.LogTimerEvent(ctx, match.ID, models.EventTypePause, now, period, &isBreak, userID); err != nil {
		return nil, err
	}

	s.notifier.SendMatchEvent(ctx, match, false, NotifyOptions{UserID: userID, Subtype: subtypeMatchPaused})
	return match, nil
}

// Resume adds the paused interval to totalPausedMs and returns the
// match to STARTED. The interval is the explicit pausedMs when given;
// otherwise it falls back to msFromStart - (pauseStartTime - startTime),
// preserved as-is from the original scoring flow even though it mixes
// a relative offset with an absolute difference.
func (s *matchService) Resume(ctx context.Context, matchID int, msFromStart, pausedMs *int64, isBreak bool, period int, userID *int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.InPlay() {
		return nil, ErrMatchNotInPlay
	}

	var totalPausedTime int64
	switch {
	case pausedMs != nil:
		totalPausedTime = *pausedMs
	case msFromStart != nil && match.PauseStartTime != nil && match.StartTime != nil:
		totalPausedTime = *msFromStart - match.PauseStartTime.Sub(*match.StartTime).Milliseconds()
	}

	match.TotalPausedMs += totalPausedTime
	match.MatchStatus = models.MatchStatusStarted

	if err := s.updateMatch(ctx, match); err != nil {
		return nil, err
	}

	pausedRow := &models.MatchPausedTime{
		MatchID:       match.ID,
		Period:        period,
		IsBreak:       isBreak,
		TotalPausedMs: match.TotalPausedMs,
	}
	if err := s.pausedTimeRepo.Create(ctx, nil, pausedRow); err != nil {
		return nil, fmt.Errorf("%w: paused time for match %d: %w", ErrSaveFailed, match.ID, err)
	}

	if err := s.eventService.LogTimerEvent(ctx, match.ID, models.EventTypeResume, time.Now(), period, &isBreak, userID); err != nil {
		return nil, err
	}

	s.notifier.SendMatchEvent(ctx, match, false, NotifyOptions{UserID: userID, Subtype: subtypeMatchResumed})
	return match, nil
}

// End records the final period scores, closes the match and folds it
// into the division ladder. The ladder fold runs once per match: a
// re-sent end request may still touch the final scores, but an ENDED
// match has already been counted and must not be counted again.
func (s *matchService) End(ctx context.Context, matchID int, scores PeriodScoresInput, msFromStart, startedMsFromStart *int64, userID *int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	alreadyEnded := match.MatchStatus == models.MatchStatusEnded

	match, err = s.eventService.RecordPeriodScore(ctx, match, scores, msFromStart, startedMsFromStart)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	match.EndTime = &now
	match.MatchStatus = models.MatchStatusEnded

	if err := s.updateMatch(ctx, match); err != nil {
		return nil, err
	}

	if s.ladderService != nil && !alreadyEnded {
		if err := s.ladderService.RecomputeForMatches(ctx, []*models.Match{match}); err != nil {
			// Ladder points are derived data; a recompute failure must
			// not undo the end transition.
			s.logger.Error("ladder recompute failed",
				slog.Int("match_id", match.ID), slog.Any("error", err))
		}
	}

	s.notifier.SendMatchEvent(ctx, match, false, NotifyOptions{UserID: userID, Subtype: subtypeMatchEnded})
	return match, nil
}

// Restart forces the match back to STARTED with a clean slate: zeroed
// scores, cleared result/end/pause fields and a fresh start time. The
// period score snapshots go with it; the event log does not.
func (s *matchService) Restart(ctx context.Context, matchID int, timeInMilliseconds int64, clearAttendance bool, userID *int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	newStart := time.Now().Add(time.Duration(timeInMilliseconds) * time.Millisecond)
	match.Team1Score = 0
	match.Team2Score = 0
	match.Team1ResultID = nil
	match.Team2ResultID = nil
	match.EndTime = nil
	match.StartTime = &newStart
	match.MatchStatus = models.MatchStatusStarted
	match.PauseStartTime = nil
	match.TotalPausedMs = 0
	match.ScorerStatus = models.ScorerStatusScorer1

	err = s.transactor.InTx(ctx, func(tx repositories.SQLExecutor) error {
		if err := s.matchRepo.Update(ctx, tx, match); err != nil {
			return fmt.Errorf("%w: match %d restart: %w", ErrUpdateFailed, match.ID, err)
		}
		if err := s.scoresRepo.DeleteByMatch(ctx, tx, match.ID); err != nil {
			return err
		}
		if clearAttendance {
			if err := s.lineupRepo.DeleteByMatch(ctx, tx, match.ID); err != nil {
				return err
			}
			if err := s.umpireRepo.DeleteByMatch(ctx, tx, match.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.eventService.LogTimerEvent(ctx, match.ID, models.EventTypeStart, newStart, 1, nil, userID); err != nil {
		return nil, err
	}

	s.notifier.SendMatchEvent(ctx, match, false, NotifyOptions{UserID: userID, Subtype: subtypeMatchRestart})
	return match, nil
}

func (s *matchService) StartExtraTime(ctx context.Context, matchID int, msFromStart *int64, period int, isExtraExtra bool, userID *int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	extraStart := time.Now()
	if match.StartTime != nil && msFromStart != nil {
		extraStart = match.StartTime.Add(time.Duration(*msFromStart) * time.Millisecond)
	}
	if isExtraExtra {
		match.ExtraExtraStartTime = &extraStart
	} else {
		match.ExtraStartTime = &extraStart
	}

	if err := s.updateMatch(ctx, match); err != nil {
		return nil, err
	}

	if err := s.eventService.LogTimerEvent(ctx, match.ID, models.EventTypeExtraTime, extraStart, period, nil, userID); err != nil {
		return nil, err
	}
	return match, nil
}

// ChangeScorer hands write authority to the other scorer. Advisory
// only: nothing at the data layer stops the previous scorer from
// writing, concurrent updates stay last-write-wins.
func (s *matchService) ChangeScorer(ctx context.Context, matchID int, scorerStatus models.ScorerStatus, userID *int) (*models.Match, error) {
	if scorerStatus != models.ScorerStatusScorer1 && scorerStatus != models.ScorerStatusScorer2 {
		return nil, ErrInvalidScorerStatus
	}

	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	match.ScorerStatus = scorerStatus
	if err := s.updateMatch(ctx, match); err != nil {
		return nil, err
	}

	s.notifier.SendMatchEvent(ctx, match, false, NotifyOptions{UserID: userID, Subtype: subtypeScorerChanged})
	return match, nil
}

// SendBulkUpdate pushes a single bulk notification covering every
// listed match, for admin flows that touch a whole round at once.
func (s *matchService) SendBulkUpdate(ctx context.Context, matchIDs []int, userID *int) ([]*models.Match, error) {
	if len(matchIDs) == 0 {
		return nil, fmt.Errorf("%w: match ids are required", ErrValidationFailed)
	}

	matches := make([]*models.Match, 0, len(matchIDs))
	for _, id := range matchIDs {
		match, err := s.loadMatch(ctx, id)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	s.notifier.SendBulkMatchUpdateNotification(ctx, matches, NotifyOptions{UserID: userID})
	return matches, nil
}

func (s *matchService) loadMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return match, nil
}

func (s *matchService) updateMatch(ctx context.Context, match *models.Match) error {
	if err := s.matchRepo.Update(ctx, nil, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("%w: match %d: %w", ErrUpdateFailed, match.ID, err)
	}
	return nil
}
