package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/courtside/competition-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

type matchServiceFixture struct {
	svc         MatchService
	events      *fakeEventService
	notifier    *fakeNotifier
	pausedTimes *fakePausedTimeRepo
	ladder      *fakeLadderService
	scores      *fakeScoresRepo
	umpires     *fakeUmpireRepo
	lineups     *fakeLineupRepo
	transactor  *fakeTransactor
}

func newMatchServiceFixture(matchRepo *fakeMatchRepo) *matchServiceFixture {
	f := &matchServiceFixture{
		events:      &fakeEventService{},
		notifier:    &fakeNotifier{},
		pausedTimes: &fakePausedTimeRepo{},
		ladder:      &fakeLadderService{},
		scores:      newFakeScoresRepo(),
		umpires:     &fakeUmpireRepo{},
		lineups:     &fakeLineupRepo{},
		transactor:  &fakeTransactor{},
	}
	f.svc = NewMatchService(
		f.transactor,
		matchRepo,
		f.scores,
		f.pausedTimes,
		f.umpires,
		f.lineups,
		f.events,
		f.notifier,
		f.ladder,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func TestMatchServiceCreateRequiresBothTeams(t *testing.T) {
	f := newMatchServiceFixture(newFakeMatchRepo())

	_, err := f.svc.Create(context.Background(), CreateMatchInput{Team1ID: 1})
	require.ErrorIs(t, err, ErrTeamRequired)

	match, err := f.svc.Create(context.Background(), CreateMatchInput{Team1ID: 1, Team2ID: 2})
	require.NoError(t, err)
	assert.Equal(t, models.ScorerStatusScorer1, match.ScorerStatus)
}

func TestMatchServiceStart(t *testing.T) {
	scheduled := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	repo := newFakeMatchRepo(&models.Match{ID: 7, Team1ID: 1, Team2ID: 2, StartTime: &scheduled})
	f := newMatchServiceFixture(repo)

	match, err := f.svc.Start(context.Background(), 7, int64Ptr(90_000), nil)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusStarted, match.MatchStatus)
	require.NotNil(t, match.OriginalStartTime)
	assert.True(t, match.OriginalStartTime.Equal(scheduled))
	require.NotNil(t, match.StartTime)
	assert.True(t, match.StartTime.Equal(scheduled.Add(90*time.Second)))

	require.Len(t, f.events.timerEvents, 1)
	assert.Equal(t, models.EventTypeStart, f.events.timerEvents[0].eventType)
	assert.Equal(t, 1, f.events.timerEvents[0].period)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, subtypeMatchStarted, f.notifier.calls[0].opts.Subtype)
	assert.False(t, f.notifier.calls[0].updateScore)
}

func TestMatchServiceStartWithoutScheduledTime(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 3, Team1ID: 1, Team2ID: 2})
	f := newMatchServiceFixture(repo)

	before := time.Now()
	match, err := f.svc.Start(context.Background(), 3, nil, nil)
	require.NoError(t, err)

	assert.Nil(t, match.OriginalStartTime)
	require.NotNil(t, match.StartTime)
	assert.False(t, match.StartTime.Before(before))
}

func TestMatchServicePause(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 5, Team1ID: 1, Team2ID: 2, MatchStatus: models.MatchStatusStarted})
	f := newMatchServiceFixture(repo)

	match, err := f.svc.Pause(context.Background(), 5, nil, true, 2, nil)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusPaused, match.MatchStatus)
	require.NotNil(t, match.PauseStartTime)

	require.Len(t, f.events.timerEvents, 1)
	call := f.events.timerEvents[0]
	assert.Equal(t, models.EventTypePause, call.eventType)
	assert.Equal(t, 2, call.period)
	require.NotNil(t, call.isBreak)
	assert.True(t, *call.isBreak)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, subtypeMatchPaused, f.notifier.calls[0].opts.Subtype)
}

func TestMatchServicePauseRejectsMatchNotInPlay(t *testing.T) {
	ended := time.Now()
	repo := newFakeMatchRepo(
		&models.Match{ID: 1, Team1ID: 1, Team2ID: 2},
		&models.Match{ID: 2, Team1ID: 1, Team2ID: 2, MatchStatus: models.MatchStatusEnded, EndTime: &ended},
	)
	f := newMatchServiceFixture(repo)

	_, err := f.svc.Pause(context.Background(), 1, nil, false, 1, nil)
	require.ErrorIs(t, err, ErrMatchNotInPlay)

	_, err = f.svc.Pause(context.Background(), 2, nil, false, 4, nil)
	require.ErrorIs(t, err, ErrMatchNotInPlay)

	_, err = f.svc.Resume(context.Background(), 2, nil, int64Ptr(1000), false, 4, nil)
	require.ErrorIs(t, err, ErrMatchNotInPlay)

	assert.Empty(t, f.events.timerEvents)
	assert.Empty(t, f.notifier.calls)
}

func TestMatchServiceResumeWithExplicitPausedMs(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{
		ID:            5,
		Team1ID:       1,
		Team2ID:       2,
		MatchStatus:   models.MatchStatusPaused,
		TotalPausedMs: 1000,
	})
	f := newMatchServiceFixture(repo)

	match, err := f.svc.Resume(context.Background(), 5, nil, int64Ptr(5000), false, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusStarted, match.MatchStatus)
	assert.Equal(t, int64(6000), match.TotalPausedMs)

	require.Len(t, f.pausedTimes.rows, 1)
	row := f.pausedTimes.rows[0]
	assert.Equal(t, 5, row.MatchID)
	assert.Equal(t, 3, row.Period)
	assert.Equal(t, int64(6000), row.TotalPausedMs)

	require.Len(t, f.events.timerEvents, 1)
	assert.Equal(t, models.EventTypeResume, f.events.timerEvents[0].eventType)
}

func TestMatchServiceResumeFallbackFormula(t *testing.T) {
	start := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	pausedAt := start.Add(10 * time.Minute)
	repo := newFakeMatchRepo(&models.Match{
		ID:             5,
		Team1ID:        1,
		Team2ID:        2,
		MatchStatus:    models.MatchStatusPaused,
		StartTime:      &start,
		PauseStartTime: &pausedAt,
	})
	f := newMatchServiceFixture(repo)

	// 12 minutes on the scorer's clock minus a pause that began 10
	// minutes after the start: two minutes of paused time.
	match, err := f.svc.Resume(context.Background(), 5, int64Ptr(12*60*1000), nil, false, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2*60*1000), match.TotalPausedMs)
}

func TestMatchServiceEnd(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{
		ID:          9,
		DivisionID:  4,
		Team1ID:     1,
		Team2ID:     2,
		MatchStatus: models.MatchStatusStarted,
	})
	f := newMatchServiceFixture(repo)

	match, err := f.svc.End(context.Background(), 9, PeriodScoresInput{
		MatchID:    9,
		Period:     4,
		Team1Score: 43,
		Team2Score: 38,
	}, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusEnded, match.MatchStatus)
	require.NotNil(t, match.EndTime)
	assert.Equal(t, 43, match.Team1Score)
	assert.Equal(t, 38, match.Team2Score)

	require.NotNil(t, f.events.recordedWith)
	assert.Equal(t, 4, f.events.recordedWith.Period)

	require.Len(t, f.ladder.recomputed, 1)
	require.Len(t, f.ladder.recomputed[0], 1)
	assert.Equal(t, 9, f.ladder.recomputed[0][0].ID)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, subtypeMatchEnded, f.notifier.calls[0].opts.Subtype)
}

func TestMatchServiceEndTwiceFoldsLadderOnce(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{
		ID:          9,
		DivisionID:  4,
		Team1ID:     1,
		Team2ID:     2,
		MatchStatus: models.MatchStatusStarted,
	})
	f := newMatchServiceFixture(repo)

	scores := PeriodScoresInput{MatchID: 9, Period: 4, Team1Score: 43, Team2Score: 38}
	_, err := f.svc.End(context.Background(), 9, scores, nil, nil, nil)
	require.NoError(t, err)

	// A retried end request closes the match again but must not count
	// the result into the ladder a second time.
	match, err := f.svc.End(context.Background(), 9, scores, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusEnded, match.MatchStatus)

	assert.Len(t, f.ladder.recomputed, 1)
	assert.Len(t, f.notifier.calls, 2)
}

func TestMatchServiceRestartResetsMatch(t *testing.T) {
	pausedAt := time.Now()
	endedAt := pausedAt.Add(time.Hour)
	resultID := 3
	repo := newFakeMatchRepo(&models.Match{
		ID:             9,
		DivisionID:     4,
		Team1ID:        1,
		Team2ID:        2,
		Team1Score:     43,
		Team2Score:     38,
		Team1ResultID:  &resultID,
		MatchStatus:    models.MatchStatusEnded,
		PauseStartTime: &pausedAt,
		TotalPausedMs:  120_000,
		EndTime:        &endedAt,
		ScorerStatus:   models.ScorerStatusScorer2,
	})
	f := newMatchServiceFixture(repo)
	f.scores.rows[[2]int{9, 1}] = &models.MatchScores{MatchID: 9, Period: 1, Team1Score: 12, Team2Score: 9}
	f.scores.rows[[2]int{9, 2}] = &models.MatchScores{MatchID: 9, Period: 2, Team1Score: 22, Team2Score: 20}
	f.scores.rows[[2]int{11, 1}] = &models.MatchScores{MatchID: 11, Period: 1, Team1Score: 5, Team2Score: 5}

	before := time.Now()
	match, err := f.svc.Restart(context.Background(), 9, 5000, false, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, match.Team1Score)
	assert.Equal(t, 0, match.Team2Score)
	assert.Equal(t, models.MatchStatusStarted, match.MatchStatus)
	assert.Nil(t, match.EndTime)
	assert.Nil(t, match.PauseStartTime)
	assert.Nil(t, match.Team1ResultID)
	assert.Zero(t, match.TotalPausedMs)
	assert.Equal(t, models.ScorerStatusScorer1, match.ScorerStatus)
	require.NotNil(t, match.StartTime)
	assert.False(t, match.StartTime.Before(before))

	// Period snapshots for this match go, other matches keep theirs.
	_, err = f.scores.GetByMatchAndPeriod(context.Background(), nil, 9, 1)
	require.Error(t, err)
	_, err = f.scores.GetByMatchAndPeriod(context.Background(), nil, 11, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, f.transactor.calls)

	require.Len(t, f.events.timerEvents, 1)
	assert.Equal(t, models.EventTypeStart, f.events.timerEvents[0].eventType)
	assert.Equal(t, 1, f.events.timerEvents[0].period)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, subtypeMatchRestart, f.notifier.calls[0].opts.Subtype)
}

func TestMatchServiceRestartClearsAttendance(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 9, Team1ID: 1, Team2ID: 2, MatchStatus: models.MatchStatusEnded})
	f := newMatchServiceFixture(repo)
	f.umpires.umpires = []*models.MatchUmpire{
		{ID: 1, MatchID: 9},
		{ID: 2, MatchID: 11},
	}
	f.lineups.lineups = []*models.Lineup{
		{ID: 1, MatchID: 9, TeamID: 1, PlayerID: 55},
		{ID: 2, MatchID: 11, TeamID: 3, PlayerID: 60},
	}

	_, err := f.svc.Restart(context.Background(), 9, 0, true, nil)
	require.NoError(t, err)

	remaining, err := f.umpires.ListByMatch(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	others, err := f.umpires.ListByMatch(context.Background(), 11)
	require.NoError(t, err)
	assert.Len(t, others, 1)

	lineups, err := f.lineups.ListByMatch(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, lineups)
}

func TestMatchServiceStartExtraTime(t *testing.T) {
	start := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	repo := newFakeMatchRepo(&models.Match{
		ID:          6,
		Team1ID:     1,
		Team2ID:     2,
		MatchStatus: models.MatchStatusStarted,
		StartTime:   &start,
	})
	f := newMatchServiceFixture(repo)

	match, err := f.svc.StartExtraTime(context.Background(), 6, int64Ptr(48*60*1000), 5, false, nil)
	require.NoError(t, err)

	require.NotNil(t, match.ExtraStartTime)
	assert.True(t, match.ExtraStartTime.Equal(start.Add(48*time.Minute)))
	assert.Nil(t, match.ExtraExtraStartTime)

	match, err = f.svc.StartExtraTime(context.Background(), 6, int64Ptr(55*60*1000), 6, true, nil)
	require.NoError(t, err)
	require.NotNil(t, match.ExtraExtraStartTime)

	require.Len(t, f.events.timerEvents, 2)
	assert.Equal(t, models.EventTypeExtraTime, f.events.timerEvents[0].eventType)
	assert.Equal(t, 5, f.events.timerEvents[0].period)
}

func TestMatchServiceChangeScorer(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 2, Team1ID: 1, Team2ID: 2, ScorerStatus: models.ScorerStatusScorer1})
	f := newMatchServiceFixture(repo)

	_, err := f.svc.ChangeScorer(context.Background(), 2, "SCORER3", nil)
	require.ErrorIs(t, err, ErrInvalidScorerStatus)

	match, err := f.svc.ChangeScorer(context.Background(), 2, models.ScorerStatusScorer2, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ScorerStatusScorer2, match.ScorerStatus)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, subtypeScorerChanged, f.notifier.calls[0].opts.Subtype)
}

func TestMatchServiceSendBulkUpdate(t *testing.T) {
	repo := newFakeMatchRepo(
		&models.Match{ID: 1, Team1ID: 1, Team2ID: 2, MatchStatus: models.MatchStatusEnded},
		&models.Match{ID: 2, Team1ID: 3, Team2ID: 4, MatchStatus: models.MatchStatusEnded},
	)
	f := newMatchServiceFixture(repo)

	_, err := f.svc.SendBulkUpdate(context.Background(), nil, nil)
	require.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.SendBulkUpdate(context.Background(), []int{1, 404}, nil)
	require.ErrorIs(t, err, ErrMatchNotFound)
	assert.Empty(t, f.notifier.bulkMatches)

	matches, err := f.svc.SendBulkUpdate(context.Background(), []int{1, 2}, nil)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	require.Len(t, f.notifier.bulkMatches, 1)
	assert.Len(t, f.notifier.bulkMatches[0], 2)
}

func TestMatchServiceDeleteUnknownMatch(t *testing.T) {
	f := newMatchServiceFixture(newFakeMatchRepo())

	err := f.svc.Delete(context.Background(), 404)
	require.ErrorIs(t, err, ErrMatchNotFound)
}
