package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/courtside/competition-system/live"
	"github.com/courtside/competition-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventService(matchRepo *fakeMatchRepo) (MatchEventService, *fakeEventRepo, *fakeScoresRepo, *fakeNotifier, *fakeHub) {
	eventRepo := &fakeEventRepo{}
	scoresRepo := newFakeScoresRepo()
	notifier := &fakeNotifier{}
	hub := &fakeHub{}
	svc := NewMatchEventService(matchRepo, eventRepo, scoresRepo, notifier, hub,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, eventRepo, scoresRepo, notifier, hub
}

func TestUpdateScoreAppendsSingleScoreEvent(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 1, Team1ID: 10, Team2ID: 20})
	svc, eventRepo, _, notifier, hub := newTestEventService(repo)

	match, err := svc.UpdateScore(context.Background(), UpdateScoreInput{
		MatchID:    1,
		Team1Score: 12,
		Team2Score: 9,
		Period:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, 12, match.Team1Score)
	assert.Equal(t, 9, match.Team2Score)

	require.Len(t, eventRepo.events, 1)
	ev := eventRepo.events[0]
	assert.Equal(t, models.EventCategoryScore, ev.EventCategory)
	assert.Equal(t, models.EventTypeUpdate, ev.Type)
	assert.Equal(t, 2, ev.Period)
	require.NotNil(t, ev.Attribute1Value)
	assert.Equal(t, "12", *ev.Attribute1Value)
	require.NotNil(t, ev.Attribute2Value)
	assert.Equal(t, "9", *ev.Attribute2Value)

	require.Len(t, notifier.calls, 1)
	assert.True(t, notifier.calls[0].updateScore)
	require.Len(t, hub.messages, 1)
	assert.Equal(t, live.MessageTypeScoreUpdated, hub.messages[0].Type)
}

func TestUpdateScoreWithGameStatAppendsStatEvent(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 1, Team1ID: 10, Team2ID: 20})
	svc, eventRepo, _, _, _ := newTestEventService(repo)

	playerID := 55
	_, err := svc.UpdateScore(context.Background(), UpdateScoreInput{
		MatchID:      1,
		Team1Score:   13,
		Team2Score:   9,
		Period:       2,
		TeamSequence: 1,
		PositionID:   3,
		PlayerID:     &playerID,
		GameStatCode: "goal",
	})
	require.NoError(t, err)

	require.Len(t, eventRepo.events, 2)
	assert.Equal(t, models.EventCategoryScore, eventRepo.events[0].EventCategory)

	stat := eventRepo.events[1]
	assert.Equal(t, models.EventCategoryStat, stat.EventCategory)
	assert.Equal(t, "goal", stat.Type)
	require.NotNil(t, stat.Attribute1Key)
	assert.Equal(t, "team1", *stat.Attribute1Key)
	require.NotNil(t, stat.Attribute1Value)
	assert.Equal(t, "3", *stat.Attribute1Value)
	require.NotNil(t, stat.Attribute2Key)
	assert.Equal(t, "playerId", *stat.Attribute2Key)
	require.NotNil(t, stat.Attribute2Value)
	assert.Equal(t, "55", *stat.Attribute2Value)
}

func TestUpdateScoreRejectsBadTeamSequence(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 1, Team1ID: 10, Team2ID: 20})
	svc, _, _, _, _ := newTestEventService(repo)

	_, err := svc.UpdateScore(context.Background(), UpdateScoreInput{
		MatchID:      1,
		GameStatCode: "goal",
		TeamSequence: 3,
	})
	require.ErrorIs(t, err, ErrInvalidTeamSequence)
}

func TestUpdateScoreUnknownMatch(t *testing.T) {
	svc, _, _, _, _ := newTestEventService(newFakeMatchRepo())

	_, err := svc.UpdateScore(context.Background(), UpdateScoreInput{MatchID: 404})
	require.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRecordPeriodScoreCreatesThenUpdates(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 1, Team1ID: 10, Team2ID: 20})
	svc, _, scoresRepo, _, _ := newTestEventService(repo)
	match, _ := repo.GetByID(context.Background(), 1)

	match, err := svc.RecordPeriodScore(context.Background(), match, PeriodScoresInput{
		MatchID: 1, Period: 1, Team1Score: 10, Team2Score: 8,
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, scoresRepo.creates)
	assert.Equal(t, 0, scoresRepo.updates)

	// Resubmitting the same period overwrites the existing row instead
	// of inserting a second one.
	_, err = svc.RecordPeriodScore(context.Background(), match, PeriodScoresInput{
		MatchID: 1, Period: 1, Team1Score: 11, Team2Score: 8,
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, scoresRepo.creates)
	assert.Equal(t, 1, scoresRepo.updates)

	row, err := scoresRepo.GetByMatchAndPeriod(context.Background(), nil, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 11, row.Team1Score)
	assert.Equal(t, 8, row.Team2Score)
}

func TestRecordPeriodScoreNotifiesOnlyOnScoreChange(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 1, Team1ID: 10, Team2ID: 20, Team1Score: 10, Team2Score: 8})
	svc, _, _, notifier, hub := newTestEventService(repo)
	match, _ := repo.GetByID(context.Background(), 1)

	// Same scores as the denormalized copy: no push, no broadcast.
	_, err := svc.RecordPeriodScore(context.Background(), match, PeriodScoresInput{
		MatchID: 1, Period: 1, Team1Score: 10, Team2Score: 8,
	}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, notifier.calls)
	assert.Empty(t, hub.messages)

	_, err = svc.RecordPeriodScore(context.Background(), match, PeriodScoresInput{
		MatchID: 1, Period: 2, Team1Score: 18, Team2Score: 15,
	}, nil, nil)
	require.NoError(t, err)
	require.Len(t, notifier.calls, 1)
	assert.True(t, notifier.calls[0].updateScore)
	assert.Len(t, hub.messages, 1)
}

func TestRecordPeriodScoreAppendsPeriodBoundaryEvents(t *testing.T) {
	start := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	repo := newFakeMatchRepo(&models.Match{
		ID:            1,
		Team1ID:       10,
		Team2ID:       20,
		StartTime:     &start,
		MatchDuration: 40 * 60 * 1000,
		PeriodsCount:  4,
	})
	svc, eventRepo, _, _, _ := newTestEventService(repo)
	match, _ := repo.GetByID(context.Background(), 1)

	// Explicit offsets win over the estimate.
	_, err := svc.RecordPeriodScore(context.Background(), match, PeriodScoresInput{
		MatchID: 1, Period: 2, Team1Score: 5, Team2Score: 3,
	}, int64Ptr(20*60*1000), int64Ptr(10*60*1000))
	require.NoError(t, err)

	require.Len(t, eventRepo.events, 2)
	periodStart, periodEnd := eventRepo.events[0], eventRepo.events[1]
	assert.Equal(t, models.EventTypePeriodStart, periodStart.Type)
	assert.True(t, periodStart.EventTimestamp.Equal(start.Add(10*time.Minute)))
	assert.Equal(t, models.EventTypePeriodEnd, periodEnd.Type)
	assert.True(t, periodEnd.EventTimestamp.Equal(start.Add(20*time.Minute)))

	// Without offsets the window is an equal split of the scheduled
	// duration: period 3 of a 40 minute match spans minutes 20 to 30.
	_, err = svc.RecordPeriodScore(context.Background(), match, PeriodScoresInput{
		MatchID: 1, Period: 3, Team1Score: 9, Team2Score: 7,
	}, nil, nil)
	require.NoError(t, err)

	require.Len(t, eventRepo.events, 4)
	estStart, estEnd := eventRepo.events[2], eventRepo.events[3]
	assert.True(t, estStart.EventTimestamp.Equal(start.Add(20*time.Minute)))
	assert.True(t, estEnd.EventTimestamp.Equal(start.Add(30*time.Minute)))
}

func TestRecordPeriodScoreRequiresPeriod(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 1, Team1ID: 10, Team2ID: 20})
	svc, _, _, _, _ := newTestEventService(repo)
	match, _ := repo.GetByID(context.Background(), 1)

	_, err := svc.RecordPeriodScore(context.Background(), match, PeriodScoresInput{MatchID: 1}, nil, nil)
	require.ErrorIs(t, err, ErrPeriodRequired)
}

func TestUpdateStats(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 1, Team1ID: 10, Team2ID: 20})
	svc, eventRepo, _, _, _ := newTestEventService(repo)

	err := svc.UpdateStats(context.Background(), UpdateStatsInput{
		MatchID: 1, Period: 1, TeamSequence: 2, PositionID: 4, GameStatCode: "foul",
	})
	require.NoError(t, err)

	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, models.EventCategoryStat, eventRepo.events[0].EventCategory)
	assert.Equal(t, "foul", eventRepo.events[0].Type)

	err = svc.UpdateStats(context.Background(), UpdateStatsInput{MatchID: 1, TeamSequence: 1})
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestDeleteByMatchReturnsCount(t *testing.T) {
	repo := newFakeMatchRepo(&models.Match{ID: 1, Team1ID: 10, Team2ID: 20})
	svc, _, _, _, _ := newTestEventService(repo)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.LogTimerEvent(context.Background(), 1, models.EventTypePause, time.Now(), 1, nil, nil))
	}

	deleted, err := svc.DeleteByMatch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
