package services

import (
	"context"
	"time"

	"github.com/courtside/competition-system/live"
	"github.com/courtside/competition-system/models"
	"github.com/courtside/competition-system/notifications"
	"github.com/courtside/competition-system/repositories"
)

// Hand-rolled fakes backed by maps and slices. Each records enough of
// what it was asked so assertions can inspect the calls.

// fakeTransactor runs the unit of work directly; passing a nil
// executor lets every repository fake ignore the transaction.
type fakeTransactor struct {
	calls int
}

func (t *fakeTransactor) InTx(_ context.Context, fn func(tx repositories.SQLExecutor) error) error {
	t.calls++
	return fn(nil)
}

type fakeMatchRepo struct {
	matches     map[int]*models.Match
	updateCalls int
	scoreCalls  int
	deleted     []int
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: make(map[int]*models.Match)}
	for _, m := range matches {
		repo.matches[m.ID] = m
	}
	return repo
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = len(r.matches) + 1
	r.matches[match.ID] = match
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) List(_ context.Context, _ *int, _ *models.MatchStatus) ([]*models.Match, error) {
	out := make([]*models.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMatchRepo) Update(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	copied := *match
	r.matches[match.ID] = &copied
	r.updateCalls++
	return nil
}

func (r *fakeMatchRepo) UpdateScores(_ context.Context, id, team1Score, team2Score int, centrePassStatus *string) error {
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Team1Score = team1Score
	match.Team2Score = team2Score
	if centrePassStatus != nil {
		match.CentrePassStatus = centrePassStatus
	}
	r.scoreCalls++
	return nil
}

func (r *fakeMatchRepo) SoftDelete(_ context.Context, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeEventRepo struct {
	events []*models.MatchEvent
}

func (r *fakeEventRepo) Create(_ context.Context, _ repositories.SQLExecutor, event *models.MatchEvent) error {
	event.ID = len(r.events) + 1
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEventRepo) ListByMatch(_ context.Context, matchID int, _ int) ([]*models.MatchEvent, error) {
	return r.byMatch(matchID), nil
}

func (r *fakeEventRepo) FindByParams(_ context.Context, matchID int, _ repositories.MatchEventFilter) ([]*models.MatchEvent, error) {
	return r.byMatch(matchID), nil
}

func (r *fakeEventRepo) DeleteByMatch(_ context.Context, matchID int) (int64, error) {
	kept := r.events[:0]
	var deleted int64
	for _, ev := range r.events {
		if ev.MatchID == matchID {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	r.events = kept
	return deleted, nil
}

func (r *fakeEventRepo) byMatch(matchID int) []*models.MatchEvent {
	var out []*models.MatchEvent
	for _, ev := range r.events {
		if ev.MatchID == matchID {
			out = append(out, ev)
		}
	}
	return out
}

type fakeScoresRepo struct {
	rows    map[[2]int]*models.MatchScores
	creates int
	updates int
}

func newFakeScoresRepo() *fakeScoresRepo {
	return &fakeScoresRepo{rows: make(map[[2]int]*models.MatchScores)}
}

func (r *fakeScoresRepo) GetByMatchAndPeriod(_ context.Context, _ repositories.SQLExecutor, matchID, period int) (*models.MatchScores, error) {
	row, ok := r.rows[[2]int{matchID, period}]
	if !ok {
		return nil, repositories.ErrMatchScoresNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *fakeScoresRepo) Create(_ context.Context, _ repositories.SQLExecutor, scores *models.MatchScores) error {
	r.rows[[2]int{scores.MatchID, scores.Period}] = scores
	r.creates++
	return nil
}

func (r *fakeScoresRepo) Update(_ context.Context, _ repositories.SQLExecutor, scores *models.MatchScores) error {
	r.rows[[2]int{scores.MatchID, scores.Period}] = scores
	r.updates++
	return nil
}

func (r *fakeScoresRepo) ListByMatch(_ context.Context, matchID int) ([]*models.MatchScores, error) {
	var out []*models.MatchScores
	for key, row := range r.rows {
		if key[0] == matchID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeScoresRepo) DeleteByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	for key := range r.rows {
		if key[0] == matchID {
			delete(r.rows, key)
		}
	}
	return nil
}

type fakePausedTimeRepo struct {
	rows []*models.MatchPausedTime
}

func (r *fakePausedTimeRepo) Create(_ context.Context, _ repositories.SQLExecutor, paused *models.MatchPausedTime) error {
	r.rows = append(r.rows, paused)
	return nil
}

func (r *fakePausedTimeRepo) ListByMatch(_ context.Context, matchID int) ([]*models.MatchPausedTime, error) {
	var out []*models.MatchPausedTime
	for _, row := range r.rows {
		if row.MatchID == matchID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakePausedTimeRepo) DeleteByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.MatchID != matchID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type notifyCall struct {
	matchID     int
	updateScore bool
	opts        NotifyOptions
}

type fakeNotifier struct {
	calls       []notifyCall
	bulkMatches [][]*models.Match
}

func (n *fakeNotifier) SendMatchEvent(_ context.Context, match *models.Match, updateScore bool, opts NotifyOptions) {
	n.calls = append(n.calls, notifyCall{matchID: match.ID, updateScore: updateScore, opts: opts})
}

func (n *fakeNotifier) SendBulkMatchUpdateNotification(_ context.Context, matches []*models.Match, _ NotifyOptions) {
	n.bulkMatches = append(n.bulkMatches, matches)
}

type fakeHub struct {
	messages []live.Message
}

func (h *fakeHub) BroadcastMatch(_ int, msg live.Message) {
	h.messages = append(h.messages, msg)
}

type timerEventCall struct {
	matchID   int
	eventType string
	at        time.Time
	period    int
	isBreak   *bool
}

// fakeEventService stands in for the recorder when exercising the
// lifecycle service in isolation.
type fakeEventService struct {
	timerEvents  []timerEventCall
	recordedWith *PeriodScoresInput
}

func (s *fakeEventService) RecordPeriodScore(_ context.Context, match *models.Match, scores PeriodScoresInput, _, _ *int64) (*models.Match, error) {
	s.recordedWith = &scores
	match.Team1Score = scores.Team1Score
	match.Team2Score = scores.Team2Score
	return match, nil
}

func (s *fakeEventService) UpdateScore(_ context.Context, _ UpdateScoreInput) (*models.Match, error) {
	return nil, nil
}

func (s *fakeEventService) UpdateStats(_ context.Context, _ UpdateStatsInput) error {
	return nil
}

func (s *fakeEventService) LogTimerEvent(_ context.Context, matchID int, eventType string, at time.Time, period int, isBreak *bool, _ *int) error {
	s.timerEvents = append(s.timerEvents, timerEventCall{
		matchID:   matchID,
		eventType: eventType,
		at:        at,
		period:    period,
		isBreak:   isBreak,
	})
	return nil
}

func (s *fakeEventService) FindByParams(_ context.Context, _ int, _ repositories.MatchEventFilter) ([]*models.MatchEvent, error) {
	return nil, nil
}

func (s *fakeEventService) ListByMatch(_ context.Context, _ int, _ int) ([]*models.MatchEvent, error) {
	return nil, nil
}

func (s *fakeEventService) DeleteByMatch(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

type fakeLadderService struct {
	recomputed [][]*models.Match
}

func (s *fakeLadderService) RecomputeForMatches(_ context.Context, matches []*models.Match) error {
	s.recomputed = append(s.recomputed, matches)
	return nil
}

func (s *fakeLadderService) ListByDivision(_ context.Context, _ int) ([]*models.LadderStanding, error) {
	return nil, nil
}

type fakeLadderRepo struct {
	standings map[[2]int]*models.LadderStanding
}

func newFakeLadderRepo() *fakeLadderRepo {
	return &fakeLadderRepo{standings: make(map[[2]int]*models.LadderStanding)}
}

func (r *fakeLadderRepo) GetByDivisionAndTeam(_ context.Context, _ repositories.SQLExecutor, divisionID, teamID int) (*models.LadderStanding, error) {
	standing, ok := r.standings[[2]int{divisionID, teamID}]
	if !ok {
		return nil, repositories.ErrLadderStandingNotFound
	}
	return standing, nil
}

func (r *fakeLadderRepo) GetOrCreate(_ context.Context, _ repositories.SQLExecutor, divisionID, teamID int) (*models.LadderStanding, error) {
	key := [2]int{divisionID, teamID}
	if standing, ok := r.standings[key]; ok {
		return standing, nil
	}
	standing := &models.LadderStanding{DivisionID: divisionID, TeamID: teamID}
	r.standings[key] = standing
	return standing, nil
}

func (r *fakeLadderRepo) Update(_ context.Context, _ repositories.SQLExecutor, standing *models.LadderStanding) error {
	r.standings[[2]int{standing.DivisionID, standing.TeamID}] = standing
	return nil
}

func (r *fakeLadderRepo) ListByDivision(_ context.Context, divisionID int) ([]*models.LadderStanding, error) {
	var out []*models.LadderStanding
	for key, standing := range r.standings {
		if key[0] == divisionID {
			out = append(out, standing)
		}
	}
	return out, nil
}

func (r *fakeLadderRepo) DeleteByDivision(_ context.Context, _ repositories.SQLExecutor, divisionID int) error {
	for key := range r.standings {
		if key[0] == divisionID {
			delete(r.standings, key)
		}
	}
	return nil
}

type fakeRosterRepo struct {
	userIDs []int
}

func (r *fakeRosterRepo) Create(_ context.Context, _ *models.Roster) error { return nil }
func (r *fakeRosterRepo) Delete(_ context.Context, _ int) error            { return nil }

func (r *fakeRosterRepo) ListByMatch(_ context.Context, _ int) ([]*models.Roster, error) {
	return nil, nil
}

func (r *fakeRosterRepo) ListUserIDsByTeamsAndRoles(_ context.Context, _ []int, _ []models.RosterRole) ([]int, error) {
	return r.userIDs, nil
}

type fakeDeviceRepo struct {
	tokensByUser   []string
	tokensByDevice []string
}

func (r *fakeDeviceRepo) Upsert(_ context.Context, _ *models.Device) error { return nil }

func (r *fakeDeviceRepo) ListTokensByUserIDs(_ context.Context, _ []int) ([]string, error) {
	return r.tokensByUser, nil
}

func (r *fakeDeviceRepo) ListTokensByDeviceIDs(_ context.Context, _ []string) ([]string, error) {
	return r.tokensByDevice, nil
}

type fakeWatchlistRepo struct {
	deviceIDs []string
	entries   []*models.Watchlist
	deleteErr error
}

func (r *fakeWatchlistRepo) Create(_ context.Context, entry *models.Watchlist) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeWatchlistRepo) DeleteByDeviceAndTeam(_ context.Context, _ string, _ int) error {
	return r.deleteErr
}

func (r *fakeWatchlistRepo) ListDeviceIDsByTeams(_ context.Context, _ []int) ([]string, error) {
	return r.deviceIDs, nil
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[int]*models.Team)}
	for _, team := range teams {
		repo.teams[team.ID] = team
	}
	return repo
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	team.ID = len(r.teams) + 1
	r.teams[team.ID] = team
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}

func (r *fakeTeamRepo) ListByDivision(_ context.Context, divisionID int) ([]*models.Team, error) {
	var out []*models.Team
	for _, team := range r.teams {
		if team.DivisionID == divisionID {
			out = append(out, team)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) SoftDelete(_ context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

type fakeUserRepo struct {
	users map[int]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int]*models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = len(r.users) + 1
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

type fakeLineupRepo struct {
	lineups []*models.Lineup
}

func (r *fakeLineupRepo) Create(_ context.Context, lineup *models.Lineup) error {
	lineup.ID = len(r.lineups) + 1
	r.lineups = append(r.lineups, lineup)
	return nil
}

func (r *fakeLineupRepo) ListByMatch(_ context.Context, matchID int) ([]*models.Lineup, error) {
	var out []*models.Lineup
	for _, lineup := range r.lineups {
		if lineup.MatchID == matchID {
			out = append(out, lineup)
		}
	}
	return out, nil
}

func (r *fakeLineupRepo) DeleteByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	kept := r.lineups[:0]
	for _, lineup := range r.lineups {
		if lineup.MatchID != matchID {
			kept = append(kept, lineup)
		}
	}
	r.lineups = kept
	return nil
}

type fakeUmpireRepo struct {
	umpires []*models.MatchUmpire
}

func (r *fakeUmpireRepo) Create(_ context.Context, umpire *models.MatchUmpire) error {
	umpire.ID = len(r.umpires) + 1
	r.umpires = append(r.umpires, umpire)
	return nil
}

func (r *fakeUmpireRepo) ListByMatch(_ context.Context, matchID int) ([]*models.MatchUmpire, error) {
	var out []*models.MatchUmpire
	for _, umpire := range r.umpires {
		if umpire.MatchID == matchID {
			out = append(out, umpire)
		}
	}
	return out, nil
}

func (r *fakeUmpireRepo) DeleteByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	kept := r.umpires[:0]
	for _, umpire := range r.umpires {
		if umpire.MatchID != matchID {
			kept = append(kept, umpire)
		}
	}
	r.umpires = kept
	return nil
}

type fakeEnqueuer struct {
	messages []notifications.Message
}

func (e *fakeEnqueuer) Enqueue(msg notifications.Message) {
	e.messages = append(e.messages, msg)
}
