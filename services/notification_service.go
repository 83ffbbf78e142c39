package services

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/courtside/competition-system/models"
	"github.com/courtside/competition-system/notifications"
	"github.com/courtside/competition-system/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	notificationTypeMatchEvent   = "match_event"
	notificationTypeScoreUpdated = "match_score_updated"
	notificationTypeBulkUpdate   = "bulk_match_updated"
)

// NotifyOptions carries the optional context of a match notification.
type NotifyOptions struct {
	UserID          *int
	Subtype         string
	NonSilentNotify bool
	Title           string
	Body            string
}

// Notifier fans match changes out to interested devices. Delivery is
// best-effort: implementations log failures and never return them, so
// a failed push can never fail the mutation that triggered it.
type Notifier interface {
	SendMatchEvent(ctx context.Context, match *models.Match, updateScore bool, opts NotifyOptions)
	SendBulkMatchUpdateNotification(ctx context.Context, matches []*models.Match, opts NotifyOptions)
}

// Enqueuer hands a message to the async delivery worker. Satisfied by
// *notifications.Dispatcher.
type Enqueuer interface {
	Enqueue(msg notifications.Message)
}

type notificationService struct {
	rosterRepo    repositories.RosterRepository
	deviceRepo    repositories.DeviceRepository
	watchlistRepo repositories.WatchlistRepository
	dispatcher    Enqueuer
	logger        *slog.Logger
}

func NewNotificationService(
	rosterRepo repositories.RosterRepository,
	deviceRepo repositories.DeviceRepository,
	watchlistRepo repositories.WatchlistRepository,
	dispatcher Enqueuer,
	logger *slog.Logger,
) Notifier {
	return &notificationService{
		rosterRepo:    rosterRepo,
		deviceRepo:    deviceRepo,
		watchlistRepo: watchlistRepo,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

func (s *notificationService) SendMatchEvent(ctx context.Context, match *models.Match, updateScore bool, opts NotifyOptions) {
	data := map[string]string{
		"type":    notificationTypeMatchEvent,
		"matchId": strconv.Itoa(match.ID),
	}
	if updateScore {
		data["type"] = notificationTypeScoreUpdated
		data["team1Score"] = strconv.Itoa(match.Team1Score)
		data["team2Score"] = strconv.Itoa(match.Team2Score)
		data["updatedAt"] = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if opts.UserID != nil {
		data["userId"] = strconv.Itoa(*opts.UserID)
	}
	if opts.Subtype != "" {
		data["subtype"] = opts.Subtype
	}

	tokens, err := s.collectMatchTokens(ctx, []*models.Match{match})
	if err != nil {
		s.logger.Error("failed to collect notification tokens",
			slog.Int("match_id", match.ID), slog.Any("error", err))
		return
	}

	s.sendChunked(tokens, opts, data)
}

func (s *notificationService) SendBulkMatchUpdateNotification(ctx context.Context, matches []*models.Match, opts NotifyOptions) {
	if len(matches) == 0 {
		return
	}

	matchIDs := make([]string, len(matches))
	for i, match := range matches {
		matchIDs[i] = strconv.Itoa(match.ID)
	}
	data := map[string]string{
		"type":     notificationTypeBulkUpdate,
		"matchIds": strings.Join(matchIDs, ","),
	}
	if opts.Subtype != "" {
		data["subtype"] = opts.Subtype
	}

	tokens, err := s.collectMatchTokens(ctx, matches)
	if err != nil {
		s.logger.Error("failed to collect bulk notification tokens", slog.Any("error", err))
		return
	}

	s.sendChunked(tokens, opts, data)
}

// collectMatchTokens unions (a) tokens of users with a manager or
// scorer role on either team and (b) tokens of devices watchlisting
// either team, deduplicated.
func (s *notificationService) collectMatchTokens(ctx context.Context, matches []*models.Match) ([]string, error) {
	teamIDSet := make(map[int]bool)
	for _, match := range matches {
		teamIDSet[match.Team1ID] = true
		teamIDSet[match.Team2ID] = true
	}
	teamIDs := make([]int, 0, len(teamIDSet))
	for teamID := range teamIDSet {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Ints(teamIDs)

	var rosterTokens, watchlistTokens []string

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		userIDs, err := s.rosterRepo.ListUserIDsByTeamsAndRoles(gCtx, teamIDs,
			[]models.RosterRole{models.RoleManager, models.RoleScorer})
		if err != nil {
			return err
		}
		rosterTokens, err = s.deviceRepo.ListTokensByUserIDs(gCtx, userIDs)
		return err
	})
	g.Go(func() error {
		deviceIDs, err := s.watchlistRepo.ListDeviceIDsByTeams(gCtx, teamIDs)
		if err != nil {
			return err
		}
		watchlistTokens, err = s.deviceRepo.ListTokensByDeviceIDs(gCtx, deviceIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rosterTokens)+len(watchlistTokens))
	tokens := make([]string, 0, len(rosterTokens)+len(watchlistTokens))
	for _, token := range append(rosterTokens, watchlistTokens...) {
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	return tokens, nil
}

func (s *notificationService) sendChunked(tokens []string, opts NotifyOptions, data map[string]string) {
	if len(tokens) == 0 {
		return
	}
	for _, chunk := range chunkTokens(tokens, notifications.MaxTokensPerSend) {
		msg := notifications.Message{
			Tokens: chunk,
			Data:   data,
		}
		if opts.NonSilentNotify {
			msg.Title = opts.Title
			msg.Body = opts.Body
		}
		s.dispatcher.Enqueue(msg)
	}
}

func chunkTokens(tokens []string, size int) [][]string {
	chunks := make([][]string, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, tokens[start:end])
	}
	return chunks
}
