package notifications

import (
	"context"
	"log/slog"
)

// NoopGateway stands in when no push credentials are configured. Sends
// are logged and dropped so the rest of the pipeline behaves normally.
type NoopGateway struct {
	logger *slog.Logger
}

func NewNoopGateway(logger *slog.Logger) *NoopGateway {
	return &NoopGateway{logger: logger}
}

func (g *NoopGateway) Send(_ context.Context, msg Message) error {
	g.logger.Debug("push delivery skipped, no gateway configured",
		slog.Int("tokens", len(msg.Tokens)), slog.String("title", msg.Title))
	return nil
}
