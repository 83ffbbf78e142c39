package notifications

import "context"

// MaxTokensPerSend caps the fan-out of a single gateway call. The
// push provider rejects larger batches, so callers chunk token lists
// to at most this many per Send.
const MaxTokensPerSend = 99

// Message is one push dispatch to a set of device tokens.
type Message struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
}

// Gateway delivers push notifications. Implementations are injected at
// the composition root; delivery is best-effort and per-token failures
// are not surfaced back to callers.
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}
