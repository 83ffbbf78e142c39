package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGateway struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (g *recordingGateway) Send(_ context.Context, msg Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, msg)
	return g.err
}

func (g *recordingGateway) sentMessages() []Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Message(nil), g.sent...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherDeliversQueuedMessages(t *testing.T) {
	gateway := &recordingGateway{}
	d := NewDispatcher(gateway, discardLogger(), 8)
	go d.Run()

	d.Enqueue(Message{Tokens: []string{"tok-a"}, Title: "first"})
	d.Enqueue(Message{Tokens: []string{"tok-b"}, Title: "second"})
	d.Close()

	sent := gateway.sentMessages()
	require.Len(t, sent, 2)
	assert.Equal(t, "first", sent[0].Title)
	assert.Equal(t, "second", sent[1].Title)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	gateway := &recordingGateway{}
	// Worker not started: the single-slot queue fills immediately and
	// the second enqueue must not block.
	d := NewDispatcher(gateway, discardLogger(), 1)

	d.Enqueue(Message{Tokens: []string{"tok-a"}})
	d.Enqueue(Message{Tokens: []string{"tok-b"}})

	go d.Run()
	d.Close()

	sent := gateway.sentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"tok-a"}, sent[0].Tokens)
}

func TestDispatcherSkipsEmptyTokenLists(t *testing.T) {
	gateway := &recordingGateway{}
	d := NewDispatcher(gateway, discardLogger(), 8)
	go d.Run()

	d.Enqueue(Message{Title: "no recipients"})
	d.Close()

	assert.Empty(t, gateway.sentMessages())
}

func TestDispatcherSwallowsGatewayErrors(t *testing.T) {
	gateway := &recordingGateway{err: errors.New("fcm unavailable")}
	d := NewDispatcher(gateway, discardLogger(), 8)
	go d.Run()

	d.Enqueue(Message{Tokens: []string{"tok-a"}})
	d.Enqueue(Message{Tokens: []string{"tok-b"}})
	d.Close()

	// Both attempts go through despite the first failing.
	assert.Len(t, gateway.sentMessages(), 2)
}

func TestDispatcherCloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(&recordingGateway{}, discardLogger(), 8)
	go d.Run()

	d.Close()
	d.Close()
}
