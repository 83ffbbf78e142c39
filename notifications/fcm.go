package notifications

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type fcmGateway struct {
	client *messaging.Client
}

// NewFCMGateway builds a Gateway backed by Firebase Cloud Messaging
// using a service-account credentials JSON blob.
func NewFCMGateway(ctx context.Context, credentialsJSON string) (Gateway, error) {
	if credentialsJSON == "" {
		return nil, errors.New("firebase credentials JSON is required")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}

	return &fcmGateway{client: client}, nil
}

func (g *fcmGateway) Send(ctx context.Context, msg Message) error {
	if len(msg.Tokens) == 0 {
		return nil
	}
	if len(msg.Tokens) > MaxTokensPerSend {
		return fmt.Errorf("too many tokens in one send: %d > %d", len(msg.Tokens), MaxTokensPerSend)
	}

	multicast := &messaging.MulticastMessage{
		Tokens: msg.Tokens,
		Data:   msg.Data,
	}
	if msg.Title != "" || msg.Body != "" {
		multicast.Notification = &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		}
	}

	response, err := g.client.SendEachForMulticast(ctx, multicast)
	if err != nil {
		return fmt.Errorf("fcm multicast send failed: %w", err)
	}
	if response.FailureCount > 0 {
		return fmt.Errorf("fcm multicast partially failed: %d of %d tokens", response.FailureCount, len(msg.Tokens))
	}
	return nil
}
