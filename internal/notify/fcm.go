package notify

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// FCMSender delivers pushes through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

func (s *FCMSender) Send(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		return fmt.Errorf("empty device token for push %q", msg.Title)
	}

	_, err := s.client.Send(ctx, &messaging.Message{
		Token: msg.Token,
		Data:  msg.Data,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	})
	if err != nil {
		return fmt.Errorf("sending FCM to token %s: %w", msg.Token, err)
	}
	return nil
}
