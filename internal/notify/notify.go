// Package notify delivers best-effort push messages. Delivery failures are
// logged and absorbed; they never propagate to the flow that triggered them.
package notify

import (
	"context"
	"log"

	"samaha/internal/types"
)

// Message is a single push notification addressed to a device token.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers a message to a device. Implementations must treat delivery
// as best-effort and may be called concurrently.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// TokenResolver looks up the push token registered for a user. An empty token
// with a nil error means the user has no registered device.
type TokenResolver interface {
	PushToken(ctx context.Context, userID types.ID) (string, error)
}

// AdminLister returns the push tokens of every admin with a registered device.
type AdminLister interface {
	AdminTokens(ctx context.Context) ([]string, error)
}

// Notifier resolves user ids to device tokens and enqueues pushes.
type Notifier struct {
	queue  *Queue
	tokens TokenResolver
	admins AdminLister
}

func NewNotifier(queue *Queue, tokens TokenResolver, admins AdminLister) *Notifier {
	return &Notifier{queue: queue, tokens: tokens, admins: admins}
}

// NotifyUser sends a push to the user's registered device, if any. Lookup and
// delivery failures are logged, never returned.
func (n *Notifier) NotifyUser(ctx context.Context, userID types.ID, title, body string, data map[string]string) {
	token, err := n.tokens.PushToken(ctx, userID)
	if err != nil {
		log.Printf("notify: token lookup failed for user %s: %v", userID, err)
		return
	}
	if token == "" {
		return
	}
	n.queue.Enqueue(Message{Token: token, Title: title, Body: body, Data: data})
}

// NotifyAdmins fans a push out to every admin device. Best-effort, like all
// notification paths.
func (n *Notifier) NotifyAdmins(ctx context.Context, title, body string, data map[string]string) {
	tokens, err := n.admins.AdminTokens(ctx)
	if err != nil {
		log.Printf("notify: admin token listing failed: %v", err)
		return
	}
	for _, token := range tokens {
		n.queue.Enqueue(Message{Token: token, Title: title, Body: body, Data: data})
	}
}
