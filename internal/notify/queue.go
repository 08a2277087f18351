package notify

import (
	"context"
	"log"
)

// Queue is a bounded asynchronous delivery queue. Enqueue never blocks the
// caller: when the queue is full the message is dropped and logged, matching
// the fire-and-forget contract of the notification gateway.
type Queue struct {
	sender Sender
	tasks  chan Message
}

func NewQueue(sender Sender, size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{
		sender: sender,
		tasks:  make(chan Message, size),
	}
}

// Enqueue submits a message for asynchronous delivery.
func (q *Queue) Enqueue(msg Message) {
	select {
	case q.tasks <- msg:
	default:
		log.Printf("notify: queue full, dropping push %q for token %s", msg.Title, msg.Token)
	}
}

// Run consumes the queue until ctx is cancelled. Per-task failures are logged
// and the worker moves on; nothing is retried.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-q.tasks:
			if err := q.sender.Send(ctx, msg); err != nil {
				log.Printf("notify: push %q to token %s failed: %v", msg.Title, msg.Token, err)
			}
		}
	}
}
