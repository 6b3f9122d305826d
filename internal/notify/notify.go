// Package notify delivers user notifications outside the transaction that
// produced them. Delivery is best effort: failures are retried a few times and
// then logged, never reported back to the caller.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification is a message addressed to one user.
type Notification struct {
	EventID   string    `json:"event_id"`
	UserID    uint64    `json:"user_id"`
	Message   string    `json:"message"`
	BoardID   *uint64   `json:"board_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// New builds a notification with a fresh event id.
func New(userID uint64, message string, boardID *uint64) Notification {
	return Notification{
		EventID:   uuid.NewString(),
		UserID:    userID,
		Message:   message,
		BoardID:   boardID,
		CreatedAt: time.Now().UTC(),
	}
}

// Notifier accepts notifications for delivery without blocking.
type Notifier interface {
	Notify(n Notification)
}

// Sink is one delivery target. Deliver must be safe to call again with the
// same notification after a failure.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})
