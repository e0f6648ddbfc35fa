// Package notify delivers reminder messages to users over the configured
// outbound channels.
package notify

import (
	"context"
	"errors"

	"studycloud/internal/model"
)

// Message is one reminder to deliver: a subject line plus a short body.
type Message struct {
	Subject string
	Body    string
}

// Notifier sends a message to a user. A send failure is reported to the
// caller but must never block the sweep's bookkeeping.
type Notifier interface {
	Notify(ctx context.Context, user *model.User, msg Message) error
}

// Fanout delivers through every configured channel and joins the
// failures, so one broken channel does not silence the others.
type Fanout struct {
	channels []Notifier
}

func NewFanout(channels ...Notifier) *Fanout {
	return &Fanout{channels: channels}
}

func (f *Fanout) Notify(ctx context.Context, user *model.User, msg Message) error {
	var errs []error
	for _, ch := range f.channels {
		if err := ch.Notify(ctx, user, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
