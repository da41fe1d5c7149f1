package notifier

import (
	"context"
	"nudgebot/internal/core/domain/reminder"

	"go.uber.org/multierr"
)

// Multi notifies every channel, one failure does not stop the others.
type Multi struct {
	channels []reminder.SecondaryChannel
}

func NewMulti(channels ...reminder.SecondaryChannel) *Multi {
	return &Multi{channels: channels}
}

func (m *Multi) Notify(ctx context.Context, eventType reminder.EventType, payload reminder.Payload) (err error) {
	for _, ch := range m.channels {
		err = multierr.Append(err, ch.Notify(ctx, eventType, payload))
	}
	return err
}
