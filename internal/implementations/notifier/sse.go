package notifier

import (
	"context"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/reminder"
	"time"

	"github.com/r3labs/sse/v2"
)

const EVENTS_STREAM = "events"

// SSE fans events out to connected dashboard clients.
type SSE struct {
	server *sse.Server
	stream string
	now    func() time.Time
}

func NewSSE(server *sse.Server, now func() time.Time) *SSE {
	if server == nil {
		panic(e.NewNilArgumentError("server"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if !server.StreamExists(EVENTS_STREAM) {
		server.CreateStream(EVENTS_STREAM)
	}
	return &SSE{server: server, stream: EVENTS_STREAM, now: now}
}

func (s *SSE) Notify(ctx context.Context, eventType reminder.EventType, payload reminder.Payload) error {
	body, err := NewEnvelope(eventType, payload, s.now()).Marshal()
	if err != nil {
		return err
	}
	s.server.Publish(s.stream, &sse.Event{Event: []byte(eventType), Data: body})
	return nil
}
