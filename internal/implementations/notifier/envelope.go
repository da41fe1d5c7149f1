package notifier

import (
	"encoding/json"
	"nudgebot/internal/core/domain/reminder"
	"time"

	"github.com/golang-module/carbon/v2"
)

// Envelope is the wire format of every secondary channel event.
type Envelope struct {
	EventType reminder.EventType `json:"event_type"`
	Timestamp string             `json:"timestamp"`
	Data      reminder.Payload   `json:"data"`
}

func NewEnvelope(eventType reminder.EventType, payload reminder.Payload, now time.Time) Envelope {
	return Envelope{
		EventType: eventType,
		Timestamp: carbon.Time2Carbon(now).ToIso8601String(carbon.UTC),
		Data:      payload,
	}
}

func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
