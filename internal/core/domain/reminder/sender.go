package reminder

import (
	"context"
	"nudgebot/internal/core/domain/user"
)

// Address is a channel specific recipient address, e.g. a chat ID.
type Address string

// PrimaryChannel delivers the reminder text directly to the user.
type PrimaryChannel interface {
	Name() string
	ResolveAddress(u user.User) (Address, bool)
	Send(ctx context.Context, to Address, text string) error
}

type EventType string

const (
	EventSendNotification EventType = "send_notification"
	EventRegisterReminder EventType = "register_reminder"
)

type Payload map[string]interface{}

// SecondaryChannel is a fire-and-forget notification sink used as an
// automation and audit trail next to the primary channel.
type SecondaryChannel interface {
	Notify(ctx context.Context, eventType EventType, payload Payload) error
}

// NotificationPayload is the data sent with EventSendNotification.
func NotificationPayload(rem Reminder, u user.User, to Address) Payload {
	payload := Payload{
		"reminder_id":       int64(rem.ID),
		"user_id":           int64(rem.OwnerID),
		"kind":              string(rem.Kind),
		"message":           rem.Message,
		"notification_type": "reminder",
		"address":           string(to),
	}
	if u.TelegramID.IsPresent {
		payload["telegram_id"] = int64(u.TelegramID.Value)
	}
	return payload
}

// RegistrationPayload is the data sent with EventRegisterReminder.
func RegistrationPayload(rem Reminder, u user.User) Payload {
	payload := Payload{
		"reminder_id":   int64(rem.ID),
		"user_id":       int64(rem.OwnerID),
		"reminder_type": string(rem.Kind),
	}
	if rem.RepeatInterval.IsPresent {
		payload["interval_minutes"] = uint32(rem.RepeatInterval.Value)
	}
	if u.TelegramID.IsPresent {
		payload["telegram_id"] = int64(u.TelegramID.Value)
	}
	return payload
}

type unavailablePrimaryChannel struct {
	reason string
}

// NewUnavailablePrimaryChannel stands in for a primary channel that could
// not be initialized. Every send fails with ErrChannelUnavailable.
func NewUnavailablePrimaryChannel(reason string) PrimaryChannel {
	return &unavailablePrimaryChannel{reason: reason}
}

func (c *unavailablePrimaryChannel) Name() string {
	return "unavailable"
}

func (c *unavailablePrimaryChannel) ResolveAddress(u user.User) (Address, bool) {
	return Address(""), true
}

func (c *unavailablePrimaryChannel) Send(ctx context.Context, to Address, text string) error {
	return NewChannelError(c.reason, ErrChannelUnavailable)
}

type unavailableSecondaryChannel struct{}

func NewUnavailableSecondaryChannel() SecondaryChannel {
	return unavailableSecondaryChannel{}
}

func (unavailableSecondaryChannel) Notify(ctx context.Context, eventType EventType, payload Payload) error {
	return NewChannelError("secondary", ErrChannelUnavailable)
}
