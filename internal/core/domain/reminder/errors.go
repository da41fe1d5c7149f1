package reminder

import (
	"errors"
	"fmt"
)

var (
	ErrReminderDoesNotExist  = errors.New("reminder does not exist")
	ErrReminderPermission    = errors.New("reminder belongs to another user")
	ErrInvalidKind           = errors.New("invalid reminder kind")
	ErrInvalidMessage        = errors.New("invalid reminder message")
	ErrInvalidRepeatInterval = errors.New("invalid repeat interval")
	ErrScheduledAtNotSet     = errors.New("scheduled time is not set")
	ErrScheduledAtIsNotUTC   = errors.New("scheduled time must be in UTC")
	ErrRecipientUnresolved   = errors.New("recipient address could not be resolved")
	ErrChannelUnavailable    = errors.New("delivery channel is unavailable")
	ErrSchedulerClosed       = errors.New("scheduler is closed")
	ErrOccurrenceInFlight    = errors.New("reminder occurrence is already being fired")
)

// ChannelError is a failed delivery attempt on a single channel.
type ChannelError struct {
	Channel string
	Err     error
}

func NewChannelError(channel string, err error) *ChannelError {
	return &ChannelError{Channel: channel, Err: err}
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s channel: %v", e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// StoreError is a failure of the reminder store.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("reminder store, %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
