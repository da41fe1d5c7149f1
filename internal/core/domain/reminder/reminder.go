package reminder

import (
	"fmt"
	c "nudgebot/internal/core/domain/common"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/user"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MAX_KIND_LEN    = 20
	MAX_MESSAGE_LEN = 4096

	// Upper bound for RepeatInterval, one year in minutes.
	MAX_REPEAT_INTERVAL = RepeatInterval(365 * 24 * 60)

	// Used when a paused reminder without an interval is activated again.
	DEFAULT_REACTIVATION_DELAY = time.Hour
)

type ID int64

type TaskID int64

type Kind string

const (
	KindTask       Kind = "task"
	KindWater      Kind = "water"
	KindCalendar   Kind = "calendar"
	KindMedication Kind = "medication"
)

func (k Kind) Validate() error {
	if strings.TrimSpace(string(k)) == "" || utf8.RuneCountInString(string(k)) > MAX_KIND_LEN {
		return ErrInvalidKind
	}
	return nil
}

// RepeatInterval is a period between deliveries in minutes.
type RepeatInterval uint32

func (i RepeatInterval) Duration() time.Duration {
	return time.Duration(i) * time.Minute
}

func (i RepeatInterval) Validate() error {
	if i == 0 || i > MAX_REPEAT_INTERVAL {
		return ErrInvalidRepeatInterval
	}
	return nil
}

type Reminder struct {
	ID             ID
	Kind           Kind
	Message        string
	ScheduledAt    time.Time
	RepeatInterval c.Optional[RepeatInterval]
	Active         bool
	LastSentAt     c.Optional[time.Time]
	OwnerID        user.ID
	TaskID         c.Optional[TaskID]
	CreatedAt      time.Time
}

func (r *Reminder) Validate() error {
	if err := r.Kind.Validate(); err != nil {
		return err
	}
	if err := ValidateMessage(r.Message); err != nil {
		return err
	}
	if r.RepeatInterval.IsPresent {
		if err := r.RepeatInterval.Value.Validate(); err != nil {
			return err
		}
	}
	if r.ScheduledAt.IsZero() {
		return e.NewInvalidStateError(fmt.Sprintf("scheduled time is not set for reminder %d", r.ID))
	}
	return nil
}

func (r Reminder) IsRecurring() bool {
	return r.RepeatInterval.IsPresent
}

// AfterDelivery returns the state of the reminder after a delivery attempt
// made at now. The attempt counts whether or not any channel delivered.
// An inactive reminder only gets LastSentAt recorded.
func (r Reminder) AfterDelivery(now time.Time) Reminder {
	r.LastSentAt = c.NewOptional(now, true)
	if !r.Active {
		return r
	}
	if r.RepeatInterval.IsPresent {
		r.ScheduledAt = now.Add(r.RepeatInterval.Value.Duration())
	} else {
		r.Active = false
	}
	return r
}

// NeedsRearm reports whether another occurrence has to be scheduled.
func (r Reminder) NeedsRearm() bool {
	return r.Active && r.RepeatInterval.IsPresent
}

func (r Reminder) IsOwnedBy(id user.ID) bool {
	return r.OwnerID == id
}

func ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" || utf8.RuneCountInString(message) > MAX_MESSAGE_LEN {
		return ErrInvalidMessage
	}
	return nil
}

func ValidateScheduledAt(at time.Time) error {
	if at.IsZero() {
		return ErrScheduledAtNotSet
	}
	if at.Location() != time.UTC {
		return ErrScheduledAtIsNotUTC
	}
	return nil
}
