package reminder

import (
	"context"
	c "nudgebot/internal/core/domain/common"
	"nudgebot/internal/core/domain/user"
	"time"
)

type CreateInput struct {
	Kind           Kind
	Message        string
	ScheduledAt    time.Time
	RepeatInterval c.Optional[RepeatInterval]
	Active         bool
	OwnerID        user.ID
	TaskID         c.Optional[TaskID]
	CreatedAt      time.Time
}

type ReadOptions struct {
	OwnerEquals     c.Optional[user.ID]
	KindEquals      c.Optional[Kind]
	ActiveEquals    c.Optional[bool]
	IsRecurring     c.Optional[bool]
	ScheduledBefore c.Optional[time.Time]
	OrderBy         OrderBy
	Limit           c.Optional[uint]
}

// ActiveOptions selects every reminder eligible for scheduling.
func ActiveOptions() ReadOptions {
	return ReadOptions{
		ActiveEquals: c.NewOptional(true, true),
		OrderBy:      OrderByScheduledAtAsc,
	}
}

// OverdueOneShotOptions selects active one-shot reminders whose time has
// passed before now.
func OverdueOneShotOptions(now time.Time) ReadOptions {
	return ReadOptions{
		ActiveEquals:    c.NewOptional(true, true),
		IsRecurring:     c.NewOptional(false, true),
		ScheduledBefore: c.NewOptional(now, true),
		OrderBy:         OrderByIDAsc,
	}
}

type UpdateInput struct {
	ID                     ID
	DoMessageUpdate        bool
	Message                string
	DoScheduledAtUpdate    bool
	ScheduledAt            time.Time
	DoRepeatIntervalUpdate bool
	RepeatInterval         c.Optional[RepeatInterval]
	DoActiveUpdate         bool
	Active                 bool
	DoLastSentAtUpdate     bool
	LastSentAt             c.Optional[time.Time]
}

// SaveInput builds an update that writes all mutable fields of r.
func SaveInput(r Reminder) UpdateInput {
	return UpdateInput{
		ID:                     r.ID,
		DoMessageUpdate:        true,
		Message:                r.Message,
		DoScheduledAtUpdate:    true,
		ScheduledAt:            r.ScheduledAt,
		DoRepeatIntervalUpdate: true,
		RepeatInterval:         r.RepeatInterval,
		DoActiveUpdate:         true,
		Active:                 r.Active,
		DoLastSentAtUpdate:     true,
		LastSentAt:             r.LastSentAt,
	}
}

func (i UpdateInput) Apply(r Reminder) Reminder {
	if i.DoMessageUpdate {
		r.Message = i.Message
	}
	if i.DoScheduledAtUpdate {
		r.ScheduledAt = i.ScheduledAt
	}
	if i.DoRepeatIntervalUpdate {
		r.RepeatInterval = i.RepeatInterval
	}
	if i.DoActiveUpdate {
		r.Active = i.Active
	}
	if i.DoLastSentAtUpdate {
		r.LastSentAt = i.LastSentAt
	}
	return r
}

type ReminderRepository interface {
	Create(ctx context.Context, input CreateInput) (Reminder, error)
	// Lock works only within a unit of work and holds the row until it ends.
	Lock(ctx context.Context, id ID) error
	GetByID(ctx context.Context, id ID) (Reminder, error)
	Read(ctx context.Context, options ReadOptions) ([]Reminder, error)
	Update(ctx context.Context, input UpdateInput) (Reminder, error)
}
