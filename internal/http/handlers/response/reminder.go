package response

import (
	"nudgebot/internal/core/domain/reminder"
	"time"
)

type Reminder struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Kind           string     `json:"kind"`
	Message        string     `json:"message"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	RepeatInterval *uint32    `json:"repeat_interval"`
	Active         bool       `json:"active"`
	LastSentAt     *time.Time `json:"last_sent_at"`
	TaskID         *int64     `json:"task_id"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (r *Reminder) FromDomainType(dr reminder.Reminder) {
	r.ID = int64(dr.ID)
	r.UserID = int64(dr.OwnerID)
	r.Kind = string(dr.Kind)
	r.Message = dr.Message
	r.ScheduledAt = dr.ScheduledAt
	if dr.RepeatInterval.IsPresent {
		interval := uint32(dr.RepeatInterval.Value)
		r.RepeatInterval = &interval
	}
	r.Active = dr.Active
	if dr.LastSentAt.IsPresent {
		r.LastSentAt = &dr.LastSentAt.Value
	}
	if dr.TaskID.IsPresent {
		taskID := int64(dr.TaskID.Value)
		r.TaskID = &taskID
	}
	r.CreatedAt = dr.CreatedAt
}

func FromDomainReminders(reminders []reminder.Reminder) []Reminder {
	result := make([]Reminder, 0, len(reminders))
	for _, dr := range reminders {
		r := Reminder{}
		r.FromDomainType(dr)
		result = append(result, r)
	}
	return result
}
