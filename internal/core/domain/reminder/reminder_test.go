package reminder

import (
	"context"
	c "nudgebot/internal/core/domain/common"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestAfterDeliveryAdvancesRecurringReminder(t *testing.T) {
	rem := Reminder{
		ID:             ID(1),
		Kind:           KindWater,
		ScheduledAt:    now.Add(-time.Minute),
		RepeatInterval: c.NewOptional(RepeatInterval(30), true),
		Active:         true,
	}

	next := rem.AfterDelivery(now)

	assert := require.New(t)
	assert.True(next.Active)
	assert.Equal(now.Add(30*time.Minute), next.ScheduledAt)
	assert.Equal(c.NewOptional(now, true), next.LastSentAt)
	assert.True(next.NeedsRearm())
}

func TestAfterDeliveryDeactivatesOneShotReminder(t *testing.T) {
	rem := Reminder{ID: ID(1), Kind: KindTask, ScheduledAt: now, Active: true}

	next := rem.AfterDelivery(now.Add(time.Second))

	assert := require.New(t)
	assert.False(next.Active)
	assert.Equal(now, next.ScheduledAt)
	assert.Equal(c.NewOptional(now.Add(time.Second), true), next.LastSentAt)
	assert.False(next.NeedsRearm())
}

func TestAfterDeliveryKeepsPausedReminderPaused(t *testing.T) {
	rem := Reminder{
		ID:             ID(1),
		ScheduledAt:    now,
		RepeatInterval: c.NewOptional(RepeatInterval(5), true),
		Active:         false,
	}

	next := rem.AfterDelivery(now)

	assert := require.New(t)
	assert.False(next.Active)
	assert.Equal(now, next.ScheduledAt)
	assert.False(next.NeedsRearm())
}

func TestRepeatIntervalValidate(t *testing.T) {
	cases := []struct {
		interval RepeatInterval
		isValid  bool
	}{
		{interval: 0, isValid: false},
		{interval: 1, isValid: true},
		{interval: 30, isValid: true},
		{interval: MAX_REPEAT_INTERVAL, isValid: true},
		{interval: MAX_REPEAT_INTERVAL + 1, isValid: false},
	}

	for _, testcase := range cases {
		err := testcase.interval.Validate()
		if testcase.isValid {
			assert.Nil(t, err, testcase.interval)
		} else {
			assert.ErrorIs(t, err, ErrInvalidRepeatInterval, testcase.interval)
		}
	}
}

func TestReminderValidate(t *testing.T) {
	valid := Reminder{Kind: KindMedication, Message: "Take a pill", ScheduledAt: now}

	cases := []struct {
		id     string
		modify func(r *Reminder)
		err    error
	}{
		{id: "valid", modify: func(r *Reminder) {}},
		{id: "empty kind", modify: func(r *Reminder) { r.Kind = "" }, err: ErrInvalidKind},
		{id: "long kind", modify: func(r *Reminder) { r.Kind = Kind(strings.Repeat("k", 21)) }, err: ErrInvalidKind},
		{id: "blank message", modify: func(r *Reminder) { r.Message = "  " }, err: ErrInvalidMessage},
		{
			id:     "long message",
			modify: func(r *Reminder) { r.Message = strings.Repeat("m", MAX_MESSAGE_LEN+1) },
			err:    ErrInvalidMessage,
		},
		{
			id:     "zero interval",
			modify: func(r *Reminder) { r.RepeatInterval = c.NewOptional(RepeatInterval(0), true) },
			err:    ErrInvalidRepeatInterval,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			rem := valid
			testcase.modify(&rem)
			err := rem.Validate()
			if testcase.err == nil {
				assert.Nil(t, err)
			} else {
				assert.ErrorIs(t, err, testcase.err)
			}
		})
	}
}

func TestValidateScheduledAt(t *testing.T) {
	assert.Nil(t, ValidateScheduledAt(now))
	assert.ErrorIs(t, ValidateScheduledAt(time.Time{}), ErrScheduledAtNotSet)
	assert.ErrorIs(t, ValidateScheduledAt(now.In(time.FixedZone("X", 3600))), ErrScheduledAtIsNotUTC)
}

func TestOverdueOneShotOptionsSelectOnlyPastOneShotReminders(t *testing.T) {
	repo := NewFakeRepository(
		Reminder{ID: 1, Active: true, ScheduledAt: now.Add(-time.Minute)},
		Reminder{ID: 2, Active: true, ScheduledAt: now.Add(time.Minute)},
		Reminder{ID: 3, Active: false, ScheduledAt: now.Add(-time.Minute)},
		Reminder{
			ID:             4,
			Active:         true,
			ScheduledAt:    now.Add(-time.Minute),
			RepeatInterval: c.NewOptional(RepeatInterval(10), true),
		},
	)

	reminders, err := repo.Read(context.Background(), OverdueOneShotOptions(now))

	assert := require.New(t)
	assert.Nil(err)
	assert.Len(reminders, 1)
	assert.Equal(ID(1), reminders[0].ID)
}

func TestChannelErrorUnwraps(t *testing.T) {
	err := NewChannelError("telegram", ErrChannelUnavailable)

	assert.ErrorIs(t, err, ErrChannelUnavailable)
	assert.Equal(t, "telegram channel: delivery channel is unavailable", err.Error())
}
