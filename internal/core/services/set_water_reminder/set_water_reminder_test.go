package setwaterreminder

import (
	"context"
	"errors"
	c "nudgebot/internal/core/domain/common"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	uow "nudgebot/internal/core/domain/unit_of_work"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var (
	Now   = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	OWNER = user.User{
		ID:         user.ID(1),
		Username:   "alice",
		TelegramID: c.NewOptional(user.TelegramID(1001), true),
	}
)

type testSuite struct {
	suite.Suite
	reminders  *reminder.FakeRepository
	unitOfWork *uow.FakeUnitOfWork
	scheduler  *reminder.TestReminderScheduler
	secondary  *reminder.FakeSecondaryChannel
	service    services.Service[Input, Result]
}

func (s *testSuite) SetupTest() {
	s.reminders = reminder.NewFakeRepository()
	s.unitOfWork = uow.NewFakeUnitOfWork(user.NewFakeUserRepository(OWNER), s.reminders)
	s.scheduler = reminder.NewTestReminderScheduler()
	s.secondary = reminder.NewFakeSecondaryChannel()
	s.service = New(
		logging.NewFakeLogger(),
		s.unitOfWork,
		s.scheduler,
		s.secondary,
		func() time.Time { return Now },
	)
}

func TestSetWaterReminderService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCreateWithDefaultInterval() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{UserID: OWNER.ID})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.True(result.Created)
	stored := s.reminders.Get(result.Reminder.ID)
	assert.Equal(reminder.KindWater, stored.Kind)
	assert.Equal(MESSAGE, stored.Message)
	assert.Equal(Now.Add(time.Hour), stored.ScheduledAt)
	assert.Equal(c.NewOptional(DEFAULT_INTERVAL, true), stored.RepeatInterval)
	assert.True(stored.Active)
	assert.Equal([]reminder.ID{stored.ID}, s.scheduler.Scheduled)

	notified := s.secondary.Notified()
	assert.Len(notified, 1)
	assert.Equal(reminder.EventRegisterReminder, notified[0].EventType)
	assert.Equal(uint32(60), notified[0].Payload["interval_minutes"])
	assert.Equal(int64(1001), notified[0].Payload["telegram_id"])
	assert.Equal("water", notified[0].Payload["reminder_type"])
}

func (s *testSuite) TestExistingReminderIsUpdated() {
	// Setup ---
	s.reminders.Put(reminder.Reminder{
		ID:             5,
		Kind:           reminder.KindWater,
		Message:        MESSAGE,
		ScheduledAt:    Now.Add(-time.Hour),
		RepeatInterval: c.NewOptional(reminder.RepeatInterval(120), true),
		Active:         false,
		OwnerID:        OWNER.ID,
	})

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{
		UserID:   OWNER.ID,
		Interval: c.NewOptional(reminder.RepeatInterval(30), true),
	})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.False(result.Created)
	assert.Equal(reminder.ID(5), result.Reminder.ID)
	stored := s.reminders.Get(5)
	assert.True(stored.Active)
	assert.Equal(Now.Add(30*time.Minute), stored.ScheduledAt)
	assert.Equal(c.NewOptional(reminder.RepeatInterval(30), true), stored.RepeatInterval)
	assert.Equal([]reminder.ID{5}, s.scheduler.Scheduled)
}

func (s *testSuite) TestStop() {
	// Setup ---
	s.reminders.Put(reminder.Reminder{
		ID:             5,
		Kind:           reminder.KindWater,
		Message:        MESSAGE,
		ScheduledAt:    Now.Add(time.Hour),
		RepeatInterval: c.NewOptional(reminder.RepeatInterval(60), true),
		Active:         true,
		OwnerID:        OWNER.ID,
	})

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{UserID: OWNER.ID, Stop: true})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.False(s.reminders.Get(5).Active)
	assert.Equal([]reminder.ID{5}, s.scheduler.Canceled)
	assert.Len(s.secondary.Notified(), 0)
}

func (s *testSuite) TestStopLocksReminder() {
	// Setup ---
	s.reminders.Put(reminder.Reminder{
		ID:             5,
		Kind:           reminder.KindWater,
		Message:        MESSAGE,
		ScheduledAt:    Now.Add(time.Hour),
		RepeatInterval: c.NewOptional(reminder.RepeatInterval(60), true),
		Active:         true,
		OwnerID:        OWNER.ID,
	})
	s.reminders.LockError = errors.New("lock timeout")

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{UserID: OWNER.ID, Stop: true})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, s.reminders.LockError)
	assert.True(s.reminders.Get(5).Active)
	assert.Len(s.reminders.Updated, 0)
	assert.False(s.unitOfWork.Context.WasCommitCalled())
	assert.Len(s.scheduler.Canceled, 0)
}

func (s *testSuite) TestStopWithoutReminder() {
	_, err := s.service.Run(context.Background(), Input{UserID: OWNER.ID, Stop: true})
	s.Require().ErrorIs(err, reminder.ErrReminderDoesNotExist)
}

func (s *testSuite) TestInvalidInterval() {
	_, err := s.service.Run(context.Background(), Input{
		UserID:   OWNER.ID,
		Interval: c.NewOptional(reminder.RepeatInterval(0), true),
	})
	s.Require().ErrorIs(err, reminder.ErrInvalidRepeatInterval)
}

func (s *testSuite) TestSecondaryChannelFailureIsIgnored() {
	// Setup ---
	s.secondary.NotifyError = errors.New("webhook is down")

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{UserID: OWNER.ID})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.True(s.reminders.Get(result.Reminder.ID).Active)
}

func (s *testSuite) TestOtherUsersReminderIsNotTouched() {
	// Setup ---
	s.reminders.Put(reminder.Reminder{
		ID:          5,
		Kind:        reminder.KindWater,
		Message:     MESSAGE,
		ScheduledAt: Now,
		Active:      false,
		OwnerID:     user.ID(2),
	})

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{UserID: OWNER.ID})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.True(result.Created)
	assert.NotEqual(reminder.ID(5), result.Reminder.ID)
	assert.False(s.reminders.Get(5).Active)
}
