package togglereminder

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

const USER_ID = user.ID(1)

var Now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	reminders  *reminder.FakeRepository
	unitOfWork *uow.FakeUnitOfWork
	scheduler  *reminder.TestReminderScheduler
	service    services.Service[Input, Result]
}

func (s *testSuite) SetupTest() {
	s.reminders = reminder.NewFakeRepository(
		reminder.Reminder{
			ID:             1,
			Kind:           reminder.KindWater,
			Message:        "drink",
			ScheduledAt:    Now.Add(-2 * time.Hour),
			RepeatInterval: c.NewOptional(reminder.RepeatInterval(30), true),
			Active:         false,
			OwnerID:        USER_ID,
		},
		reminder.Reminder{
			ID:          2,
			Kind:        reminder.KindTask,
			Message:     "call mom",
			ScheduledAt: Now.Add(-time.Hour),
			Active:      false,
			OwnerID:     USER_ID,
		},
		reminder.Reminder{
			ID:          3,
			Kind:        reminder.KindTask,
			Message:     "pay rent",
			ScheduledAt: Now.Add(time.Hour),
			Active:      true,
			OwnerID:     USER_ID,
		},
	)
	s.unitOfWork = uow.NewFakeUnitOfWork(user.NewFakeUserRepository(), s.reminders)
	s.scheduler = reminder.NewTestReminderScheduler()
	s.service = New(logging.NewFakeLogger(), s.unitOfWork, s.scheduler, func() time.Time { return Now })
}

func TestToggleReminderService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestActivateRecurring() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{UserID: USER_ID, ReminderID: 1})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.True(result.Reminder.Active)
	assert.Equal(Now.Add(30*time.Minute), result.Reminder.ScheduledAt)
	assert.Equal([]reminder.ID{1}, s.scheduler.Scheduled)
	assert.Len(s.scheduler.Canceled, 0)
}

func (s *testSuite) TestActivateOneShotUsesDefaultDelay() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{UserID: USER_ID, ReminderID: 2})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.True(result.Reminder.Active)
	assert.Equal(Now.Add(reminder.DEFAULT_REACTIVATION_DELAY), s.reminders.Get(2).ScheduledAt)
	assert.Equal([]reminder.ID{2}, s.scheduler.Scheduled)
}

func (s *testSuite) TestPause() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{UserID: USER_ID, ReminderID: 3})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.False(result.Reminder.Active)
	assert.Equal(Now.Add(time.Hour), result.Reminder.ScheduledAt)
	assert.Equal([]reminder.ID{3}, s.scheduler.Canceled)
	assert.Len(s.scheduler.Scheduled, 0)
}

func (s *testSuite) TestOtherUsersReminder() {
	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{UserID: user.ID(2), ReminderID: 3})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, reminder.ErrReminderPermission)
	assert.True(s.reminders.Get(3).Active)
}

func (s *testSuite) TestReminderDoesNotExist() {
	_, err := s.service.Run(context.Background(), Input{UserID: USER_ID, ReminderID: 404})
	s.Require().ErrorIs(err, reminder.ErrReminderDoesNotExist)
}

func (s *testSuite) TestLockError() {
	// Setup ---
	s.reminders.LockError = errors.New("lock timeout")

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{UserID: USER_ID, ReminderID: 3})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, s.reminders.LockError)
	assert.True(s.unitOfWork.Context.WasRollbackCalled())
	assert.False(s.unitOfWork.Context.WasCommitCalled())
}
