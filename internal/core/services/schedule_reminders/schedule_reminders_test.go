package schedulereminders

import (
	"context"
	"errors"
	c "nudgebot/internal/core/domain/common"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var (
	Now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
)

type testSuite struct {
	suite.Suite
	logger    *logging.FakeLogger
	reminders *reminder.FakeRepository
	scheduler *reminder.TestReminderScheduler
	service   services.Service[Input, Result]
}

func (s *testSuite) SetupTest() {
	s.logger = logging.NewFakeLogger()
	s.reminders = reminder.NewFakeRepository()
	s.scheduler = reminder.NewTestReminderScheduler()
	s.service = New(s.logger, s.reminders, s.scheduler)
}

func TestScheduleRemindersService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestOnlyActiveRemindersAreScheduled() {
	// Setup ---
	s.reminders.Put(reminder.Reminder{ID: 1, OwnerID: user.ID(1), ScheduledAt: Now.Add(-time.Hour), Active: true})
	s.reminders.Put(reminder.Reminder{ID: 2, OwnerID: user.ID(1), ScheduledAt: Now.Add(time.Hour), Active: false})
	s.reminders.Put(reminder.Reminder{
		ID:             3,
		OwnerID:        user.ID(2),
		ScheduledAt:    Now.Add(time.Minute),
		RepeatInterval: c.NewOptional(reminder.RepeatInterval(60), true),
		Active:         true,
	})

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(2, result.Count)
	assert.ElementsMatch([]reminder.ID{1, 3}, s.scheduler.Scheduled)
	assert.Equal([]reminder.ReadOptions{reminder.ActiveOptions()}, s.reminders.ReadWith)
}

func (s *testSuite) TestNoActiveReminders() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(0, result.Count)
	assert.Len(s.scheduler.Scheduled, 0)
}

func (s *testSuite) TestSchedulingErrorsAreSkipped() {
	// Setup ---
	s.reminders.Put(reminder.Reminder{ID: 1, Active: true, ScheduledAt: Now})
	s.reminders.Put(reminder.Reminder{ID: 2, Active: true, ScheduledAt: Now})
	s.scheduler.Error = errors.New("scheduler is closed")

	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(0, result.Count)
	assert.Equal(2, s.logger.CountLevel(logging.ERROR))
}

func (s *testSuite) TestReadError() {
	// Setup ---
	s.reminders.ReadError = errors.New("connection reset")

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, s.reminders.ReadError)
	var storeErr *reminder.StoreError
	assert.ErrorAs(err, &storeErr)
}
