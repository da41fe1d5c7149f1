package createtaskreminder

import (
	"context"
	c "nudgebot/internal/core/domain/common"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	uow "nudgebot/internal/core/domain/unit_of_work"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
	createreminder "nudgebot/internal/core/services/create_reminder"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var (
	Now   = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	OWNER = user.User{ID: user.ID(1), Username: "alice"}
)

type testSuite struct {
	suite.Suite
	reminders *reminder.FakeRepository
	scheduler *reminder.TestReminderScheduler
	service   services.Service[Input, Result]
}

func (s *testSuite) SetupTest() {
	log := logging.NewFakeLogger()
	s.reminders = reminder.NewFakeRepository()
	s.scheduler = reminder.NewTestReminderScheduler()
	create := createreminder.New(
		log,
		uow.NewFakeUnitOfWork(user.NewFakeUserRepository(OWNER), s.reminders),
		s.scheduler,
		func() time.Time { return Now },
	)
	s.service = New(log, create)
}

func TestCreateTaskReminderService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestReminderFiresOneHourBeforeDue() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{
		UserID: OWNER.ID,
		TaskID: reminder.TaskID(9),
		Title:  " Submit report ",
		DueAt:  Now.Add(5 * time.Hour),
	})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	stored := s.reminders.Get(result.Reminder.ID)
	assert.Equal(reminder.KindTask, stored.Kind)
	assert.Equal("Reminder: Submit report", stored.Message)
	assert.Equal(Now.Add(4*time.Hour), stored.ScheduledAt)
	assert.Equal(c.NewOptional(reminder.TaskID(9), true), stored.TaskID)
	assert.False(stored.IsRecurring())
	assert.True(stored.Active)
	assert.Equal([]reminder.ID{stored.ID}, s.scheduler.Scheduled)
}

func (s *testSuite) TestTaskDueWithinLeadTimeIsStillScheduled() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{
		UserID: OWNER.ID,
		TaskID: reminder.TaskID(9),
		Title:  "Call the bank",
		DueAt:  Now.Add(10 * time.Minute),
	})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(Now.Add(-50*time.Minute), result.Reminder.ScheduledAt)
	assert.Equal([]reminder.ID{result.Reminder.ID}, s.scheduler.Scheduled)
}

func (s *testSuite) TestValidation() {
	_, err := s.service.Run(context.Background(), Input{UserID: OWNER.ID, Title: " ", DueAt: Now})
	s.Require().ErrorIs(err, ErrInvalidTaskTitle)

	_, err = s.service.Run(context.Background(), Input{UserID: OWNER.ID, Title: "title"})
	s.Require().ErrorIs(err, reminder.ErrScheduledAtNotSet)
}
