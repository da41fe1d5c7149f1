package updatereminder

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

const (
	USER_ID     = user.ID(1)
	REMINDER_ID = reminder.ID(2)
)

var Now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	logger     *logging.FakeLogger
	reminders  *reminder.FakeRepository
	unitOfWork *uow.FakeUnitOfWork
	scheduler  *reminder.TestReminderScheduler
	service    services.Service[Input, Result]
}

func (s *testSuite) SetupTest() {
	s.logger = logging.NewFakeLogger()
	s.reminders = reminder.NewFakeRepository(reminder.Reminder{
		ID:             REMINDER_ID,
		Kind:           reminder.KindMedication,
		Message:        "Take vitamin D",
		ScheduledAt:    Now.Add(time.Hour),
		RepeatInterval: c.NewOptional(reminder.RepeatInterval(24*60), true),
		Active:         true,
		OwnerID:        USER_ID,
		CreatedAt:      Now,
	})
	s.unitOfWork = uow.NewFakeUnitOfWork(user.NewFakeUserRepository(), s.reminders)
	s.scheduler = reminder.NewTestReminderScheduler()
	s.service = New(s.logger, s.unitOfWork, s.scheduler)
}

func TestUpdateReminderService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestPartialUpdate() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{
		UserID:              USER_ID,
		ReminderID:          REMINDER_ID,
		DoScheduledAtUpdate: true,
		ScheduledAt:         Now.Add(3 * time.Hour),
	})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(Now.Add(3*time.Hour), result.Reminder.ScheduledAt)
	assert.Equal("Take vitamin D", result.Reminder.Message)
	assert.Equal(c.NewOptional(reminder.RepeatInterval(24*60), true), result.Reminder.RepeatInterval)
	assert.Equal(result.Reminder, s.reminders.Get(REMINDER_ID))
	assert.True(s.unitOfWork.Context.WasCommitCalled())
	assert.Equal([]reminder.ID{REMINDER_ID}, s.scheduler.Scheduled)
}

func (s *testSuite) TestMakeOneShot() {
	// Exercise ---
	result, err := s.service.Run(context.Background(), Input{
		UserID:                 USER_ID,
		ReminderID:             REMINDER_ID,
		DoMessageUpdate:        true,
		Message:                "Take vitamin D once",
		DoRepeatIntervalUpdate: true,
	})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.False(result.Reminder.IsRecurring())
	assert.Equal("Take vitamin D once", result.Reminder.Message)
}

func (s *testSuite) TestValidation() {
	cases := []struct {
		id    string
		input Input
		err   error
	}{
		{
			id:    "empty message",
			input: Input{DoMessageUpdate: true, Message: ""},
			err:   reminder.ErrInvalidMessage,
		},
		{
			id:    "zero time",
			input: Input{DoScheduledAtUpdate: true},
			err:   reminder.ErrScheduledAtNotSet,
		},
		{
			id: "interval too large",
			input: Input{
				DoRepeatIntervalUpdate: true,
				RepeatInterval:         c.NewOptional(reminder.MAX_REPEAT_INTERVAL+1, true),
			},
			err: reminder.ErrInvalidRepeatInterval,
		},
	}

	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			input := testcase.input
			input.UserID = USER_ID
			input.ReminderID = REMINDER_ID

			_, err := s.service.Run(context.Background(), input)

			s.Require().ErrorIs(err, testcase.err)
		})
	}
	s.Require().Len(s.reminders.Updated, 0)
}

func (s *testSuite) TestOtherUsersReminder() {
	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{
		UserID:          user.ID(99),
		ReminderID:      REMINDER_ID,
		DoMessageUpdate: true,
		Message:         "hijacked",
	})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, reminder.ErrReminderPermission)
	assert.Equal("Take vitamin D", s.reminders.Get(REMINDER_ID).Message)
	assert.Len(s.scheduler.Scheduled, 0)
}

func (s *testSuite) TestReminderDoesNotExist() {
	_, err := s.service.Run(context.Background(), Input{UserID: USER_ID, ReminderID: reminder.ID(404)})
	s.Require().ErrorIs(err, reminder.ErrReminderDoesNotExist)
}

func (s *testSuite) TestCommitError() {
	// Setup ---
	s.unitOfWork.Context.CommitError = errors.New("commit failed")

	// Exercise ---
	_, err := s.service.Run(context.Background(), Input{
		UserID:          USER_ID,
		ReminderID:      REMINDER_ID,
		DoMessageUpdate: true,
		Message:         "new",
	})

	// Verify ---
	assert := s.Require()
	assert.ErrorIs(err, s.unitOfWork.Context.CommitError)
	assert.Len(s.scheduler.Scheduled, 0)
	assert.Equal(1, s.logger.CountLevel(logging.ERROR))
}
