package createtaskreminder

import (
	"context"
	"errors"
	c "nudgebot/internal/core/domain/common"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
	createreminder "nudgebot/internal/core/services/create_reminder"
	"strings"
	"time"
)

// LEAD_TIME is how long before the task is due the reminder fires.
const LEAD_TIME = time.Hour

var ErrInvalidTaskTitle = errors.New("invalid task title")

type Input struct {
	UserID user.ID
	TaskID reminder.TaskID
	Title  string
	DueAt  time.Time
}

func (i Input) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return ErrInvalidTaskTitle
	}
	return reminder.ValidateScheduledAt(i.DueAt)
}

type Result struct {
	Reminder reminder.Reminder
}

type service struct {
	log            logging.Logger
	createReminder services.Service[createreminder.Input, createreminder.Result]
}

func New(
	log logging.Logger,
	createReminder services.Service[createreminder.Input, createreminder.Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if createReminder == nil {
		panic(e.NewNilArgumentError("createReminder"))
	}
	return &service{log: log, createReminder: createReminder}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if err := input.Validate(); err != nil {
		return result, err
	}

	created, err := s.createReminder.Run(ctx, createreminder.Input{
		UserID:      input.UserID,
		Kind:        reminder.KindTask,
		Message:     "Reminder: " + strings.TrimSpace(input.Title),
		ScheduledAt: input.DueAt.Add(-LEAD_TIME),
		TaskID:      c.NewOptional(input.TaskID, true),
	})
	if err != nil {
		return result, err
	}

	s.log.Info(
		ctx,
		"Task reminder successfully created.",
		logging.Entry("reminderID", created.Reminder.ID),
		logging.Entry("taskID", input.TaskID),
	)
	result.Reminder = created.Reminder
	return result, nil
}
