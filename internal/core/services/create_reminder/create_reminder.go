package createreminder

import (
	"context"
	"errors"
	c "nudgebot/internal/core/domain/common"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	uow "nudgebot/internal/core/domain/unit_of_work"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
	"time"
)

type Input struct {
	UserID         user.ID
	Kind           reminder.Kind
	Message        string
	ScheduledAt    time.Time
	RepeatInterval c.Optional[reminder.RepeatInterval]
	TaskID         c.Optional[reminder.TaskID]
}

func (i Input) Validate() error {
	if err := i.Kind.Validate(); err != nil {
		return err
	}
	if err := reminder.ValidateMessage(i.Message); err != nil {
		return err
	}
	if err := reminder.ValidateScheduledAt(i.ScheduledAt); err != nil {
		return err
	}
	if i.RepeatInterval.IsPresent {
		return i.RepeatInterval.Value.Validate()
	}
	return nil
}

type Result struct {
	Reminder reminder.Reminder
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	scheduler  reminder.Scheduler
	now        func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	scheduler reminder.Scheduler,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if scheduler == nil {
		panic(e.NewNilArgumentError("scheduler"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
		scheduler:  scheduler,
		now:        now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if err := input.Validate(); err != nil {
		return result, err
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	if _, err := uow.Users().GetByID(ctx, input.UserID); err != nil {
		if !errors.Is(err, user.ErrUserDoesNotExist) {
			logging.Error(ctx, s.log, err, logging.Entry("input", input))
		}
		return result, err
	}

	createdReminder, err := uow.Reminders().Create(ctx, reminder.CreateInput{
		Kind:           input.Kind,
		Message:        input.Message,
		ScheduledAt:    input.ScheduledAt,
		RepeatInterval: input.RepeatInterval,
		Active:         true,
		OwnerID:        input.UserID,
		TaskID:         input.TaskID,
		CreatedAt:      s.now(),
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input), logging.Entry("reminder", createdReminder))
		return result, err
	}

	s.log.Info(
		ctx,
		"Reminder successfully created.",
		logging.Entry("reminderID", createdReminder.ID),
		logging.Entry("userID", createdReminder.OwnerID),
		logging.Entry("scheduledAt", createdReminder.ScheduledAt),
	)

	// The reminder is stored, if arming fails the recovery sweep picks it up.
	if err := s.scheduler.Schedule(ctx, createdReminder.ID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", createdReminder.ID))
	}

	result.Reminder = createdReminder
	return result, nil
}
