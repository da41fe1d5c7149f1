package updatereminder

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
	UserID                 user.ID
	ReminderID             reminder.ID
	DoMessageUpdate        bool
	Message                string
	DoScheduledAtUpdate    bool
	ScheduledAt            time.Time
	DoRepeatIntervalUpdate bool
	// An absent interval turns the reminder into a one-shot one.
	RepeatInterval c.Optional[reminder.RepeatInterval]
}

func (i Input) Validate() error {
	if i.DoMessageUpdate {
		if err := reminder.ValidateMessage(i.Message); err != nil {
			return err
		}
	}
	if i.DoScheduledAtUpdate {
		if err := reminder.ValidateScheduledAt(i.ScheduledAt); err != nil {
			return err
		}
	}
	if i.DoRepeatIntervalUpdate && i.RepeatInterval.IsPresent {
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
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	scheduler reminder.Scheduler,
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
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
		scheduler:  scheduler,
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

	reminderRepository := uow.Reminders()
	if err := reminderRepository.Lock(ctx, input.ReminderID); err != nil {
		return result, s.handleLookupError(ctx, input, err)
	}
	rem, err := reminderRepository.GetByID(ctx, input.ReminderID)
	if err != nil {
		return result, s.handleLookupError(ctx, input, err)
	}
	if !rem.IsOwnedBy(input.UserID) {
		s.log.Info(ctx, "Reminder belongs to another user.", logging.Entry("input", input))
		return result, reminder.ErrReminderPermission
	}

	updatedReminder, err := reminderRepository.Update(ctx, reminder.UpdateInput{
		ID:                     input.ReminderID,
		DoMessageUpdate:        input.DoMessageUpdate,
		Message:                input.Message,
		DoScheduledAtUpdate:    input.DoScheduledAtUpdate,
		ScheduledAt:            input.ScheduledAt,
		DoRepeatIntervalUpdate: input.DoRepeatIntervalUpdate,
		RepeatInterval:         input.RepeatInterval,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	s.log.Info(
		ctx,
		"Reminder successfully updated.",
		logging.Entry("input", input),
		logging.Entry("reminder", updatedReminder),
	)

	// Replaces the timer armed for the previous scheduled time.
	if err := s.scheduler.Schedule(ctx, updatedReminder.ID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", updatedReminder.ID))
	}

	result.Reminder = updatedReminder
	return result, nil
}

func (s *service) handleLookupError(ctx context.Context, input Input, err error) error {
	if errors.Is(err, reminder.ErrReminderDoesNotExist) {
		s.log.Info(ctx, "Reminder not found.", logging.Entry("input", input))
	} else {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
	}
	return err
}
