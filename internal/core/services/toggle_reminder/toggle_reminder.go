package togglereminder

import (
	"context"
	"errors"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	uow "nudgebot/internal/core/domain/unit_of_work"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
	"time"
)

type Input struct {
	UserID     user.ID
	ReminderID reminder.ID
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

// New creates the service pausing an active reminder or activating a
// paused one. An activated reminder is due one interval from now.
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
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	reminderRepository := uow.Reminders()
	rem, err := lockAndGet(ctx, reminderRepository, input.ReminderID)
	if err != nil {
		if errors.Is(err, reminder.ErrReminderDoesNotExist) {
			s.log.Info(ctx, "Reminder not found.", logging.Entry("input", input))
		} else {
			logging.Error(ctx, s.log, err, logging.Entry("input", input))
		}
		return result, err
	}
	if !rem.IsOwnedBy(input.UserID) {
		s.log.Info(ctx, "Reminder belongs to another user.", logging.Entry("input", input))
		return result, reminder.ErrReminderPermission
	}

	update := reminder.UpdateInput{
		ID:             rem.ID,
		DoActiveUpdate: true,
		Active:         !rem.Active,
	}
	if update.Active {
		delay := reminder.DEFAULT_REACTIVATION_DELAY
		if rem.RepeatInterval.IsPresent {
			delay = rem.RepeatInterval.Value.Duration()
		}
		update.DoScheduledAtUpdate = true
		update.ScheduledAt = s.now().Add(delay)
	}

	result.Reminder, err = reminderRepository.Update(ctx, update)
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
		"Reminder toggled.",
		logging.Entry("reminderID", result.Reminder.ID),
		logging.Entry("active", result.Reminder.Active),
		logging.Entry("scheduledAt", result.Reminder.ScheduledAt),
	)

	if !result.Reminder.Active {
		s.scheduler.Cancel(ctx, result.Reminder.ID)
		return result, nil
	}
	if err := s.scheduler.Schedule(ctx, result.Reminder.ID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", result.Reminder.ID))
	}
	return result, nil
}

func lockAndGet(ctx context.Context, repository reminder.ReminderRepository, id reminder.ID) (reminder.Reminder, error) {
	if err := repository.Lock(ctx, id); err != nil {
		return reminder.Reminder{}, err
	}
	return repository.GetByID(ctx, id)
}
