package setwaterreminder

import (
	"context"
	c "nudgebot/internal/core/domain/common"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	uow "nudgebot/internal/core/domain/unit_of_work"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
	"time"
)

const (
	DEFAULT_INTERVAL = reminder.RepeatInterval(60)
	MESSAGE          = "Time to drink water! 💧 Stay hydrated!"
)

type Input struct {
	UserID user.ID
	// DEFAULT_INTERVAL is used when not set.
	Interval c.Optional[reminder.RepeatInterval]
	// Stop pauses the existing water reminder instead of setting it up.
	Stop bool
}

type Result struct {
	Reminder reminder.Reminder
	Created  bool
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	scheduler  reminder.Scheduler
	secondary  reminder.SecondaryChannel
	now        func() time.Time
}

// New creates the service keeping a single water reminder per user.
func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	scheduler reminder.Scheduler,
	secondary reminder.SecondaryChannel,
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
	if secondary == nil {
		panic(e.NewNilArgumentError("secondary"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
		scheduler:  scheduler,
		secondary:  secondary,
		now:        now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	interval := input.Interval.ValueOr(DEFAULT_INTERVAL)
	if err := interval.Validate(); err != nil {
		return result, err
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	owner, err := uow.Users().GetByID(ctx, input.UserID)
	if err != nil {
		return result, err
	}

	existing, err := uow.Reminders().Read(ctx, reminder.ReadOptions{
		OwnerEquals: c.NewOptional(input.UserID, true),
		KindEquals:  c.NewOptional(reminder.KindWater, true),
		OrderBy:     reminder.OrderByIDAsc,
		Limit:       c.NewOptional(uint(1), true),
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	if input.Stop {
		return s.stop(ctx, uow, existing)
	}

	now := s.now()
	if len(existing) == 0 {
		result.Reminder, err = uow.Reminders().Create(ctx, reminder.CreateInput{
			Kind:           reminder.KindWater,
			Message:        MESSAGE,
			ScheduledAt:    now.Add(interval.Duration()),
			RepeatInterval: c.NewOptional(interval, true),
			Active:         true,
			OwnerID:        input.UserID,
			CreatedAt:      now,
		})
		result.Created = true
	} else {
		if err := uow.Reminders().Lock(ctx, existing[0].ID); err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("reminderID", existing[0].ID))
			return result, err
		}
		result.Reminder, err = uow.Reminders().Update(ctx, reminder.UpdateInput{
			ID:                     existing[0].ID,
			DoRepeatIntervalUpdate: true,
			RepeatInterval:         c.NewOptional(interval, true),
			DoActiveUpdate:         true,
			Active:                 true,
			DoScheduledAtUpdate:    true,
			ScheduledAt:            now.Add(interval.Duration()),
		})
	}
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
		"Water reminder has been set.",
		logging.Entry("reminderID", result.Reminder.ID),
		logging.Entry("interval", interval),
		logging.Entry("created", result.Created),
	)

	if err := s.scheduler.Schedule(ctx, result.Reminder.ID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", result.Reminder.ID))
	}
	err = s.secondary.Notify(ctx, reminder.EventRegisterReminder, reminder.RegistrationPayload(result.Reminder, owner))
	if err != nil {
		s.log.Warning(
			ctx,
			"Could not register water reminder on secondary channel.",
			logging.Entry("reminderID", result.Reminder.ID),
			logging.Entry("err", err),
		)
	}
	return result, nil
}

func (s *service) stop(ctx context.Context, work uow.Context, existing []reminder.Reminder) (result Result, err error) {
	if len(existing) == 0 {
		return result, reminder.ErrReminderDoesNotExist
	}
	if err := work.Reminders().Lock(ctx, existing[0].ID); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", existing[0].ID))
		return result, err
	}
	result.Reminder, err = work.Reminders().Update(ctx, reminder.UpdateInput{
		ID:             existing[0].ID,
		DoActiveUpdate: true,
		Active:         false,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", existing[0].ID))
		return result, err
	}
	if err := work.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", existing[0].ID))
		return result, err
	}
	s.scheduler.Cancel(ctx, result.Reminder.ID)
	s.log.Info(ctx, "Water reminder has been stopped.", logging.Entry("reminderID", result.Reminder.ID))
	return result, nil
}
