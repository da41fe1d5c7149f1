package sendreminder

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
	ReminderID reminder.ID
	// Force delivers a reminder that is not due yet.
	Force bool
}

type Result struct {
	Reminder reminder.Reminder
	// Skipped is set when nothing was attempted: the reminder is gone,
	// paused, or this occurrence has already been fired.
	Skipped bool
	// Rearm is set when the reminder recurs and must be scheduled again,
	// or when its stored time has moved past the moment of the fire.
	Rearm bool
	// RetryAfter is set when another fire holds this occurrence. The
	// occurrence is free to be fired again after it elapses.
	RetryAfter   time.Duration
	PrimaryErr   error
	SecondaryErr error
}

type service struct {
	log                logging.Logger
	unitOfWork         uow.UnitOfWork
	reminderRepository reminder.ReminderRepository
	userRepository     user.UserRepository
	primary            reminder.PrimaryChannel
	secondary          reminder.SecondaryChannel
	guard              reminder.OccurrenceGuard
	now                func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	reminderRepository reminder.ReminderRepository,
	userRepository user.UserRepository,
	primary reminder.PrimaryChannel,
	secondary reminder.SecondaryChannel,
	guard reminder.OccurrenceGuard,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if reminderRepository == nil {
		panic(e.NewNilArgumentError("reminderRepository"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if primary == nil {
		panic(e.NewNilArgumentError("primary"))
	}
	if secondary == nil {
		panic(e.NewNilArgumentError("secondary"))
	}
	if guard == nil {
		panic(e.NewNilArgumentError("guard"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                log,
		unitOfWork:         unitOfWork,
		reminderRepository: reminderRepository,
		userRepository:     userRepository,
		primary:            primary,
		secondary:          secondary,
		guard:              guard,
		now:                now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	rem, err := s.reminderRepository.GetByID(ctx, input.ReminderID)
	if err != nil {
		if errors.Is(err, reminder.ErrReminderDoesNotExist) {
			s.log.Info(ctx, "Reminder does not exist, skip sending.", logging.Entry("input", input))
			result.Skipped = true
			return result, nil
		}
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, reminder.NewStoreError("get reminder", err)
	}
	result.Reminder = rem

	if !rem.Active {
		s.log.Info(ctx, "Reminder is not active, skip sending.", logging.Entry("reminderID", rem.ID))
		result.Skipped = true
		return result, nil
	}

	if !input.Force && rem.ScheduledAt.After(s.now()) {
		s.log.Info(
			ctx,
			"Reminder is not due yet, skip sending.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("scheduledAt", rem.ScheduledAt),
		)
		result.Skipped = true
		result.Rearm = true
		return result, nil
	}

	acquired, err := s.guard.Acquire(ctx, rem.ID, rem.ScheduledAt)
	if err != nil {
		s.log.Warning(
			ctx,
			"Occurrence guard is not available, sending without it.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("err", err),
		)
	} else if !acquired {
		s.log.Info(
			ctx,
			"Reminder occurrence has already been fired, skip sending.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("scheduledAt", rem.ScheduledAt),
		)
		result.Skipped = true
		result.RetryAfter = s.guard.TTL()
		return result, nil
	}

	if err := s.deliver(ctx, rem, &result); err != nil {
		s.releaseOccurrence(ctx, rem)
		return result, err
	}

	updated, err := s.markDelivered(ctx, rem.ID)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
		s.releaseOccurrence(ctx, rem)
		return result, err
	}

	result.Reminder = updated
	result.Rearm = updated.NeedsRearm()
	s.log.Info(
		ctx,
		"Reminder has been processed.",
		logging.Entry("reminderID", updated.ID),
		logging.Entry("active", updated.Active),
		logging.Entry("scheduledAt", updated.ScheduledAt),
		logging.Entry("primaryErr", result.PrimaryErr),
		logging.Entry("secondaryErr", result.SecondaryErr),
	)
	return result, nil
}

// deliver attempts both channels. Channel failures are recorded in result,
// only a failure to read the recipient is returned.
func (s *service) deliver(ctx context.Context, rem reminder.Reminder, result *Result) error {
	u, err := s.userRepository.GetByID(ctx, rem.OwnerID)
	if err != nil && !errors.Is(err, user.ErrUserDoesNotExist) {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID), logging.Entry("ownerID", rem.OwnerID))
		return reminder.NewStoreError("get recipient", err)
	}

	var address reminder.Address
	resolved := err == nil
	if resolved {
		address, resolved = s.primary.ResolveAddress(u)
	}
	if !resolved {
		s.log.Warning(
			ctx,
			"Could not resolve reminder recipient, skip delivery.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("ownerID", rem.OwnerID),
			logging.Entry("channel", s.primary.Name()),
		)
		result.PrimaryErr = reminder.ErrRecipientUnresolved
		return nil
	}

	if err := s.primary.Send(ctx, address, rem.Message); err != nil {
		result.PrimaryErr = reminder.NewChannelError(s.primary.Name(), err)
		logging.Error(ctx, s.log, result.PrimaryErr, logging.Entry("reminderID", rem.ID))
	} else {
		s.log.Info(
			ctx,
			"Reminder has been sent to primary channel.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("channel", s.primary.Name()),
		)
	}

	err = s.secondary.Notify(ctx, reminder.EventSendNotification, reminder.NotificationPayload(rem, u, address))
	if err != nil {
		result.SecondaryErr = reminder.NewChannelError("secondary", err)
		logging.Error(ctx, s.log, result.SecondaryErr, logging.Entry("reminderID", rem.ID))
	}
	return nil
}

func (s *service) markDelivered(ctx context.Context, id reminder.ID) (rem reminder.Reminder, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		return rem, reminder.NewStoreError("begin", err)
	}
	defer uow.Rollback(ctx)

	if err := uow.Reminders().Lock(ctx, id); err != nil {
		return rem, reminder.NewStoreError("lock", err)
	}
	fresh, err := uow.Reminders().GetByID(ctx, id)
	if err != nil {
		return rem, reminder.NewStoreError("get locked reminder", err)
	}

	rem, err = uow.Reminders().Update(ctx, reminder.SaveInput(fresh.AfterDelivery(s.now())))
	if err != nil {
		return rem, reminder.NewStoreError("update", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return rem, reminder.NewStoreError("commit", err)
	}
	return rem, nil
}

func (s *service) releaseOccurrence(ctx context.Context, rem reminder.Reminder) {
	if err := s.guard.Release(ctx, rem.ID, rem.ScheduledAt); err != nil {
		s.log.Warning(
			ctx,
			"Could not release reminder occurrence.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("err", err),
		)
	}
}
