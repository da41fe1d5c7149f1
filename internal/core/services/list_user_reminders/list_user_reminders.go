package listuserreminders

import (
	"context"
	c "nudgebot/internal/core/domain/common"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
)

const DEFAULT_LIMIT = 100

type Input struct {
	UserID user.ID
	// Paused reminders are listed only when set.
	IncludeInactive bool
	OrderBy         reminder.OrderBy
	Limit           c.Optional[uint]
}

type Result struct {
	Reminders []reminder.Reminder
}

type service struct {
	log                logging.Logger
	reminderRepository reminder.ReminderRepository
}

func New(
	log logging.Logger,
	reminderRepository reminder.ReminderRepository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if reminderRepository == nil {
		panic(e.NewNilArgumentError("reminderRepository"))
	}
	return &service{
		log:                log,
		reminderRepository: reminderRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	orderBy := input.OrderBy
	if orderBy == reminder.OrderByNotSet {
		orderBy = reminder.OrderByScheduledAtAsc
	}
	readOptions := reminder.ReadOptions{
		OwnerEquals: c.NewOptional(input.UserID, true),
		OrderBy:     orderBy,
		Limit:       c.NewOptional(input.Limit.ValueOr(DEFAULT_LIMIT), true),
	}
	if !input.IncludeInactive {
		readOptions.ActiveEquals = c.NewOptional(true, true)
	}

	reminders, err := s.reminderRepository.Read(ctx, readOptions)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	s.log.Info(
		ctx,
		"User reminders successfully read.",
		logging.Entry("userID", input.UserID),
		logging.Entry("count", len(reminders)),
	)
	result.Reminders = reminders
	return result, nil
}
