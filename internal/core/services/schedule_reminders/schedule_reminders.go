package schedulereminders

import (
	"context"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/services"
)

type Input struct{}

type Result struct {
	Count int
}

type service struct {
	log                logging.Logger
	reminderRepository reminder.ReminderRepository
	scheduler          reminder.Scheduler
}

// New creates the recovery sweep: every active reminder gets a timer armed
// again, overdue ones are fired right away by the scheduler.
func New(
	log logging.Logger,
	reminderRepository reminder.ReminderRepository,
	scheduler reminder.Scheduler,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if reminderRepository == nil {
		panic(e.NewNilArgumentError("reminderRepository"))
	}
	if scheduler == nil {
		panic(e.NewNilArgumentError("scheduler"))
	}
	return &service{
		log:                log,
		reminderRepository: reminderRepository,
		scheduler:          scheduler,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	reminders, err := s.reminderRepository.Read(ctx, reminder.ActiveOptions())
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, reminder.NewStoreError("read active reminders", err)
	}

	s.log.Info(ctx, "Got active reminders for scheduling.", logging.Entry("count", len(reminders)))
	scheduledIDs := make([]reminder.ID, 0, len(reminders))
	for ix, rem := range reminders {
		if err := s.scheduler.Schedule(ctx, rem.ID); err != nil {
			logging.Error(
				ctx,
				s.log,
				err,
				logging.Entry("index", ix),
				logging.Entry("reminderID", rem.ID),
			)
			continue
		}
		scheduledIDs = append(scheduledIDs, rem.ID)
	}

	result.Count = len(scheduledIDs)
	if result.Count > 0 {
		s.log.Info(
			ctx,
			"Reminders successfully scheduled.",
			logging.Entry("scheduledCount", result.Count),
			logging.Entry("scheduledIDs", scheduledIDs),
		)
	}
	return result, nil
}
