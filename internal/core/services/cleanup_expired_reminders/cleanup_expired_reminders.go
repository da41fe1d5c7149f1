package cleanupexpiredreminders

import (
	"context"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	uow "nudgebot/internal/core/domain/unit_of_work"
	"nudgebot/internal/core/services"
	"time"
)

type Input struct{}

type Result struct {
	Count int
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	scheduler  reminder.Scheduler
	now        func() time.Time
}

// New creates the cleanup sweep. It deactivates active one-shot reminders
// that are already past due without delivering them.
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
		return result, reminder.NewStoreError("begin", err)
	}
	defer uow.Rollback(ctx)

	now := s.now()
	expired, err := uow.Reminders().Read(ctx, reminder.OverdueOneShotOptions(now))
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("now", now))
		return result, reminder.NewStoreError("read expired reminders", err)
	}

	cleanedIDs := make([]reminder.ID, 0, len(expired))
	for _, rem := range expired {
		_, err := uow.Reminders().Update(ctx, reminder.UpdateInput{
			ID:             rem.ID,
			DoActiveUpdate: true,
			Active:         false,
		})
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
			return result, reminder.NewStoreError("deactivate expired reminder", err)
		}
		cleanedIDs = append(cleanedIDs, rem.ID)
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err)
		return result, reminder.NewStoreError("commit", err)
	}

	for _, id := range cleanedIDs {
		s.scheduler.Cancel(ctx, id)
	}

	result.Count = len(cleanedIDs)
	if result.Count > 0 {
		s.log.Info(
			ctx,
			"Expired reminders deactivated.",
			logging.Entry("cleanedCount", result.Count),
			logging.Entry("cleanedIDs", cleanedIDs),
		)
	}
	return result, nil
}
