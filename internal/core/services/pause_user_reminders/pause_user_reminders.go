package pauseuserreminders

import (
	"context"
	c "nudgebot/internal/core/domain/common"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	uow "nudgebot/internal/core/domain/unit_of_work"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
)

type Input struct {
	UserID user.ID
}

type Result struct {
	Count int
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
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}
	defer uow.Rollback(ctx)

	if _, err := uow.Users().GetByID(ctx, input.UserID); err != nil {
		return result, err
	}

	active, err := uow.Reminders().Read(ctx, reminder.ReadOptions{
		OwnerEquals:  c.NewOptional(input.UserID, true),
		ActiveEquals: c.NewOptional(true, true),
		OrderBy:      reminder.OrderByIDAsc,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	for _, rem := range active {
		if err := uow.Reminders().Lock(ctx, rem.ID); err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
			return result, err
		}
		_, err := uow.Reminders().Update(ctx, reminder.UpdateInput{
			ID:             rem.ID,
			DoActiveUpdate: true,
			Active:         false,
		})
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("reminderID", rem.ID))
			return result, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	for _, rem := range active {
		s.scheduler.Cancel(ctx, rem.ID)
	}

	s.log.Info(
		ctx,
		"User reminders paused.",
		logging.Entry("userID", input.UserID),
		logging.Entry("count", len(active)),
	)
	result.Count = len(active)
	return result, nil
}
