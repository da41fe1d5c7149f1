package sweeps

import (
	"context"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/services"
	cleanup "nudgebot/internal/core/services/cleanup_expired_reminders"
	recovery "nudgebot/internal/core/services/schedule_reminders"

	"github.com/robfig/cron/v3"
)

type Sweeper struct {
	log      logging.Logger
	recovery services.Service[recovery.Input, recovery.Result]
	cleanup  services.Service[cleanup.Input, cleanup.Result]
}

func New(
	log logging.Logger,
	recovery services.Service[recovery.Input, recovery.Result],
	cleanup services.Service[cleanup.Input, cleanup.Result],
) *Sweeper {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if recovery == nil {
		panic(e.NewNilArgumentError("recovery"))
	}
	if cleanup == nil {
		panic(e.NewNilArgumentError("cleanup"))
	}
	return &Sweeper{log: log, recovery: recovery, cleanup: cleanup}
}

// Run re-arms every active reminder and then deactivates the overdue
// one-shot ones. Recovery goes first so that an overdue one-shot reminder
// is delivered before cleanup could drop it.
func (s *Sweeper) Run(ctx context.Context) (scheduled int, cleaned int, err error) {
	recoveryResult, err := s.recovery.Run(ctx, recovery.Input{})
	if err != nil {
		return 0, 0, err
	}
	cleanupResult, err := s.cleanup.Run(ctx, cleanup.Input{})
	if err != nil {
		return recoveryResult.Count, 0, err
	}
	s.log.Info(
		ctx,
		"Reminder sweep finished.",
		logging.Entry("scheduled", recoveryResult.Count),
		logging.Entry("cleaned", cleanupResult.Count),
	)
	return recoveryResult.Count, cleanupResult.Count, nil
}

// Start runs the sweep periodically on the given cron schedule. The
// returned function stops it and waits for a running sweep.
func (s *Sweeper) Start(schedule string) (func(), error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx := context.Background()
		if _, _, err := s.Run(ctx); err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("schedule", schedule))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	s.log.Info(context.Background(), "Reminder sweeps have been scheduled.", logging.Entry("schedule", schedule))
	return func() { <-c.Stop().Done() }, nil
}
