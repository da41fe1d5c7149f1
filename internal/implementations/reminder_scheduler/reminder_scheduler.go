package reminderscheduler

import (
	"context"
	"errors"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/services"
	sendreminder "nudgebot/internal/core/services/send_reminder"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Timer interface {
	Stop() bool
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock is backed by the runtime timers.
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type pendingTimer struct {
	timer      Timer
	generation uint64
	at         time.Time
}

// TimerScheduler keeps at most one armed timer per reminder in memory.
// The reminder record is the only persisted state, so the table is rebuilt
// by the recovery sweep after a restart.
type TimerScheduler struct {
	log                logging.Logger
	reminderRepository reminder.ReminderRepository
	sendService        services.Service[sendreminder.Input, sendreminder.Result]
	clock              Clock

	ctx    context.Context
	cancel context.CancelFunc

	lock       sync.Mutex
	pending    map[reminder.ID]*pendingTimer
	generation uint64
	closed     bool

	inflight sync.WaitGroup
	group    singleflight.Group
}

func New(
	log logging.Logger,
	reminderRepository reminder.ReminderRepository,
	sendService services.Service[sendreminder.Input, sendreminder.Result],
	clock Clock,
) *TimerScheduler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if reminderRepository == nil {
		panic(e.NewNilArgumentError("reminderRepository"))
	}
	if sendService == nil {
		panic(e.NewNilArgumentError("sendService"))
	}
	if clock == nil {
		panic(e.NewNilArgumentError("clock"))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TimerScheduler{
		log:                log,
		reminderRepository: reminderRepository,
		sendService:        sendService,
		clock:              clock,
		ctx:                ctx,
		cancel:             cancel,
		pending:            make(map[reminder.ID]*pendingTimer),
	}
}

// Schedule arms a timer for the reminder's next occurrence, replacing the
// one already armed for it. An overdue reminder is fired before Schedule
// returns. An inactive reminder only loses its pending timer.
func (s *TimerScheduler) Schedule(ctx context.Context, id reminder.ID) error {
	if s.isClosed() {
		return reminder.ErrSchedulerClosed
	}

	rem, err := s.reminderRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reminder.ErrReminderDoesNotExist) {
			s.Cancel(ctx, id)
			return err
		}
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", id))
		return reminder.NewStoreError("get reminder", err)
	}

	if !rem.Active {
		s.Cancel(ctx, id)
		s.log.Debug(ctx, "Reminder is not active, nothing to schedule.", logging.Entry("reminderID", id))
		return nil
	}

	if !rem.ScheduledAt.After(s.clock.Now()) {
		s.Cancel(ctx, id)
		s.log.Info(
			ctx,
			"Reminder is overdue, firing now.",
			logging.Entry("reminderID", id),
			logging.Entry("scheduledAt", rem.ScheduledAt),
		)
		return s.fire(ctx, id, false)
	}
	return s.arm(ctx, id, rem.ScheduledAt)
}

// arm replaces the pending timer of the reminder with one expiring at at.
func (s *TimerScheduler) arm(ctx context.Context, id reminder.ID, at time.Time) error {
	delay := at.Sub(s.clock.Now())

	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return reminder.ErrSchedulerClosed
	}
	if p, ok := s.pending[id]; ok {
		p.timer.Stop()
	}
	s.generation++
	generation := s.generation
	s.pending[id] = &pendingTimer{
		timer:      s.clock.AfterFunc(delay, func() { s.onTimer(id, generation) }),
		generation: generation,
		at:         at,
	}

	s.log.Info(
		ctx,
		"Reminder has been scheduled.",
		logging.Entry("reminderID", id),
		logging.Entry("scheduledAt", at),
		logging.Entry("delay", delay.String()),
	)
	return nil
}

// Cancel stops the pending timer if there is one. A fire that has already
// started is not interrupted.
func (s *TimerScheduler) Cancel(ctx context.Context, id reminder.ID) {
	s.lock.Lock()
	defer s.lock.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return
	}
	p.timer.Stop()
	delete(s.pending, id)
	s.log.Debug(ctx, "Pending reminder timer has been stopped.", logging.Entry("reminderID", id))
}

// FireNow delivers the reminder immediately regardless of its schedule.
func (s *TimerScheduler) FireNow(ctx context.Context, id reminder.ID) error {
	if s.isClosed() {
		return reminder.ErrSchedulerClosed
	}
	if _, err := s.reminderRepository.GetByID(ctx, id); err != nil {
		if errors.Is(err, reminder.ErrReminderDoesNotExist) {
			return err
		}
		return reminder.NewStoreError("get reminder", err)
	}
	s.Cancel(ctx, id)
	return s.fire(ctx, id, true)
}

// Pending returns IDs of reminders with an armed timer.
func (s *TimerScheduler) Pending() []reminder.ID {
	s.lock.Lock()
	defer s.lock.Unlock()
	ids := make([]reminder.ID, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Close stops every pending timer and waits for fires in progress.
func (s *TimerScheduler) Close(ctx context.Context) error {
	s.lock.Lock()
	s.closed = true
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
	s.lock.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		s.log.Info(ctx, "Reminder scheduler has been closed.")
		return nil
	case <-ctx.Done():
		s.cancel()
		s.log.Warning(ctx, "Reminder scheduler closed before in-flight reminders finished.")
		return ctx.Err()
	}
}

func (s *TimerScheduler) isClosed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.closed
}

func (s *TimerScheduler) onTimer(id reminder.ID, generation uint64) {
	s.lock.Lock()
	p, ok := s.pending[id]
	if !ok || p.generation != generation || s.closed {
		s.lock.Unlock()
		return
	}
	delete(s.pending, id)
	s.inflight.Add(1)
	s.lock.Unlock()
	defer s.inflight.Done()

	s.log.Debug(s.ctx, "Reminder timer has expired.", logging.Entry("reminderID", id), logging.Entry("armedAt", p.at))
	err := s.fire(s.ctx, id, false)
	if errors.Is(err, reminder.ErrSchedulerClosed) {
		s.log.Info(s.ctx, "Scheduler is closed, reminder is not re-armed.", logging.Entry("reminderID", id))
		return
	}
	if errors.Is(err, reminder.ErrOccurrenceInFlight) {
		s.log.Info(s.ctx, "Reminder occurrence is held by another fire, retry is armed.", logging.Entry("reminderID", id))
		return
	}
	if err != nil {
		logging.Error(s.ctx, s.log, err, logging.Entry("reminderID", id))
	}
}

// fire runs the delivery at most once at a time per reminder and re-arms
// recurring reminders afterwards. Unless force is set, a reminder whose
// stored time is still ahead is re-armed instead of delivered.
func (s *TimerScheduler) fire(ctx context.Context, id reminder.ID, force bool) error {
	key := strconv.FormatInt(int64(id), 10)
	value, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.sendService.Run(ctx, sendreminder.Input{ReminderID: id, Force: force})
	})
	if err != nil {
		return err
	}
	if shared {
		s.log.Debug(ctx, "Concurrent fire of reminder has been collapsed.", logging.Entry("reminderID", id))
	}

	result := value.(sendreminder.Result)
	if result.RetryAfter > 0 {
		if err := s.arm(ctx, id, s.clock.Now().Add(result.RetryAfter)); err != nil {
			return err
		}
		return reminder.ErrOccurrenceInFlight
	}
	if !result.Rearm {
		return nil
	}
	return s.Schedule(ctx, id)
}
