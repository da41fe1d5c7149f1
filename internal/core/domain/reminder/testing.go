package reminder

import (
	"context"
	"fmt"
	"nudgebot/internal/core/domain/user"
	"sort"
	"sync"
	"time"
)

type FakeRepository struct {
	CreateError  error
	GetByIDError error
	ReadError    error
	UpdateError  error
	LockError    error
	Updated      []UpdateInput
	ReadWith     []ReadOptions
	reminders    map[ID]Reminder
	lastID       ID
	lock         sync.Mutex
}

func NewFakeRepository(reminders ...Reminder) *FakeRepository {
	repo := &FakeRepository{reminders: make(map[ID]Reminder, len(reminders))}
	for _, r := range reminders {
		repo.Put(r)
	}
	return repo
}

// Put stores r as is, bypassing Create.
func (r *FakeRepository) Put(rem Reminder) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.reminders[rem.ID] = rem
	if rem.ID > r.lastID {
		r.lastID = rem.ID
	}
}

// Get returns the stored reminder, panics if it does not exist.
func (r *FakeRepository) Get(id ID) Reminder {
	r.lock.Lock()
	defer r.lock.Unlock()
	rem, ok := r.reminders[id]
	if !ok {
		panic(fmt.Sprintf("reminder %d does not exist", id))
	}
	return rem
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (Reminder, error) {
	if r.CreateError != nil {
		return Reminder{}, r.CreateError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.lastID++
	rem := Reminder{
		ID:             r.lastID,
		Kind:           input.Kind,
		Message:        input.Message,
		ScheduledAt:    input.ScheduledAt,
		RepeatInterval: input.RepeatInterval,
		Active:         input.Active,
		OwnerID:        input.OwnerID,
		TaskID:         input.TaskID,
		CreatedAt:      input.CreatedAt,
	}
	r.reminders[rem.ID] = rem
	return rem, nil
}

func (r *FakeRepository) Lock(ctx context.Context, id ID) error {
	return r.LockError
}

func (r *FakeRepository) GetByID(ctx context.Context, id ID) (Reminder, error) {
	if r.GetByIDError != nil {
		return Reminder{}, r.GetByIDError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	rem, ok := r.reminders[id]
	if !ok {
		return rem, ErrReminderDoesNotExist
	}
	return rem, nil
}

func (r *FakeRepository) Read(ctx context.Context, options ReadOptions) ([]Reminder, error) {
	if r.ReadError != nil {
		return nil, r.ReadError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.ReadWith = append(r.ReadWith, options)

	reminders := make([]Reminder, 0, len(r.reminders))
	for _, rem := range r.reminders {
		if options.OwnerEquals.IsPresent && rem.OwnerID != options.OwnerEquals.Value {
			continue
		}
		if options.KindEquals.IsPresent && rem.Kind != options.KindEquals.Value {
			continue
		}
		if options.ActiveEquals.IsPresent && rem.Active != options.ActiveEquals.Value {
			continue
		}
		if options.IsRecurring.IsPresent && rem.IsRecurring() != options.IsRecurring.Value {
			continue
		}
		if options.ScheduledBefore.IsPresent && !rem.ScheduledAt.Before(options.ScheduledBefore.Value) {
			continue
		}
		reminders = append(reminders, rem)
	}
	sort.Slice(reminders, func(i, j int) bool { return reminders[i].ID < reminders[j].ID })
	if options.Limit.IsPresent && uint(len(reminders)) > options.Limit.Value {
		reminders = reminders[:options.Limit.Value]
	}
	return reminders, nil
}

func (r *FakeRepository) Update(ctx context.Context, input UpdateInput) (Reminder, error) {
	if r.UpdateError != nil {
		return Reminder{}, r.UpdateError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	rem, ok := r.reminders[input.ID]
	if !ok {
		return rem, ErrReminderDoesNotExist
	}
	rem = input.Apply(rem)
	r.reminders[rem.ID] = rem
	r.Updated = append(r.Updated, input)
	return rem, nil
}

type TestReminderScheduler struct {
	Error     error
	Scheduled []ID
	Canceled  []ID
	Fired     []ID
	lock      sync.Mutex
}

func NewTestReminderScheduler() *TestReminderScheduler {
	return &TestReminderScheduler{}
}

func (s *TestReminderScheduler) Schedule(ctx context.Context, id ID) error {
	if s.Error != nil {
		return s.Error
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Scheduled = append(s.Scheduled, id)
	return nil
}

func (s *TestReminderScheduler) Cancel(ctx context.Context, id ID) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Canceled = append(s.Canceled, id)
}

func (s *TestReminderScheduler) FireNow(ctx context.Context, id ID) error {
	if s.Error != nil {
		return s.Error
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Fired = append(s.Fired, id)
	return nil
}

type SentMessage struct {
	To   Address
	Text string
}

type FakePrimaryChannel struct {
	SendError error
	sent      []SentMessage
	lock      sync.Mutex
}

func NewFakePrimaryChannel() *FakePrimaryChannel {
	return &FakePrimaryChannel{}
}

func (c *FakePrimaryChannel) Name() string {
	return "fake"
}

func (c *FakePrimaryChannel) ResolveAddress(u user.User) (Address, bool) {
	if !u.TelegramID.IsPresent {
		return Address(""), false
	}
	return Address(fmt.Sprintf("%d", u.TelegramID.Value)), true
}

func (c *FakePrimaryChannel) Send(ctx context.Context, to Address, text string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.sent = append(c.sent, SentMessage{To: to, Text: text})
	return c.SendError
}

// Sent returns every attempted send, failed ones included.
func (c *FakePrimaryChannel) Sent() []SentMessage {
	c.lock.Lock()
	defer c.lock.Unlock()
	sent := make([]SentMessage, len(c.sent))
	copy(sent, c.sent)
	return sent
}

type Notification struct {
	EventType EventType
	Payload   Payload
}

type FakeSecondaryChannel struct {
	NotifyError error
	notified    []Notification
	lock        sync.Mutex
}

func NewFakeSecondaryChannel() *FakeSecondaryChannel {
	return &FakeSecondaryChannel{}
}

func (c *FakeSecondaryChannel) Notify(ctx context.Context, eventType EventType, payload Payload) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.notified = append(c.notified, Notification{EventType: eventType, Payload: payload})
	return c.NotifyError
}

// Notified returns every attempted notification, failed ones included.
func (c *FakeSecondaryChannel) Notified() []Notification {
	c.lock.Lock()
	defer c.lock.Unlock()
	notified := make([]Notification, len(c.notified))
	copy(notified, c.notified)
	return notified
}

type occurrence struct {
	id ID
	at int64
}

type FakeOccurrenceGuard struct {
	AcquireError error
	Expiry       time.Duration
	taken        map[occurrence]struct{}
	Released     int
	lock         sync.Mutex
}

func NewFakeOccurrenceGuard() *FakeOccurrenceGuard {
	return &FakeOccurrenceGuard{Expiry: 10 * time.Minute, taken: make(map[occurrence]struct{})}
}

func (g *FakeOccurrenceGuard) TTL() time.Duration {
	return g.Expiry
}

func (g *FakeOccurrenceGuard) Acquire(ctx context.Context, id ID, scheduledAt time.Time) (bool, error) {
	if g.AcquireError != nil {
		return false, g.AcquireError
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	key := occurrence{id: id, at: scheduledAt.UnixNano()}
	if _, ok := g.taken[key]; ok {
		return false, nil
	}
	g.taken[key] = struct{}{}
	return true, nil
}

func (g *FakeOccurrenceGuard) Release(ctx context.Context, id ID, scheduledAt time.Time) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	delete(g.taken, occurrence{id: id, at: scheduledAt.UnixNano()})
	g.Released++
	return nil
}
