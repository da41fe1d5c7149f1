package occurrenceguard

import (
	"context"
	"nudgebot/internal/core/domain/reminder"
	"sync"
	"time"
)

type entry struct {
	id          reminder.ID
	scheduledAt int64
}

// Memory is a process local guard used when Redis is not configured.
// Taken occurrences expire after ttl.
type Memory struct {
	ttl   time.Duration
	now   func() time.Time
	taken map[entry]time.Time
	lock  sync.Mutex
}

func NewMemory(ttl time.Duration, now func() time.Time) *Memory {
	if ttl <= 0 {
		panic("ttl must be positive")
	}
	if now == nil {
		panic("now must not be nil")
	}
	return &Memory{ttl: ttl, now: now, taken: make(map[entry]time.Time)}
}

func (m *Memory) Acquire(ctx context.Context, id reminder.ID, scheduledAt time.Time) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	now := m.now()
	m.evict(now)

	k := entry{id: id, scheduledAt: scheduledAt.Unix()}
	if _, ok := m.taken[k]; ok {
		return false, nil
	}
	m.taken[k] = now.Add(m.ttl)
	return true, nil
}

func (m *Memory) Release(ctx context.Context, id reminder.ID, scheduledAt time.Time) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.taken, entry{id: id, scheduledAt: scheduledAt.Unix()})
	return nil
}

func (m *Memory) TTL() time.Duration {
	return m.ttl
}

func (m *Memory) evict(now time.Time) {
	for k, expiresAt := range m.taken {
		if !now.Before(expiresAt) {
			delete(m.taken, k)
		}
	}
}
