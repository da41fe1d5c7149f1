package uow

import (
	"context"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"
	"sync"
)

type FakeUnitOfWorkContext struct {
	UserRepository     *user.FakeUserRepository
	ReminderRepository *reminder.FakeRepository
	CommitError        error
	wasRollbackCalled  bool
	wasCommitCalled    bool
	lock               sync.Mutex
}

func NewFakeUnitOfWorkContext(
	userRepository *user.FakeUserRepository,
	reminderRepository *reminder.FakeRepository,
) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{
		UserRepository:     userRepository,
		ReminderRepository: reminderRepository,
	}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.wasRollbackCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.CommitError != nil {
		return c.CommitError
	}
	c.wasCommitCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) WasCommitCalled() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.wasCommitCalled
}

func (c *FakeUnitOfWorkContext) WasRollbackCalled() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.wasRollbackCalled
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

func (c *FakeUnitOfWorkContext) Reminders() reminder.ReminderRepository {
	return c.ReminderRepository
}

// FakeUnitOfWork shares one set of fake repositories between every unit of
// work, changes are visible immediately and are not undone by Rollback.
type FakeUnitOfWork struct {
	Context    *FakeUnitOfWorkContext
	BeginError error
}

func NewFakeUnitOfWork(
	userRepository *user.FakeUserRepository,
	reminderRepository *reminder.FakeRepository,
) *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Context: NewFakeUnitOfWorkContext(userRepository, reminderRepository),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.BeginError != nil {
		return nil, u.BeginError
	}
	return u.Context, nil
}
