package uow

import (
	"context"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"
)

type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Users() user.UserRepository
	Reminders() reminder.ReminderRepository
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
