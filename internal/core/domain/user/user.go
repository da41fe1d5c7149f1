package user

import (
	c "nudgebot/internal/core/domain/common"
	"time"
)

type ID int64

type TelegramID int64

// User is the recipient of reminders. Accounts are managed elsewhere,
// reminders only read them to resolve where to deliver.
type User struct {
	ID         ID
	Username   string
	Email      c.Optional[c.Email]
	TelegramID c.Optional[TelegramID]
	CreatedAt  time.Time
}
