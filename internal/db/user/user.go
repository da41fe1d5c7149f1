package dbuser

import (
	"context"
	"errors"
	c "nudgebot/internal/core/domain/common"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/db"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxUserRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: dbtx}
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	var (
		userID     int64
		email      pgtype.Text
		telegramID pgtype.Int8
		createdAt  time.Time
	)
	err = r.db.QueryRow(
		ctx,
		`SELECT id, username, email, telegram_id, created_at FROM "user" WHERE id = $1`,
		int64(id),
	).Scan(&userID, &u.Username, &email, &telegramID, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}

	u.ID = user.ID(userID)
	u.Email = c.NewOptional(c.NewEmail(email.String), email.Status == pgtype.Present)
	u.TelegramID = c.NewOptional(user.TelegramID(telegramID.Int), telegramID.Status == pgtype.Present)
	u.CreatedAt = createdAt.UTC()
	return u, nil
}
