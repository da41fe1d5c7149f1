package dbreminder

import (
	"context"
	"errors"
	"fmt"
	c "nudgebot/internal/core/domain/common"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/db"
	"strings"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const columns = `id, user_id, kind, message, scheduled_at, repeat_interval, active, last_sent_at, task_id, created_at`

type PgxReminderRepository struct {
	db db.DBTX
}

func NewPgxReminderRepository(dbtx db.DBTX) *PgxReminderRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxReminderRepository{db: dbtx}
}

func (r *PgxReminderRepository) Create(
	ctx context.Context,
	input reminder.CreateInput,
) (rem reminder.Reminder, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO reminder (user_id, kind, message, scheduled_at, repeat_interval, active, task_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+columns,
		int64(input.OwnerID),
		string(input.Kind),
		input.Message,
		db.EncodeTimestamp(input.ScheduledAt, true),
		db.EncodeInt4(uint32(input.RepeatInterval.Value), input.RepeatInterval.IsPresent),
		input.Active,
		db.EncodeInt8(int64(input.TaskID.Value), input.TaskID.IsPresent),
		db.EncodeTimestamp(input.CreatedAt, true),
	)
	return scanReminder(row)
}

func (r *PgxReminderRepository) Lock(ctx context.Context, id reminder.ID) error {
	// The method works only within a DB transaction
	var locked int64
	err := r.db.QueryRow(ctx, `SELECT id FROM reminder WHERE id = $1 FOR UPDATE`, int64(id)).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return reminder.ErrReminderDoesNotExist
	}
	return err
}

func (r *PgxReminderRepository) GetByID(ctx context.Context, id reminder.ID) (rem reminder.Reminder, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+columns+` FROM reminder WHERE id = $1`, int64(id))
	return scanReminder(row)
}

func (r *PgxReminderRepository) Read(
	ctx context.Context,
	options reminder.ReadOptions,
) (reminders []reminder.Reminder, err error) {
	query, args := buildReadQuery(options)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return reminders, err
	}
	defer rows.Close()

	reminders = make([]reminder.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return reminders, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (r *PgxReminderRepository) Update(
	ctx context.Context,
	input reminder.UpdateInput,
) (rem reminder.Reminder, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE reminder SET
			message = CASE WHEN $2::boolean THEN $3::text ELSE message END,
			scheduled_at = CASE WHEN $4::boolean THEN $5::timestamp ELSE scheduled_at END,
			repeat_interval = CASE WHEN $6::boolean THEN $7::integer ELSE repeat_interval END,
			active = CASE WHEN $8::boolean THEN $9::boolean ELSE active END,
			last_sent_at = CASE WHEN $10::boolean THEN $11::timestamp ELSE last_sent_at END
		WHERE id = $1
		RETURNING `+columns,
		int64(input.ID),
		input.DoMessageUpdate,
		input.Message,
		input.DoScheduledAtUpdate,
		db.EncodeTimestamp(input.ScheduledAt, true),
		input.DoRepeatIntervalUpdate,
		db.EncodeInt4(uint32(input.RepeatInterval.Value), input.RepeatInterval.IsPresent),
		input.DoActiveUpdate,
		input.Active,
		input.DoLastSentAtUpdate,
		db.EncodeTimestamp(input.LastSentAt.Value, input.LastSentAt.IsPresent),
	)
	return scanReminder(row)
}

func buildReadQuery(options reminder.ReadOptions) (string, []interface{}) {
	conditions := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	add := func(condition string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if options.OwnerEquals.IsPresent {
		add("user_id = $%d", int64(options.OwnerEquals.Value))
	}
	if options.KindEquals.IsPresent {
		add("kind = $%d", string(options.KindEquals.Value))
	}
	if options.ActiveEquals.IsPresent {
		add("active = $%d", options.ActiveEquals.Value)
	}
	if options.IsRecurring.IsPresent {
		add("(repeat_interval IS NOT NULL) = $%d", options.IsRecurring.Value)
	}
	if options.ScheduledBefore.IsPresent {
		add("scheduled_at < $%d", db.EncodeTimestamp(options.ScheduledBefore.Value, true))
	}

	var query strings.Builder
	query.WriteString(`SELECT ` + columns + ` FROM reminder`)
	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY " + orderBy(options.OrderBy))
	if options.Limit.IsPresent {
		args = append(args, int64(options.Limit.Value))
		query.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	return query.String(), args
}

func orderBy(o reminder.OrderBy) string {
	switch o {
	case reminder.OrderByIDDesc:
		return "id DESC"
	case reminder.OrderByScheduledAtAsc:
		return "scheduled_at ASC, id ASC"
	case reminder.OrderByScheduledAtDesc:
		return "scheduled_at DESC, id DESC"
	default:
		return "id ASC"
	}
}

func scanReminder(row pgx.Row) (rem reminder.Reminder, err error) {
	var (
		id             int64
		userID         int64
		kind           string
		scheduledAt    time.Time
		repeatInterval pgtype.Int4
		lastSentAt     pgtype.Timestamp
		taskID         pgtype.Int8
		createdAt      time.Time
	)
	err = row.Scan(
		&id,
		&userID,
		&kind,
		&rem.Message,
		&scheduledAt,
		&repeatInterval,
		&rem.Active,
		&lastSentAt,
		&taskID,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rem, reminder.ErrReminderDoesNotExist
		}
		return rem, err
	}

	rem.ID = reminder.ID(id)
	rem.OwnerID = user.ID(userID)
	rem.Kind = reminder.Kind(kind)
	rem.ScheduledAt = scheduledAt.UTC()
	rem.RepeatInterval = c.NewOptional(
		reminder.RepeatInterval(repeatInterval.Int),
		repeatInterval.Status == pgtype.Present,
	)
	rem.LastSentAt = c.NewOptional(lastSentAt.Time.UTC(), lastSentAt.Status == pgtype.Present)
	rem.TaskID = c.NewOptional(reminder.TaskID(taskID.Int), taskID.Status == pgtype.Present)
	rem.CreatedAt = createdAt.UTC()
	return rem, nil
}
