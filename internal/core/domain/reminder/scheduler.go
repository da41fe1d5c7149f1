package reminder

import "context"

// Scheduler keeps at most one pending fire per active reminder.
type Scheduler interface {
	// Schedule arms a timer for the reminder, replacing any timer already
	// armed for the same ID. An overdue reminder is fired before return.
	// ErrOccurrenceInFlight means another fire holds the occurrence, a
	// retry is armed for when the hold expires.
	Schedule(ctx context.Context, id ID) error
	// Cancel drops the pending timer if any. It does not interrupt a fire
	// that has already started, the fire path re-checks the reminder.
	Cancel(ctx context.Context, id ID)
	// FireNow fires the reminder immediately and re-arms it if it recurs.
	FireNow(ctx context.Context, id ID) error
}
