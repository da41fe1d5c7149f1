package reminder

import (
	"context"
	"time"
)

// OccurrenceGuard makes a fire of one logical occurrence, identified by the
// reminder ID and its scheduled time, happen at most once. A taken
// occurrence is released after TTL even if its fire never completed.
type OccurrenceGuard interface {
	Acquire(ctx context.Context, id ID, scheduledAt time.Time) (bool, error)
	Release(ctx context.Context, id ID, scheduledAt time.Time) error
	TTL() time.Duration
}
