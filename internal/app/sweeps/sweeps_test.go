package sweeps

import (
	"context"
	"errors"
	"nudgebot/internal/core/domain/logging"
	cleanup "nudgebot/internal/core/services/cleanup_expired_reminders"
	recovery "nudgebot/internal/core/services/schedule_reminders"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubRecovery struct {
	calls *[]string
	err   error
}

func (s stubRecovery) Run(ctx context.Context, input recovery.Input) (recovery.Result, error) {
	*s.calls = append(*s.calls, "recovery")
	return recovery.Result{Count: 2}, s.err
}

type stubCleanup struct {
	calls *[]string
	err   error
}

func (s stubCleanup) Run(ctx context.Context, input cleanup.Input) (cleanup.Result, error) {
	*s.calls = append(*s.calls, "cleanup")
	return cleanup.Result{Count: 5}, s.err
}

func TestRunOrder(t *testing.T) {
	// Setup ---
	assert := require.New(t)
	calls := []string{}
	sweeper := New(logging.NewFakeLogger(), stubRecovery{calls: &calls}, stubCleanup{calls: &calls})

	// Exercise ---
	scheduled, cleaned, err := sweeper.Run(context.Background())

	// Verify ---
	assert.Nil(err)
	assert.Equal(2, scheduled)
	assert.Equal(5, cleaned)
	assert.Equal([]string{"recovery", "cleanup"}, calls)
}

func TestRunRecoveryError(t *testing.T) {
	// Setup ---
	assert := require.New(t)
	calls := []string{}
	recoveryErr := errors.New("db is down")
	sweeper := New(logging.NewFakeLogger(), stubRecovery{calls: &calls, err: recoveryErr}, stubCleanup{calls: &calls})

	// Exercise ---
	_, _, err := sweeper.Run(context.Background())

	// Verify ---
	assert.ErrorIs(err, recoveryErr)
	assert.Equal([]string{"recovery"}, calls)
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	calls := []string{}
	sweeper := New(logging.NewFakeLogger(), stubRecovery{calls: &calls}, stubCleanup{calls: &calls})

	_, err := sweeper.Start("not a schedule")

	require.NotNil(t, err)
}

func TestStartAndStop(t *testing.T) {
	calls := []string{}
	sweeper := New(logging.NewFakeLogger(), stubRecovery{calls: &calls}, stubCleanup{calls: &calls})

	stop, err := sweeper.Start("@every 1h")

	require.Nil(t, err)
	stop()
}
