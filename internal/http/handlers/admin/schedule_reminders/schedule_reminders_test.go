package schedulereminders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
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
	return recovery.Result{Count: 3}, s.err
}

type stubCleanup struct {
	calls *[]string
}

func (s stubCleanup) Run(ctx context.Context, input cleanup.Input) (cleanup.Result, error) {
	*s.calls = append(*s.calls, "cleanup")
	return cleanup.Result{Count: 1}, nil
}

func TestRecoveryRunsBeforeCleanup(t *testing.T) {
	// Setup ---
	assert := require.New(t)
	calls := []string{}
	handler := New(stubRecovery{calls: &calls}, stubCleanup{calls: &calls})
	rr := httptest.NewRecorder()

	// Exercise ---
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/schedule_reminders", nil))

	// Verify ---
	assert.Equal(http.StatusOK, rr.Code)
	assert.JSONEq(`{"success":true,"scheduled_count":3,"cleaned_count":1}`, rr.Body.String())
	assert.Equal([]string{"recovery", "cleanup"}, calls)
}

func TestRecoveryErrorSkipsCleanup(t *testing.T) {
	// Setup ---
	assert := require.New(t)
	calls := []string{}
	handler := New(stubRecovery{calls: &calls, err: errors.New("db is down")}, stubCleanup{calls: &calls})
	rr := httptest.NewRecorder()

	// Exercise ---
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/schedule_reminders", nil))

	// Verify ---
	assert.Equal(http.StatusInternalServerError, rr.Code)
	assert.Equal([]string{"recovery"}, calls)
}
