package schedulereminders

import (
	"net/http"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/services"
	cleanup "nudgebot/internal/core/services/cleanup_expired_reminders"
	recovery "nudgebot/internal/core/services/schedule_reminders"
	"nudgebot/internal/http/handlers/response"
)

type Handler struct {
	recovery services.Service[recovery.Input, recovery.Result]
	cleanup  services.Service[cleanup.Input, cleanup.Result]
}

// New creates the handler running the recovery sweep followed by the
// cleanup sweep, the same order as on startup.
func New(
	recovery services.Service[recovery.Input, recovery.Result],
	cleanup services.Service[cleanup.Input, cleanup.Result],
) *Handler {
	if recovery == nil {
		panic(e.NewNilArgumentError("recovery"))
	}
	if cleanup == nil {
		panic(e.NewNilArgumentError("cleanup"))
	}
	return &Handler{recovery: recovery, cleanup: cleanup}
}

type Result struct {
	Success        bool `json:"success"`
	ScheduledCount int  `json:"scheduled_count"`
	CleanedCount   int  `json:"cleaned_count"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	scheduled, err := h.recovery.Run(r.Context(), recovery.Input{})
	if err != nil {
		response.RenderInternalError(rw)
		return
	}
	cleaned, err := h.cleanup.Run(r.Context(), cleanup.Input{})
	if err != nil {
		response.RenderInternalError(rw)
		return
	}
	response.Render(
		rw,
		Result{Success: true, ScheduledCount: scheduled.Count, CleanedCount: cleaned.Count},
		http.StatusOK,
	)
}
