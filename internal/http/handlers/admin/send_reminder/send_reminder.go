package sendreminder

import (
	"errors"
	"net/http"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/http/handlers/request"
	"nudgebot/internal/http/handlers/response"
)

type Handler struct {
	scheduler reminder.Scheduler
}

func New(scheduler reminder.Scheduler) *Handler {
	if scheduler == nil {
		panic(e.NewNilArgumentError("scheduler"))
	}
	return &Handler{scheduler: scheduler}
}

type Result struct {
	Success bool `json:"success"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	reminderID, err := request.ParseID(r, "reminderID")
	if err != nil {
		response.RenderError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.scheduler.FireNow(r.Context(), reminder.ID(reminderID)); err != nil {
		switch {
		case errors.Is(err, reminder.ErrReminderDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		case errors.Is(err, reminder.ErrSchedulerClosed):
			response.RenderError(rw, err.Error(), http.StatusServiceUnavailable)
		case errors.Is(err, reminder.ErrOccurrenceInFlight):
			response.RenderError(rw, err.Error(), http.StatusConflict)
		default:
			response.RenderInternalError(rw)
		}
		return
	}
	response.Render(rw, Result{Success: true}, http.StatusOK)
}
