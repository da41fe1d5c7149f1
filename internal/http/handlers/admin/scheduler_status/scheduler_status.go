package schedulerstatus

import (
	"net/http"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/http/handlers/response"
)

type PendingLister interface {
	Pending() []reminder.ID
}

type Handler struct {
	scheduler PendingLister
}

func New(scheduler PendingLister) *Handler {
	if scheduler == nil {
		panic(e.NewNilArgumentError("scheduler"))
	}
	return &Handler{scheduler: scheduler}
}

type Result struct {
	Pending []int64 `json:"pending"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	ids := h.scheduler.Pending()
	result := Result{Pending: make([]int64, 0, len(ids))}
	for _, id := range ids {
		result.Pending = append(result.Pending, int64(id))
	}
	response.Render(rw, result, http.StatusOK)
}
