package cleanupreminders

import (
	"net/http"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/services"
	service "nudgebot/internal/core/services/cleanup_expired_reminders"
	"nudgebot/internal/http/handlers/response"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(
	service services.Service[service.Input, service.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Result struct {
	CleanedCount int `json:"cleaned_count"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context(), service.Input{})
	if err != nil {
		response.RenderInternalError(rw)
		return
	}
	response.Render(rw, Result{CleanedCount: result.Count}, http.StatusOK)
}
