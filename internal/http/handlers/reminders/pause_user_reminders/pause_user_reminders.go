package pauseuserreminders

import (
	"errors"
	"net/http"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
	service "nudgebot/internal/core/services/pause_user_reminders"
	"nudgebot/internal/http/handlers/request"
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
	PausedCount int `json:"paused_count"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	userID, err := request.ParseID(r, "userID")
	if err != nil {
		response.RenderError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{UserID: user.ID(userID)})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.Render(rw, Result{PausedCount: result.Count}, http.StatusOK)
}
