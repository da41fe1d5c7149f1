package listuserreminders

import (
	"fmt"
	"net/http"
	c "nudgebot/internal/core/domain/common"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
	service "nudgebot/internal/core/services/list_user_reminders"
	"nudgebot/internal/http/handlers/request"
	"nudgebot/internal/http/handlers/response"
	"strconv"
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
	Reminders []response.Reminder `json:"reminders"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	userID, err := request.ParseID(r, "userID")
	if err != nil {
		response.RenderError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	raw_include_inactive := r.URL.Query().Get("include_inactive")
	include_inactive, err := parseIncludeInactive(raw_include_inactive)
	if err != nil {
		response.RenderError(rw, "invalid include_inactive query parameter", http.StatusBadRequest)
		return
	}

	raw_order_by := r.URL.Query().Get("order_by")
	order_by, err := parseOrderBy(raw_order_by)
	if err != nil {
		response.RenderError(rw, "invalid order_by query parameter", http.StatusBadRequest)
		return
	}

	raw_limit := r.URL.Query().Get("limit")
	limit, err := parseLimit(raw_limit)
	if err != nil {
		response.RenderError(rw, "invalid limit query parameter", http.StatusBadRequest)
		return
	}

	input := service.Input{
		UserID:          user.ID(userID),
		IncludeInactive: include_inactive,
		OrderBy:         order_by,
		Limit:           limit,
	}
	result, err := h.service.Run(r.Context(), input)
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(rw, Result{Reminders: response.FromDomainReminders(result.Reminders)}, http.StatusOK)
}

func parseIncludeInactive(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

func parseOrderBy(raw string) (orderBy reminder.OrderBy, err error) {
	if raw == "" {
		return orderBy, nil
	}
	orderBy, err = reminder.ParseOrderBy(raw)
	return orderBy, err
}

func parseLimit(raw string) (limit c.Optional[uint], err error) {
	if raw == "" {
		return limit, nil
	}
	l, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return limit, err
	}
	if l > service.DEFAULT_LIMIT {
		return limit, fmt.Errorf("limit must be less than or equal to %v", service.DEFAULT_LIMIT)
	}
	limit.IsPresent = true
	limit.Value = uint(l)
	return limit, nil
}
