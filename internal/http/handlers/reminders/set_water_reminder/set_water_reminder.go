package setwaterreminder

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	c "nudgebot/internal/core/domain/common"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
	service "nudgebot/internal/core/services/set_water_reminder"
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

type Input struct {
	IntervalMinutes *uint32 `json:"interval_minutes"`
	Stop            bool    `json:"stop"`
}

type Result struct {
	Reminder response.Reminder `json:"reminder"`
	Created  bool              `json:"created"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	err := e.Decode(i)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	userID, err := request.ParseID(r, "userID")
	if err != nil {
		response.RenderError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}

	var interval c.Optional[reminder.RepeatInterval]
	if input.IntervalMinutes != nil {
		interval = c.NewOptional(reminder.RepeatInterval(*input.IntervalMinutes), true)
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{UserID: user.ID(userID), Interval: interval, Stop: input.Stop},
	)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserDoesNotExist), errors.Is(err, reminder.ErrReminderDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		case errors.Is(err, reminder.ErrInvalidRepeatInterval):
			response.RenderError(rw, err.Error(), http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	rem := response.Reminder{}
	rem.FromDomainType(result.Reminder)
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response.Render(rw, Result{Reminder: rem, Created: result.Created}, status)
}
