package createtaskreminder

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/reminder"
	"nudgebot/internal/core/domain/user"
	"nudgebot/internal/core/services"
	service "nudgebot/internal/core/services/create_task_reminder"
	"nudgebot/internal/http/handlers/request"
	"nudgebot/internal/http/handlers/response"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
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
	TaskID int64     `json:"task_id"`
	Title  string    `json:"title"`
	DueAt  time.Time `json:"due_at"`
}

type Result struct {
	Reminder response.Reminder `json:"reminder"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.TaskID, validation.Required, validation.Min(int64(1))),
		validation.Field(&i.Title, validation.Required, validation.Length(1, 256)),
		validation.Field(&i.DueAt, validation.Required),
	)
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
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{
			UserID: user.ID(userID),
			TaskID: reminder.TaskID(input.TaskID),
			Title:  input.Title,
			DueAt:  input.DueAt.UTC(),
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		case errors.Is(err, service.ErrInvalidTaskTitle), response.IsInvalidReminderError(err):
			response.RenderError(rw, err.Error(), http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	rem := response.Reminder{}
	rem.FromDomainType(result.Reminder)
	response.Render(rw, Result{Reminder: rem}, http.StatusCreated)
}
