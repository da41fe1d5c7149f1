package createreminder

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
	service "nudgebot/internal/core/services/create_reminder"
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
	Kind           string    `json:"kind"`
	Message        string    `json:"message"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	RepeatInterval *uint32   `json:"repeat_interval"`
	TaskID         *int64    `json:"task_id"`
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
		validation.Field(&i.Kind, validation.Required, validation.Length(1, reminder.MAX_KIND_LEN)),
		validation.Field(&i.Message, validation.Required, validation.Length(1, reminder.MAX_MESSAGE_LEN)),
		validation.Field(&i.ScheduledAt, validation.Required),
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

	var repeatInterval c.Optional[reminder.RepeatInterval]
	if input.RepeatInterval != nil {
		repeatInterval = c.NewOptional(reminder.RepeatInterval(*input.RepeatInterval), true)
	}
	var taskID c.Optional[reminder.TaskID]
	if input.TaskID != nil {
		taskID = c.NewOptional(reminder.TaskID(*input.TaskID), true)
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{
			UserID:         user.ID(userID),
			Kind:           reminder.Kind(input.Kind),
			Message:        input.Message,
			ScheduledAt:    input.ScheduledAt.UTC(),
			RepeatInterval: repeatInterval,
			TaskID:         taskID,
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		case response.IsInvalidReminderError(err):
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
