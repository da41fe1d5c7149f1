package updatereminder

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
	service "nudgebot/internal/core/services/update_reminder"
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
	Message                *string    `json:"message"`
	ScheduledAt            *time.Time `json:"scheduled_at"`
	DoRepeatIntervalUpdate bool       `json:"do_repeat_interval_update"`
	RepeatInterval         *uint32    `json:"repeat_interval"`
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
		validation.Field(&i.Message, validation.Length(0, reminder.MAX_MESSAGE_LEN)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	userID, err := request.ParseID(r, "userID")
	if err != nil {
		response.RenderError(rw, err.Error(), http.StatusBadRequest)
		return
	}
	reminderID, err := request.ParseID(r, "reminderID")
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

	serviceInput := service.Input{
		UserID:                 user.ID(userID),
		ReminderID:             reminder.ID(reminderID),
		DoRepeatIntervalUpdate: input.DoRepeatIntervalUpdate,
	}
	if input.Message != nil {
		serviceInput.DoMessageUpdate = true
		serviceInput.Message = *input.Message
	}
	if input.ScheduledAt != nil {
		serviceInput.DoScheduledAtUpdate = true
		serviceInput.ScheduledAt = input.ScheduledAt.UTC()
	}
	if input.DoRepeatIntervalUpdate && input.RepeatInterval != nil {
		serviceInput.RepeatInterval = c.NewOptional(reminder.RepeatInterval(*input.RepeatInterval), true)
	}

	result, err := h.service.Run(r.Context(), serviceInput)
	if err != nil {
		switch {
		case errors.Is(err, reminder.ErrReminderDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		case errors.Is(err, reminder.ErrReminderPermission):
			response.RenderError(rw, err.Error(), http.StatusForbidden)
		case response.IsInvalidReminderError(err):
			response.RenderError(rw, err.Error(), http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	rem := response.Reminder{}
	rem.FromDomainType(result.Reminder)
	response.Render(rw, Result{Reminder: rem}, http.StatusOK)
}
