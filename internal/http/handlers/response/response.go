package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"nudgebot/internal/core/domain/reminder"
)

type errorResponse struct {
	Error string `json:"error"`
}

func RenderUnauthorized(rw http.ResponseWriter) {
	RenderError(rw, "invalid API key", http.StatusUnauthorized)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, errorResponse{Error: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}

// IsInvalidReminderError reports whether err is a reminder field validation
// failure returned by the services.
func IsInvalidReminderError(err error) bool {
	return (errors.Is(err, reminder.ErrInvalidKind) ||
		errors.Is(err, reminder.ErrInvalidMessage) ||
		errors.Is(err, reminder.ErrInvalidRepeatInterval) ||
		errors.Is(err, reminder.ErrScheduledAtNotSet) ||
		errors.Is(err, reminder.ErrScheduledAtIsNotUTC))
}
