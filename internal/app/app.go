package app

import (
	"fmt"
	"net/http"
	"nudgebot/internal/app/deps"
	"nudgebot/internal/app/services"
	cleanupreminders "nudgebot/internal/http/handlers/admin/cleanup_reminders"
	schedulereminders "nudgebot/internal/http/handlers/admin/schedule_reminders"
	schedulerstatus "nudgebot/internal/http/handlers/admin/scheduler_status"
	sendreminder "nudgebot/internal/http/handlers/admin/send_reminder"
	"nudgebot/internal/http/handlers/auth"
	"nudgebot/internal/http/handlers/events"
	createreminder "nudgebot/internal/http/handlers/reminders/create_reminder"
	createtaskreminder "nudgebot/internal/http/handlers/reminders/create_task_reminder"
	listuserreminders "nudgebot/internal/http/handlers/reminders/list_user_reminders"
	pauseuserreminders "nudgebot/internal/http/handlers/reminders/pause_user_reminders"
	setwaterreminder "nudgebot/internal/http/handlers/reminders/set_water_reminder"
	togglereminder "nudgebot/internal/http/handlers/reminders/toggle_reminder"
	updatereminder "nudgebot/internal/http/handlers/reminders/update_reminder"
	"nudgebot/internal/implementations/notifier"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	requireAPIKey := auth.RequireAPIKey(deps.Config.ApiKeyHash)

	apiRouter := chi.NewRouter()
	apiRouter.Use(requireAPIKey)
	apiRouter.Method(
		http.MethodPost,
		"/schedule_reminders",
		schedulereminders.New(s.ScheduleReminders, s.CleanupExpiredReminders),
	)
	apiRouter.Method(http.MethodPost, "/cleanup_reminders", cleanupreminders.New(s.CleanupExpiredReminders))
	apiRouter.Method(
		http.MethodPost,
		"/send_reminder/{reminderID:[0-9]+}",
		sendreminder.New(deps.ReminderScheduler),
	)
	apiRouter.Method(http.MethodGet, "/scheduler", schedulerstatus.New(deps.ReminderScheduler))

	reminderRouter := chi.NewRouter()
	reminderRouter.Use(requireAPIKey)
	reminderRouter.Method(http.MethodGet, "/", listuserreminders.New(s.ListUserReminders))
	reminderRouter.Method(http.MethodPost, "/", createreminder.New(s.CreateReminder))
	reminderRouter.Method(http.MethodPost, "/task", createtaskreminder.New(s.CreateTaskReminder))
	reminderRouter.Method(http.MethodPut, "/water", setwaterreminder.New(s.SetWaterReminder))
	reminderRouter.Method(http.MethodPost, "/pause", pauseuserreminders.New(s.PauseUserReminders))
	reminderRouter.Method(http.MethodPatch, "/{reminderID:[0-9]+}", updatereminder.New(s.UpdateReminder))
	reminderRouter.Method(http.MethodPost, "/{reminderID:[0-9]+}/toggle", togglereminder.New(s.ToggleReminder))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/api", apiRouter)
	router.Mount("/users/{userID:[0-9]+}/reminders", reminderRouter)
	if deps.SseServer != nil {
		router.With(requireAPIKey).Method(
			http.MethodGet,
			"/events",
			events.New(deps.Logger, deps.SseServer, notifier.EVENTS_STREAM),
		)
	}

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler: router,
		Addr:    address,
	}
}
