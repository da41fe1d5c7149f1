package services

import (
	"nudgebot/internal/app/deps"
	"nudgebot/internal/core/services"
	cleanupexpiredreminders "nudgebot/internal/core/services/cleanup_expired_reminders"
	createreminder "nudgebot/internal/core/services/create_reminder"
	createtaskreminder "nudgebot/internal/core/services/create_task_reminder"
	listuserreminders "nudgebot/internal/core/services/list_user_reminders"
	pauseuserreminders "nudgebot/internal/core/services/pause_user_reminders"
	schedulereminders "nudgebot/internal/core/services/schedule_reminders"
	setwaterreminder "nudgebot/internal/core/services/set_water_reminder"
	togglereminder "nudgebot/internal/core/services/toggle_reminder"
	updatereminder "nudgebot/internal/core/services/update_reminder"
)

type Services struct {
	CreateReminder     services.Service[createreminder.Input, createreminder.Result]
	CreateTaskReminder services.Service[createtaskreminder.Input, createtaskreminder.Result]
	SetWaterReminder   services.Service[setwaterreminder.Input, setwaterreminder.Result]
	UpdateReminder     services.Service[updatereminder.Input, updatereminder.Result]
	ToggleReminder     services.Service[togglereminder.Input, togglereminder.Result]
	PauseUserReminders services.Service[pauseuserreminders.Input, pauseuserreminders.Result]
	ListUserReminders  services.Service[listuserreminders.Input, listuserreminders.Result]

	ScheduleReminders       services.Service[schedulereminders.Input, schedulereminders.Result]
	CleanupExpiredReminders services.Service[cleanupexpiredreminders.Input, cleanupexpiredreminders.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.CreateReminder = createreminder.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.ReminderScheduler,
		deps.Now,
	)
	s.CreateTaskReminder = createtaskreminder.New(deps.Logger, s.CreateReminder)
	s.SetWaterReminder = setwaterreminder.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.ReminderScheduler,
		deps.SecondaryChannel,
		deps.Now,
	)
	s.UpdateReminder = updatereminder.New(deps.Logger, deps.UnitOfWork, deps.ReminderScheduler)
	s.ToggleReminder = togglereminder.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.ReminderScheduler,
		deps.Now,
	)
	s.PauseUserReminders = pauseuserreminders.New(deps.Logger, deps.UnitOfWork, deps.ReminderScheduler)
	s.ListUserReminders = listuserreminders.New(deps.Logger, deps.ReminderRepository)

	s.ScheduleReminders = schedulereminders.New(
		deps.Logger,
		deps.ReminderRepository,
		deps.ReminderScheduler,
	)
	s.CleanupExpiredReminders = cleanupexpiredreminders.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.ReminderScheduler,
		deps.Now,
	)

	return s
}
