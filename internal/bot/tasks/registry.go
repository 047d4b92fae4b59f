package tasks

import "context"

// ScheduledTaskFunc is the signature of every scheduled task. It must honor
// cancellation of ctx.
type ScheduledTaskFunc func(ctx context.Context) error

// Task names as used under scheduler.tasks in the configuration.
const (
	TaskSQLMaintenance = "sql_maintenance"
	TaskMoodReminder   = "mood_reminder"
)

// RegisterAllTasks returns every scheduled task keyed by its config name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		TaskSQLMaintenance: newSQLMaintenanceTask(deps),
		TaskMoodReminder:   newMoodReminderTask(deps),
	}
	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
