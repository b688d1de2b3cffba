package workload

import (
	"time"

	"studyload/models"
)

// SelectReminders keeps the tasks due within the reminder window that have not
// been reminded yet.
func SelectReminders(tasks []models.Task, today time.Time) []models.Task {
	today = DateOf(today)

	var due []models.Task
	for _, t := range tasks {
		if t.ReminderSent {
			continue
		}
		if dueWithin(t.Deadline, today, ReminderWindowDays) {
			due = append(due, t)
		}
	}
	return due
}
