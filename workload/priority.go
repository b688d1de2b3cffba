package workload

import "studyload/models"

const (
	MinHours = 1
	MaxHours = 100
)

// Classify derives a task priority from its estimated effort.
func Classify(hours int) models.Priority {
	switch {
	case hours <= 2:
		return models.PriorityLow
	case hours <= 4:
		return models.PriorityMedium
	default:
		return models.PriorityHigh
	}
}
