package workload

import (
	"sort"

	"studyload/models"
)

func Analyze(tasks []models.Task) models.GroupAnalytics {
	var a models.GroupAnalytics
	a.Total = len(tasks)
	for _, t := range tasks {
		a.TotalHours += t.EstimatedHours
		switch t.Status {
		case models.StatusCompleted:
			a.Completed++
			a.CompletedHours += t.EstimatedHours
		case models.StatusInProgress:
			a.InProgress++
		case models.StatusPending:
			a.Pending++
		}
	}
	if a.Total > 0 {
		a.CompletionPct = float64(a.Completed) / float64(a.Total) * 100
	}
	return a
}

// Timeline sums estimated hours per deadline date, ascending by date.
func Timeline(tasks []models.Task) []models.DayLoad {
	index := make(map[string]int)
	var days []models.DayLoad
	for _, t := range tasks {
		key := t.DeadlineKey()
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, models.DayLoad{Date: key})
		}
		days[i].Hours += t.EstimatedHours
		days[i].Tasks++
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
