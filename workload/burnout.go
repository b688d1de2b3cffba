package workload

import (
	"time"

	"studyload/models"
)

const MaxScore = 7

// Score adds up three independent workload signals. Each signal only
// contributes its highest threshold reached.
func Score(totalTasks, tasksDueWeek, hoursDueWeek int) int {
	score := 0

	switch {
	case totalTasks >= 10:
		score += 2
	case totalTasks >= 5:
		score += 1
	}

	switch {
	case tasksDueWeek >= 5:
		score += 2
	case tasksDueWeek >= 3:
		score += 1
	}

	switch {
	case hoursDueWeek >= 20:
		score += 3
	case hoursDueWeek >= 10:
		score += 2
	case hoursDueWeek >= 5:
		score += 1
	}

	return score
}

func TierFor(score int) models.RiskTier {
	switch {
	case score >= 5:
		return models.RiskHigh
	case score >= 3:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// Assess scores a merged task list as of today. Completed tasks still count
// toward the total and the weekly load.
func Assess(tasks []models.Task, today time.Time) models.RiskReport {
	today = DateOf(today)

	report := models.RiskReport{TotalTasks: len(tasks)}
	for _, t := range tasks {
		if !dueWithin(t.Deadline, today, RiskWindowDays) {
			continue
		}
		report.TasksDueWeek++
		report.HoursDueWeek += t.EstimatedHours
	}

	report.Score = Score(report.TotalTasks, report.TasksDueWeek, report.HoursDueWeek)
	report.Tier = TierFor(report.Score)
	return report
}
