package workload

import "studyload/models"

var recommendations = map[models.RiskTier][]string{
	models.RiskHigh: {
		"You have a high burnout risk. Consider postponing non-urgent tasks.",
		"Take regular breaks every 50 minutes.",
		"Delegate group tasks if possible.",
		"Ensure you get 7-8 hours of sleep.",
		"Reach out to professors for deadline extensions if needed.",
	},
	models.RiskMedium: {
		"You have a moderate workload. Stay organized.",
		"Prioritize tasks by deadline and difficulty.",
		"Break large tasks into smaller chunks.",
		"Include physical activity in your daily routine.",
	},
	models.RiskLow: {
		"Your workload is manageable.",
		"Keep up the good work!",
		"Stay consistent with your schedule.",
	},
}

// Recommendations returns the advice list for a tier. Unknown tiers get the
// Low list.
func Recommendations(tier models.RiskTier) []string {
	list, ok := recommendations[tier]
	if !ok {
		list = recommendations[models.RiskLow]
	}
	return append([]string(nil), list...)
}
