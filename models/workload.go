package models

type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// RiskReport is the burnout risk of one user as of the day it was computed.
type RiskReport struct {
	Tier         RiskTier `json:"tier"`
	Score        int      `json:"score"`
	TotalTasks   int      `json:"total_tasks"`
	TasksDueWeek int      `json:"tasks_due_week"`
	HoursDueWeek int      `json:"hours_due_week"`
}

type GroupAnalytics struct {
	Total          int     `json:"total_tasks"`
	Completed      int     `json:"completed_tasks"`
	InProgress     int     `json:"in_progress_tasks"`
	Pending        int     `json:"pending_tasks"`
	TotalHours     int     `json:"total_hours"`
	CompletedHours int     `json:"completed_hours"`
	CompletionPct  float64 `json:"completion_percentage"`
}

// DayLoad is the summed estimate of every task due on one date.
type DayLoad struct {
	Date  string `json:"date"`
	Hours int    `json:"hours"`
	Tasks int    `json:"tasks"`
}

type PageData struct {
	Pending    []Task `json:"pending"`
	InProgress []Task `json:"in_progress"`
	Complete   []Task `json:"completed"`
	CSRFtoken  string `json:"csrf_token,omitempty"`
	IsLoggedIn bool   `json:"is_logged_in"`
}
