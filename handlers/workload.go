package handlers

import (
	"net/http"

	"studyload/models"
	"studyload/workload"
)

type burnoutResponse struct {
	models.RiskReport
	Recommendations []string `json:"recommendations"`
}

type collisionDay struct {
	Date  string        `json:"date"`
	Tasks []models.Task `json:"tasks"`
}

// BurnoutHandler reports the user's risk tier with matching advice.
func (a *App) BurnoutHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	report, err := a.Engine.BurnoutRisk(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, burnoutResponse{
		RiskReport:      report,
		Recommendations: workload.Recommendations(report.Tier),
	})
}

// CollisionsHandler lists dates with more than one deadline, earliest first.
func (a *App) CollisionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	collisions, err := a.Engine.DetectCollisions(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	days := make([]collisionDay, 0, len(collisions))
	for _, date := range collisions.Dates() {
		days = append(days, collisionDay{Date: date, Tasks: collisions[date]})
	}
	writeJSON(w, http.StatusOK, days)
}

// RemindersHandler lists tasks due within the reminder window. Nothing is
// marked; clients call the reminded endpoint once they have shown them.
func (a *App) RemindersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	due, err := a.Engine.Reminders(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(due))
}

func (a *App) TimelineHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	days, err := a.Engine.Timeline(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(days))
}
