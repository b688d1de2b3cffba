package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"studyload/models"
	"studyload/tasks"
	"studyload/utils"
)

type taskRequest struct {
	Title          string     `json:"title"`
	Deadline       string     `json:"deadline"`
	EstimatedHours int        `json:"estimated_hours"`
	AssignedTo     *uuid.UUID `json:"assigned_to,omitempty"`
}

func (req taskRequest) input() (tasks.Input, error) {
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return tasks.Input{}, err
	}
	return tasks.Input{
		Title:          req.Title,
		Deadline:       deadline,
		EstimatedHours: req.EstimatedHours,
		AssignedTo:     req.AssignedTo,
	}, nil
}

type statusRequest struct {
	Status models.Status `json:"status"`
}

// TasksHandler returns every task the user can see, split by status.
func (a *App) TasksHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	all, err := a.Engine.Tasks(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pending, inProgress, completed := tasks.SortByStatus(all)
	data := models.PageData{
		Pending:    nonNil(pending),
		InProgress: nonNil(inProgress),
		Complete:   nonNil(completed),
		IsLoggedIn: true,
	}
	if c, err := r.Cookie(utils.CSRFCookie); err == nil {
		data.CSRFtoken = c.Value
	}
	writeJSON(w, http.StatusOK, data)
}

// AddTaskHandler creates an individual task.
func (a *App) AddTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := a.Tasks.AddIndividual(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (a *App) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ref, err := taskRef(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := a.Tasks.Update(r.Context(), userID, ref, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *App) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ref, err := taskRef(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.Tasks.Delete(r.Context(), userID, ref); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveTaskHandler changes a task's status.
func (a *App) MoveTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ref, err := taskRef(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.Tasks.SetStatus(r.Context(), userID, ref, req.Status); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemindedHandler records that the user was reminded about a task.
func (a *App) RemindedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ref, err := taskRef(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.Tasks.MarkReminderSent(r.Context(), userID, ref); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
