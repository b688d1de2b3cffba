package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"studyload/groups"
	"studyload/models"
	"studyload/tasks"
	"studyload/workload"
)

type Users interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type Sessions interface {
	Save(ctx context.Context, s models.Session) error
	Authorize(ctx context.Context, token, csrf string) (uuid.UUID, error)
	Delete(ctx context.Context, token string) error
}

// App holds the collaborators every handler needs.
type App struct {
	Users      Users
	Sessions   Sessions
	Tasks      *tasks.Service
	Groups     *groups.Service
	Engine     *workload.Engine
	SessionTTL time.Duration
	Now        func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Routes registers every endpoint on a new mux.
func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /register", a.RegisterUserHandler)
	mux.HandleFunc("POST /login", a.LoginHandler)
	mux.HandleFunc("POST /logout", a.LogOutHandler)

	mux.HandleFunc("GET /tasks", a.RequireUser(a.TasksHandler))
	mux.HandleFunc("POST /tasks", a.RequireUser(a.AddTaskHandler))
	mux.HandleFunc("PATCH /tasks/{kind}/{id}", a.RequireUser(a.UpdateTaskHandler))
	mux.HandleFunc("DELETE /tasks/{kind}/{id}", a.RequireUser(a.DeleteTaskHandler))
	mux.HandleFunc("PATCH /tasks/{kind}/{id}/status", a.RequireUser(a.MoveTaskHandler))
	mux.HandleFunc("POST /tasks/{kind}/{id}/reminded", a.RequireUser(a.RemindedHandler))

	mux.HandleFunc("GET /burnout", a.RequireUser(a.BurnoutHandler))
	mux.HandleFunc("GET /collisions", a.RequireUser(a.CollisionsHandler))
	mux.HandleFunc("GET /reminders", a.RequireUser(a.RemindersHandler))
	mux.HandleFunc("GET /timeline", a.RequireUser(a.TimelineHandler))

	mux.HandleFunc("GET /groups", a.RequireUser(a.GroupsHandler))
	mux.HandleFunc("POST /groups", a.RequireUser(a.CreateGroupHandler))
	mux.HandleFunc("POST /groups/join", a.RequireUser(a.JoinGroupHandler))
	mux.HandleFunc("GET /groups/{id}/members", a.RequireUser(a.MembersHandler))
	mux.HandleFunc("GET /groups/{id}/tasks", a.RequireUser(a.GroupTasksHandler))
	mux.HandleFunc("POST /groups/{id}/tasks", a.RequireUser(a.AddGroupTaskHandler))
	mux.HandleFunc("GET /groups/{id}/analytics", a.RequireUser(a.GroupAnalyticsHandler))

	return mux
}
