package workload

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studyload/models"
)

// TaskSource is the read side of the task store the engine depends on.
// Lists come back ordered by deadline ascending.
type TaskSource interface {
	ListIndividualTasks(ctx context.Context, userID uuid.UUID) ([]models.Task, error)
	ListGroupTasksForUser(ctx context.Context, userID uuid.UUID) ([]models.Task, error)
	ListGroupTasks(ctx context.Context, groupID int64) ([]models.Task, error)
}

type Engine struct {
	src TaskSource
	now func() time.Time
	loc *time.Location
}

// NewEngine builds an engine reading from src. now defaults to time.Now and
// loc, the zone that decides what "today" is, defaults to UTC.
func NewEngine(src TaskSource, now func() time.Time, loc *time.Location) *Engine {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{src: src, now: now, loc: loc}
}

// Today is the current calendar date in the engine's location.
func (e *Engine) Today() time.Time {
	return DateOf(e.now().In(e.loc))
}

// Tasks returns the user's individual tasks followed by the tasks of every
// group the user belongs to.
func (e *Engine) Tasks(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	individual, err := e.src.ListIndividualTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list individual tasks: %w", err)
	}
	group, err := e.src.ListGroupTasksForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list group tasks: %w", err)
	}

	all := make([]models.Task, 0, len(individual)+len(group))
	all = append(all, individual...)
	return append(all, group...), nil
}

func (e *Engine) BurnoutRisk(ctx context.Context, userID uuid.UUID) (models.RiskReport, error) {
	tasks, err := e.Tasks(ctx, userID)
	if err != nil {
		return models.RiskReport{}, err
	}
	return Assess(tasks, e.Today()), nil
}

func (e *Engine) DetectCollisions(ctx context.Context, userID uuid.UUID) (Collisions, error) {
	tasks, err := e.Tasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FindCollisions(tasks), nil
}

// Reminders lists tasks due within three days that were never reminded. It
// does not mark them; callers do that once the reminder was delivered.
func (e *Engine) Reminders(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	tasks, err := e.Tasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SelectReminders(tasks, e.Today()), nil
}

func (e *Engine) GroupAnalytics(ctx context.Context, groupID int64) (models.GroupAnalytics, error) {
	tasks, err := e.src.ListGroupTasks(ctx, groupID)
	if err != nil {
		return models.GroupAnalytics{}, fmt.Errorf("list tasks of group %d: %w", groupID, err)
	}
	return Analyze(tasks), nil
}

func (e *Engine) Timeline(ctx context.Context, userID uuid.UUID) ([]models.DayLoad, error) {
	tasks, err := e.Tasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Timeline(tasks), nil
}
