// Package tasks applies create, update and status changes to individual and
// group tasks, keeping each task's priority in line with its estimated hours.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studyload/apperrors"
	"studyload/models"
	"studyload/utils"
	"studyload/workload"
)

type Repository interface {
	CreateTask(ctx context.Context, t models.Task) (int64, error)
	GetTask(ctx context.Context, ref models.TaskRef) (models.Task, error)
	UpdateTask(ctx context.Context, t models.Task) error
	DeleteTask(ctx context.Context, ref models.TaskRef) error
	SetTaskStatus(ctx context.Context, ref models.TaskRef, status models.Status) error
	SetReminderSent(ctx context.Context, ref models.TaskRef) error
	FindMembership(ctx context.Context, groupID int64, userID uuid.UUID) (models.Membership, error)
}

// Input carries the user-editable fields of a task.
type Input struct {
	Title          string
	Deadline       time.Time
	EstimatedHours int
	// Group tasks only. nil leaves the task unassigned.
	AssignedTo *uuid.UUID
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(in Input) error {
	if err := utils.ValidateTaskInput(in.Title); err != nil {
		return apperrors.Validation(err.Error())
	}
	if err := utils.ValidateHours(in.EstimatedHours); err != nil {
		return apperrors.Validation(err.Error())
	}
	if in.Deadline.IsZero() {
		return apperrors.Validation("deadline is required")
	}
	return nil
}

// AddIndividual creates a Pending task owned by userID.
func (s *Service) AddIndividual(ctx context.Context, userID uuid.UUID, in Input) (models.Task, error) {
	if err := validate(in); err != nil {
		return models.Task{}, err
	}

	t := models.Task{
		Kind:           models.KindIndividual,
		UserID:         userID,
		Title:          in.Title,
		Deadline:       workload.DateOf(in.Deadline),
		EstimatedHours: in.EstimatedHours,
		Priority:       workload.Classify(in.EstimatedHours),
		Status:         models.StatusPending,
	}
	id, err := s.repo.CreateTask(ctx, t)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	t.ID = id
	return t, nil
}

// AddGroupTask creates a Pending task in groupID. The actor and any assignee
// must be members of the group.
func (s *Service) AddGroupTask(ctx context.Context, actor uuid.UUID, groupID int64, in Input) (models.Task, error) {
	if err := validate(in); err != nil {
		return models.Task{}, err
	}
	if err := s.requireMember(ctx, groupID, actor); err != nil {
		return models.Task{}, err
	}
	if err := s.requireAssignee(ctx, groupID, in.AssignedTo); err != nil {
		return models.Task{}, err
	}

	t := models.Task{
		Kind:           models.KindGroup,
		GroupID:        groupID,
		AssignedTo:     in.AssignedTo,
		Title:          in.Title,
		Deadline:       workload.DateOf(in.Deadline),
		EstimatedHours: in.EstimatedHours,
		Priority:       workload.Classify(in.EstimatedHours),
		Status:         models.StatusPending,
	}
	id, err := s.repo.CreateTask(ctx, t)
	if err != nil {
		return models.Task{}, fmt.Errorf("create group task: %w", err)
	}
	t.ID = id
	return t, nil
}

// Update replaces title, deadline, hours and, for group tasks, the assignee.
// Priority is recomputed from the new hours.
func (s *Service) Update(ctx context.Context, actor uuid.UUID, ref models.TaskRef, in Input) (models.Task, error) {
	if err := validate(in); err != nil {
		return models.Task{}, err
	}
	t, err := s.load(ctx, actor, ref)
	if err != nil {
		return models.Task{}, err
	}

	t.Title = in.Title
	t.Deadline = workload.DateOf(in.Deadline)
	t.EstimatedHours = in.EstimatedHours
	t.Priority = workload.Classify(in.EstimatedHours)
	if t.Kind == models.KindGroup {
		if err := s.requireAssignee(ctx, t.GroupID, in.AssignedTo); err != nil {
			return models.Task{}, err
		}
		t.AssignedTo = in.AssignedTo
	}

	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, actor uuid.UUID, ref models.TaskRef) error {
	if _, err := s.load(ctx, actor, ref); err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, ref); err != nil {
		return fmt.Errorf("delete task %d: %w", ref.ID, err)
	}
	return nil
}

// AllowedStatus reports whether a task of the given kind may take status.
// Individual tasks have no In Progress state.
func AllowedStatus(kind models.TaskKind, status models.Status) bool {
	switch status {
	case models.StatusPending, models.StatusCompleted:
		return true
	case models.StatusInProgress:
		return kind == models.KindGroup
	default:
		return false
	}
}

// SetStatus moves a task to status. Setting Pending on a Completed task
// reopens it.
func (s *Service) SetStatus(ctx context.Context, actor uuid.UUID, ref models.TaskRef, status models.Status) error {
	if !AllowedStatus(ref.Kind, status) {
		return apperrors.Validation(fmt.Sprintf("status %q is not valid for %s tasks", status, ref.Kind))
	}
	if _, err := s.load(ctx, actor, ref); err != nil {
		return err
	}
	if err := s.repo.SetTaskStatus(ctx, ref, status); err != nil {
		return fmt.Errorf("set status of task %d: %w", ref.ID, err)
	}
	return nil
}

// MarkReminderSent flags a task as reminded. The flag is never cleared.
func (s *Service) MarkReminderSent(ctx context.Context, actor uuid.UUID, ref models.TaskRef) error {
	t, err := s.load(ctx, actor, ref)
	if err != nil {
		return err
	}
	if t.ReminderSent {
		return nil
	}
	if err := s.repo.SetReminderSent(ctx, ref); err != nil {
		return fmt.Errorf("mark task %d reminded: %w", ref.ID, err)
	}
	return nil
}

// load fetches a task the actor may act on. Tasks the actor cannot see are
// reported as not found.
func (s *Service) load(ctx context.Context, actor uuid.UUID, ref models.TaskRef) (models.Task, error) {
	switch ref.Kind {
	case models.KindIndividual, models.KindGroup:
	default:
		return models.Task{}, apperrors.Validation(fmt.Sprintf("unknown task kind %q", ref.Kind))
	}

	t, err := s.repo.GetTask(ctx, ref)
	if err != nil {
		return models.Task{}, err
	}

	switch t.Kind {
	case models.KindIndividual:
		if t.UserID != actor {
			return models.Task{}, apperrors.NotFound("task not found")
		}
	case models.KindGroup:
		if err := s.requireMember(ctx, t.GroupID, actor); err != nil {
			if apperrors.IsCode(err, apperrors.CodeValidationFailure) {
				return models.Task{}, apperrors.NotFound("task not found")
			}
			return models.Task{}, err
		}
	}
	return t, nil
}

func (s *Service) requireMember(ctx context.Context, groupID int64, userID uuid.UUID) error {
	_, err := s.repo.FindMembership(ctx, groupID, userID)
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		return apperrors.Validation("you are not a member of this group")
	}
	return err
}

func (s *Service) requireAssignee(ctx context.Context, groupID int64, assignee *uuid.UUID) error {
	if assignee == nil {
		return nil
	}
	_, err := s.repo.FindMembership(ctx, groupID, *assignee)
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		return apperrors.Validation("tasks can only be assigned to group members")
	}
	return err
}

// SortByStatus splits tasks into pending, in progress and completed lists.
func SortByStatus(tasks []models.Task) (pending, inProgress, completed []models.Task) {
	for _, t := range tasks {
		switch t.Status {
		case models.StatusPending:
			pending = append(pending, t)
		case models.StatusInProgress:
			inProgress = append(inProgress, t)
		case models.StatusCompleted:
			completed = append(completed, t)
		}
	}
	return pending, inProgress, completed
}
