// Package importer bulk-loads tasks from YAML files.
package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"studyload/models"
	"studyload/tasks"
	"studyload/workload"
)

// YAMLTask is one task in an import file. Group is a group id; when set the
// task is added to that group instead of the user's own list.
type YAMLTask struct {
	Title      string `yaml:"title"`
	Deadline   string `yaml:"deadline"`
	Hours      int    `yaml:"hours"`
	Status     string `yaml:"status,omitempty"`
	Group      int64  `yaml:"group,omitempty"`
	AssignedTo string `yaml:"assigned_to,omitempty"`
}

type YAMLInput struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// Adder is the slice of tasks.Service the importer drives.
type Adder interface {
	AddIndividual(ctx context.Context, userID uuid.UUID, in tasks.Input) (models.Task, error)
	AddGroupTask(ctx context.Context, actor uuid.UUID, groupID int64, in tasks.Input) (models.Task, error)
	SetStatus(ctx context.Context, actor uuid.UUID, ref models.TaskRef, status models.Status) error
}

type entry struct {
	group  int64
	input  tasks.Input
	status models.Status
}

// Import parses data and adds every task for userID. The whole file is parsed
// before anything is written; on a write error the count of tasks already
// added is returned with it.
func Import(ctx context.Context, svc Adder, userID uuid.UUID, data []byte) (int, error) {
	var input YAMLInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return 0, fmt.Errorf("YAML parse error: %w", err)
	}
	if len(input.Tasks) == 0 {
		return 0, fmt.Errorf("no tasks found in YAML")
	}

	entries := make([]entry, 0, len(input.Tasks))
	for i, yt := range input.Tasks {
		e, err := parseTask(yt)
		if err != nil {
			return 0, fmt.Errorf("task %d (%q): %w", i+1, yt.Title, err)
		}
		entries = append(entries, e)
	}

	count := 0
	for _, e := range entries {
		var t models.Task
		var err error
		if e.group != 0 {
			t, err = svc.AddGroupTask(ctx, userID, e.group, e.input)
		} else {
			t, err = svc.AddIndividual(ctx, userID, e.input)
		}
		if err != nil {
			return count, fmt.Errorf("add task %q: %w", e.input.Title, err)
		}
		count++

		if e.status != "" && e.status != t.Status {
			if err := svc.SetStatus(ctx, userID, t.Ref(), e.status); err != nil {
				return count, fmt.Errorf("set status for %q: %w", e.input.Title, err)
			}
		}
	}
	return count, nil
}

func parseTask(yt YAMLTask) (entry, error) {
	if yt.Title == "" {
		return entry{}, fmt.Errorf("task title is required")
	}
	deadline, err := workload.ParseDate(yt.Deadline)
	if err != nil {
		return entry{}, fmt.Errorf("deadline: %w", err)
	}

	e := entry{
		group: yt.Group,
		input: tasks.Input{Title: yt.Title, Deadline: deadline, EstimatedHours: yt.Hours},
	}

	if yt.AssignedTo != "" {
		if yt.Group == 0 {
			return entry{}, fmt.Errorf("assigned_to needs a group")
		}
		id, err := uuid.Parse(yt.AssignedTo)
		if err != nil {
			return entry{}, fmt.Errorf("assigned_to: %w", err)
		}
		e.input.AssignedTo = &id
	}

	if yt.Status != "" {
		kind := models.KindIndividual
		if yt.Group != 0 {
			kind = models.KindGroup
		}
		status := models.Status(yt.Status)
		if !tasks.AllowedStatus(kind, status) {
			return entry{}, fmt.Errorf("status %q not allowed for %s tasks", yt.Status, kind)
		}
		e.status = status
	}
	return e, nil
}
