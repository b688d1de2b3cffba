package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"studyload/importer"
	"studyload/models"
	"studyload/tasks"
)

type fakeAdder struct {
	added    []models.Task
	statuses map[models.TaskRef]models.Status
	failOn   string
}

func (f *fakeAdder) add(kind models.TaskKind, groupID int64, in tasks.Input) (models.Task, error) {
	if in.Title == f.failOn {
		return models.Task{}, errors.New("store down")
	}
	t := models.Task{
		ID: int64(len(f.added) + 1), Kind: kind, GroupID: groupID,
		Title: in.Title, Deadline: in.Deadline, EstimatedHours: in.EstimatedHours,
		AssignedTo: in.AssignedTo, Status: models.StatusPending,
	}
	f.added = append(f.added, t)
	return t, nil
}

func (f *fakeAdder) AddIndividual(ctx context.Context, userID uuid.UUID, in tasks.Input) (models.Task, error) {
	return f.add(models.KindIndividual, 0, in)
}

func (f *fakeAdder) AddGroupTask(ctx context.Context, actor uuid.UUID, groupID int64, in tasks.Input) (models.Task, error) {
	return f.add(models.KindGroup, groupID, in)
}

func (f *fakeAdder) SetStatus(ctx context.Context, actor uuid.UUID, ref models.TaskRef, status models.Status) error {
	if f.statuses == nil {
		f.statuses = map[models.TaskRef]models.Status{}
	}
	f.statuses[ref] = status
	return nil
}

const sample = `
tasks:
  - title: Essay draft
    deadline: 2026-03-14
    hours: 6
  - title: Lab report
    deadline: 2026-03-11
    hours: 2
    status: Completed
  - title: Slides
    deadline: 2026-03-12
    hours: 3
    group: 4
    status: In Progress
    assigned_to: 6f1c1a9e-3c1b-4c55-9d8e-2f1f0b7e4a11
`

func TestImport(t *testing.T) {
	adder := &fakeAdder{}
	n, err := importer.Import(context.Background(), adder, uuid.New(), []byte(sample))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 3 {
		t.Fatalf("imported %d tasks, want 3", n)
	}

	if adder.added[0].Kind != models.KindIndividual || adder.added[0].DeadlineKey() != "2026-03-14" || adder.added[0].EstimatedHours != 6 {
		t.Errorf("first task = %+v", adder.added[0])
	}
	slides := adder.added[2]
	if slides.Kind != models.KindGroup || slides.GroupID != 4 || slides.AssignedTo == nil {
		t.Errorf("group task = %+v", slides)
	}

	if got := adder.statuses[adder.added[1].Ref()]; got != models.StatusCompleted {
		t.Errorf("lab report status = %q, want Completed", got)
	}
	if got := adder.statuses[slides.Ref()]; got != models.StatusInProgress {
		t.Errorf("slides status = %q, want In Progress", got)
	}
	if _, ok := adder.statuses[adder.added[0].Ref()]; ok {
		t.Error("pending task should not get a status change")
	}
}

func TestImportRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"not yaml", "tasks: [", "YAML parse error"},
		{"empty", "tasks: []", "no tasks found"},
		{"missing title", "tasks:\n  - deadline: 2026-03-14\n    hours: 2", "title is required"},
		{"bad deadline", "tasks:\n  - title: A\n    deadline: next week\n    hours: 2", "deadline"},
		{"in progress individual", "tasks:\n  - title: A\n    deadline: 2026-03-14\n    hours: 2\n    status: In Progress", "not allowed"},
		{"assignee without group", "tasks:\n  - title: A\n    deadline: 2026-03-14\n    hours: 2\n    assigned_to: 6f1c1a9e-3c1b-4c55-9d8e-2f1f0b7e4a11", "needs a group"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adder := &fakeAdder{}
			_, err := importer.Import(context.Background(), adder, uuid.New(), []byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error containing %q", err, tt.want)
			}
			if len(adder.added) != 0 {
				t.Errorf("nothing should be written for an invalid file, got %d tasks", len(adder.added))
			}
		})
	}
}

func TestImportReportsPartialProgress(t *testing.T) {
	adder := &fakeAdder{failOn: "Lab report"}
	n, err := importer.Import(context.Background(), adder, uuid.New(), []byte(sample))
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
