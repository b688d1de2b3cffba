package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskKind tells individual and group tasks apart. Their ids live in separate
// namespaces, so a kind is always needed to address a task.
type TaskKind string

const (
	KindIndividual TaskKind = "individual"
	KindGroup      TaskKind = "group"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// TaskRef addresses a single task.
type TaskRef struct {
	Kind TaskKind `json:"kind"`
	ID   int64    `json:"id"`
}

type Task struct {
	ID             int64      `db:"id" json:"id"`
	Kind           TaskKind   `json:"kind"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id,omitempty"`
	GroupID        int64      `db:"group_id" json:"group_id,omitempty"`
	GroupName      string     `db:"group_name" json:"group_name,omitempty"`
	AssignedTo     *uuid.UUID `db:"assigned_to" json:"assigned_to,omitempty"`
	AssignedName   string     `json:"assigned_name,omitempty"`
	Title          string     `db:"title" json:"title"`
	Deadline       time.Time  `db:"deadline" json:"deadline"`
	EstimatedHours int        `db:"estimated_hours" json:"estimated_hours"`
	Priority       Priority   `db:"priority" json:"priority"`
	Status         Status     `db:"task_status" json:"status"`
	ReminderSent   bool       `db:"reminder_sent" json:"reminder_sent"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

func (t Task) Ref() TaskRef {
	return TaskRef{Kind: t.Kind, ID: t.ID}
}

// DeadlineKey is the calendar date of the deadline in YYYY-MM-DD form.
func (t Task) DeadlineKey() string {
	return t.Deadline.Format(time.DateOnly)
}
