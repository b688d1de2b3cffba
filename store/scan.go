package store

import (
	"fmt"
	"time"

	"studyload/models"
	"studyload/workload"
)

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// timeCol reads DATE and timestamp columns from either driver. Postgres hands
// over time.Time, SQLite stores text.
type timeCol struct {
	dst      *time.Time
	dateOnly bool
}

var textLayouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly}

func (c *timeCol) Scan(src any) error {
	var t time.Time
	switch v := src.(type) {
	case nil:
		*c.dst = time.Time{}
		return nil
	case time.Time:
		t = v
	case string:
		parsed, err := parseText(v)
		if err != nil {
			return err
		}
		t = parsed
	case []byte:
		parsed, err := parseText(string(v))
		if err != nil {
			return err
		}
		t = parsed
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}

	if c.dateOnly {
		t = workload.DateOf(t)
	}
	*c.dst = t
	return nil
}

func parseText(s string) (time.Time, error) {
	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

func scanIndividualTask(row scanner) (models.Task, error) {
	t := models.Task{Kind: models.KindIndividual}
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title,
		&timeCol{dst: &t.Deadline, dateOnly: true},
		&t.EstimatedHours, &t.Priority, &t.Status, &t.ReminderSent,
		&timeCol{dst: &t.CreatedAt},
	)
	return t, err
}

func scanGroupTask(row scanner) (models.Task, error) {
	t := models.Task{Kind: models.KindGroup}
	err := row.Scan(
		&t.ID, &t.GroupID, &t.GroupName, &t.AssignedTo, &t.AssignedName,
		&t.Title,
		&timeCol{dst: &t.Deadline, dateOnly: true},
		&t.EstimatedHours, &t.Priority, &t.Status, &t.ReminderSent,
		&timeCol{dst: &t.CreatedAt},
	)
	return t, err
}

func scanGroup(row scanner, withRole bool) (models.Group, error) {
	var g models.Group
	dest := []any{&g.ID, &g.Name, &g.CreatedBy, &g.CreatorName, &g.InviteCode, &timeCol{dst: &g.CreatedAt}}
	if withRole {
		dest = append(dest, &g.Role)
	}
	err := row.Scan(dest...)
	return g, err
}

func scanMembership(row scanner) (models.Membership, error) {
	var m models.Membership
	err := row.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &timeCol{dst: &m.JoinedAt})
	return m, err
}

func scanMember(row scanner) (models.Member, error) {
	var m models.Member
	err := row.Scan(&m.UserID, &m.Username, &m.Email, &m.Role, &timeCol{dst: &m.JoinedAt})
	return m, err
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &timeCol{dst: &u.CreatedAt})
	return u, err
}

// deadlineArg binds a deadline as a YYYY-MM-DD string, which both DATE and
// TEXT columns accept.
func deadlineArg(t models.Task) string {
	return t.DeadlineKey()
}

// assigneeArg binds a nullable assignee.
func assigneeArg(t models.Task) any {
	if t.AssignedTo == nil {
		return nil
	}
	return t.AssignedTo.String()
}
