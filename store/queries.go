package store

import (
	"fmt"
	"regexp"

	"studyload/apperrors"
	"studyload/models"
)

// Queries are written with $N placeholders, each used once and in order, so
// the SQLite store can rewrite them to plain ? markers.

const individualColumns = `task_id, user_id, title, deadline, estimated_hours, priority, task_status, reminder_sent, created_at`

const groupTaskFrom = `
	SELECT gt.group_task_id, gt.group_id, sg.group_name, gt.assigned_to, COALESCE(u.username, ''),
	       gt.title, gt.deadline, gt.estimated_hours, gt.priority, gt.task_status, gt.reminder_sent, gt.created_at
	FROM group_tasks gt
	JOIN student_groups sg ON gt.group_id = sg.group_id
	LEFT JOIN users u ON gt.assigned_to = u.id`

const (
	qListIndividualTasks = `SELECT ` + individualColumns + ` FROM tasks WHERE user_id = $1 ORDER BY deadline ASC, task_id ASC`
	qGetIndividualTask   = `SELECT ` + individualColumns + ` FROM tasks WHERE task_id = $1`

	qListGroupTasksForUser = groupTaskFrom + `
	JOIN group_members gm ON gt.group_id = gm.group_id
	WHERE gm.user_id = $1
	ORDER BY gt.deadline ASC, gt.group_task_id ASC`
	qListGroupTasks = groupTaskFrom + `
	WHERE gt.group_id = $1
	ORDER BY gt.deadline ASC, gt.group_task_id ASC`
	qGetGroupTask = groupTaskFrom + `
	WHERE gt.group_task_id = $1`

	qInsertIndividualTask = `INSERT INTO tasks (user_id, title, deadline, estimated_hours, priority, task_status)
	VALUES ($1, $2, $3, $4, $5, $6) RETURNING task_id`
	qInsertGroupTask = `INSERT INTO group_tasks (group_id, title, deadline, estimated_hours, priority, task_status, assigned_to)
	VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING group_task_id`

	qUpdateIndividualTask = `UPDATE tasks SET title = $1, deadline = $2, estimated_hours = $3, priority = $4 WHERE task_id = $5`
	qUpdateGroupTask      = `UPDATE group_tasks SET title = $1, deadline = $2, estimated_hours = $3, priority = $4, assigned_to = $5 WHERE group_task_id = $6`

	qInsertGroup      = `INSERT INTO student_groups (group_name, created_by, invite_code) VALUES ($1, $2, $3) RETURNING group_id`
	qInviteCodeExists = `SELECT EXISTS(SELECT 1 FROM student_groups WHERE invite_code = $1)`
	qGroupColumns     = `
	SELECT sg.group_id, sg.group_name, sg.created_by, COALESCE(u.username, ''), sg.invite_code, sg.created_at
	FROM student_groups sg
	LEFT JOIN users u ON sg.created_by = u.id`
	qFindGroupByCode = qGroupColumns + ` WHERE sg.invite_code = $1`
	qGetGroup        = qGroupColumns + ` WHERE sg.group_id = $1`
	qListUserGroups  = `
	SELECT sg.group_id, sg.group_name, sg.created_by, COALESCE(u.username, ''), sg.invite_code, sg.created_at, gm.member_role
	FROM student_groups sg
	JOIN group_members gm ON sg.group_id = gm.group_id
	LEFT JOIN users u ON sg.created_by = u.id
	WHERE gm.user_id = $1
	ORDER BY sg.created_at DESC, sg.group_id DESC`

	qAddMembership  = `INSERT INTO group_members (group_id, user_id, member_role) VALUES ($1, $2, $3)`
	qFindMembership = `SELECT membership_id, group_id, user_id, member_role, joined_at FROM group_members WHERE group_id = $1 AND user_id = $2`
	qListMembers    = `
	SELECT u.id, u.username, u.email, gm.member_role, gm.joined_at
	FROM group_members gm
	JOIN users u ON gm.user_id = u.id
	WHERE gm.group_id = $1
	ORDER BY CASE gm.member_role WHEN 'Head' THEN 1 ELSE 2 END, gm.joined_at ASC, gm.membership_id ASC`

	qInsertUser     = `INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4)`
	qUserColumns    = `SELECT id, username, email, password_hash, created_at FROM users`
	qGetUser        = qUserColumns + ` WHERE id = $1`
	qGetUserByEmail = qUserColumns + ` WHERE email = $1`
	qListUsers      = qUserColumns + ` ORDER BY created_at ASC, email ASC`
)

// taskTable returns the table and primary key column holding tasks of kind.
func taskTable(kind models.TaskKind) (table, idColumn string, err error) {
	switch kind {
	case models.KindIndividual:
		return "tasks", "task_id", nil
	case models.KindGroup:
		return "group_tasks", "group_task_id", nil
	default:
		return "", "", apperrors.Validation(fmt.Sprintf("unknown task kind %q", kind))
	}
}

func qDeleteTask(table, idColumn string) string {
	return fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, idColumn)
}

func qSetTaskStatus(table, idColumn string) string {
	return fmt.Sprintf(`UPDATE %s SET task_status = $1 WHERE %s = $2`, table, idColumn)
}

func qSetReminderSent(table, idColumn string) string {
	return fmt.Sprintf(`UPDATE %s SET reminder_sent = TRUE WHERE %s = $1`, table, idColumn)
}

var placeholder = regexp.MustCompile(`\$\d+`)

func rebind(query string) string {
	return placeholder.ReplaceAllString(query, "?")
}
