package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"studyload/models"
)

//go:embed schema/sqlite.sql
var SQLiteSchema string

// SQLite is a single-file store for local use and tests.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. The pool is pinned to
// one connection so per-connection pragmas hold for every query.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLite{db: db}, nil
}

// NewSQLite wraps an already opened database.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, SQLiteSchema); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}

func (s *SQLite) ListIndividualTasks(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	return s.queryTasks(ctx, qListIndividualTasks, scanIndividualTask, userID)
}

func (s *SQLite) ListGroupTasksForUser(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	return s.queryTasks(ctx, qListGroupTasksForUser, scanGroupTask, userID)
}

func (s *SQLite) ListGroupTasks(ctx context.Context, groupID int64) ([]models.Task, error) {
	return s.queryTasks(ctx, qListGroupTasks, scanGroupTask, groupID)
}

func (s *SQLite) queryTasks(ctx context.Context, query string, scan func(scanner) (models.Task, error), arg any) ([]models.Task, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, rebind(query), arg)
	if err != nil {
		return nil, classify(err, "task")
	}
	return collectSQL(rows, scan, "task")
}

func (s *SQLite) CreateTask(ctx context.Context, t models.Task) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id int64
	var err error
	switch t.Kind {
	case models.KindIndividual:
		err = s.db.QueryRowContext(ctx, rebind(qInsertIndividualTask),
			t.UserID, t.Title, deadlineArg(t), t.EstimatedHours, string(t.Priority), string(t.Status),
		).Scan(&id)
	case models.KindGroup:
		err = s.db.QueryRowContext(ctx, rebind(qInsertGroupTask),
			t.GroupID, t.Title, deadlineArg(t), t.EstimatedHours, string(t.Priority), string(t.Status), assigneeArg(t),
		).Scan(&id)
	default:
		_, _, err = taskTable(t.Kind)
	}
	if err != nil {
		return 0, classify(err, "task")
	}
	return id, nil
}

func (s *SQLite) GetTask(ctx context.Context, ref models.TaskRef) (models.Task, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var t models.Task
	var err error
	switch ref.Kind {
	case models.KindIndividual:
		t, err = scanIndividualTask(s.db.QueryRowContext(ctx, rebind(qGetIndividualTask), ref.ID))
	case models.KindGroup:
		t, err = scanGroupTask(s.db.QueryRowContext(ctx, rebind(qGetGroupTask), ref.ID))
	default:
		_, _, err = taskTable(ref.Kind)
	}
	if err != nil {
		return models.Task{}, classify(err, "task")
	}
	return t, nil
}

func (s *SQLite) UpdateTask(ctx context.Context, t models.Task) error {
	switch t.Kind {
	case models.KindIndividual:
		return s.execTask(ctx, qUpdateIndividualTask,
			t.Title, deadlineArg(t), t.EstimatedHours, string(t.Priority), t.ID)
	case models.KindGroup:
		return s.execTask(ctx, qUpdateGroupTask,
			t.Title, deadlineArg(t), t.EstimatedHours, string(t.Priority), assigneeArg(t), t.ID)
	default:
		_, _, err := taskTable(t.Kind)
		return err
	}
}

func (s *SQLite) DeleteTask(ctx context.Context, ref models.TaskRef) error {
	table, idColumn, err := taskTable(ref.Kind)
	if err != nil {
		return err
	}
	return s.execTask(ctx, qDeleteTask(table, idColumn), ref.ID)
}

func (s *SQLite) SetTaskStatus(ctx context.Context, ref models.TaskRef, status models.Status) error {
	table, idColumn, err := taskTable(ref.Kind)
	if err != nil {
		return err
	}
	return s.execTask(ctx, qSetTaskStatus(table, idColumn), string(status), ref.ID)
}

func (s *SQLite) SetReminderSent(ctx context.Context, ref models.TaskRef) error {
	table, idColumn, err := taskTable(ref.Kind)
	if err != nil {
		return err
	}
	return s.execTask(ctx, qSetReminderSent(table, idColumn), ref.ID)
}

func (s *SQLite) execTask(ctx context.Context, query string, args ...any) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, rebind(query), args...)
	if err != nil {
		return classify(err, "task")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err, "task")
	}
	return expectRow(n, "task")
}

// CreateGroup inserts the group and its Head membership in one transaction.
func (s *SQLite) CreateGroup(ctx context.Context, name string, creator uuid.UUID, inviteCode string) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify(err, "group")
	}
	defer tx.Rollback()

	var id int64
	if err := tx.QueryRowContext(ctx, rebind(qInsertGroup), name, creator, inviteCode).Scan(&id); err != nil {
		return 0, classify(err, "group")
	}
	if _, err := tx.ExecContext(ctx, rebind(qAddMembership), id, creator, string(models.RoleHead)); err != nil {
		return 0, classify(err, "membership")
	}
	if err := tx.Commit(); err != nil {
		return 0, classify(err, "group")
	}
	return id, nil
}

func (s *SQLite) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := s.db.QueryRowContext(ctx, rebind(qInviteCodeExists), code).Scan(&exists); err != nil {
		return false, classify(err, "group")
	}
	return exists, nil
}

func (s *SQLite) FindGroupByInviteCode(ctx context.Context, code string) (models.Group, error) {
	return s.getGroup(ctx, qFindGroupByCode, code)
}

func (s *SQLite) GetGroup(ctx context.Context, id int64) (models.Group, error) {
	return s.getGroup(ctx, qGetGroup, id)
}

func (s *SQLite) getGroup(ctx context.Context, query string, arg any) (models.Group, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	g, err := scanGroup(s.db.QueryRowContext(ctx, rebind(query), arg), false)
	if err != nil {
		return models.Group{}, classify(err, "group")
	}
	return g, nil
}

func (s *SQLite) ListUserGroups(ctx context.Context, userID uuid.UUID) ([]models.Group, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, rebind(qListUserGroups), userID)
	if err != nil {
		return nil, classify(err, "group")
	}
	return collectSQL(rows, func(r scanner) (models.Group, error) { return scanGroup(r, true) }, "group")
}

func (s *SQLite) AddMembership(ctx context.Context, groupID int64, userID uuid.UUID, role models.Role) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, rebind(qAddMembership), groupID, userID, string(role)); err != nil {
		return classify(err, "membership")
	}
	return nil
}

func (s *SQLite) FindMembership(ctx context.Context, groupID int64, userID uuid.UUID) (models.Membership, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	m, err := scanMembership(s.db.QueryRowContext(ctx, rebind(qFindMembership), groupID, userID))
	if err != nil {
		return models.Membership{}, classify(err, "membership")
	}
	return m, nil
}

func (s *SQLite) ListMembers(ctx context.Context, groupID int64) ([]models.Member, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, rebind(qListMembers), groupID)
	if err != nil {
		return nil, classify(err, "member")
	}
	return collectSQL(rows, scanMember, "member")
}

func (s *SQLite) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if _, err := s.db.ExecContext(ctx, rebind(qInsertUser), u.ID, u.Username, u.Email, u.PasswordHash); err != nil {
		return models.User{}, classify(err, "user")
	}
	return u, nil
}

func (s *SQLite) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.getUser(ctx, qGetUser, id)
}

func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getUser(ctx, qGetUserByEmail, email)
}

func (s *SQLite) getUser(ctx context.Context, query string, arg any) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u, err := scanUser(s.db.QueryRowContext(ctx, rebind(query), arg))
	if err != nil {
		return models.User{}, classify(err, "user")
	}
	return u, nil
}

func (s *SQLite) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, rebind(qListUsers))
	if err != nil {
		return nil, classify(err, "user")
	}
	return collectSQL(rows, scanUser, "user")
}

func collectSQL[T any](rows *sql.Rows, scan func(scanner) (T, error), what string) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, classify(fmt.Errorf("scan %s: %w", what, err), what)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, what)
	}
	return out, nil
}
