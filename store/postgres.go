package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyload/models"
)

//go:embed schema/postgres.sql
var PostgresSchema string

// Postgres is the production store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Migrate applies the embedded schema. Statements are idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("apply postgres schema: %w", err)
	}
	return nil
}

func (p *Postgres) ListIndividualTasks(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	return p.queryTasks(ctx, qListIndividualTasks, scanIndividualTask, userID)
}

func (p *Postgres) ListGroupTasksForUser(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	return p.queryTasks(ctx, qListGroupTasksForUser, scanGroupTask, userID)
}

func (p *Postgres) ListGroupTasks(ctx context.Context, groupID int64) ([]models.Task, error) {
	return p.queryTasks(ctx, qListGroupTasks, scanGroupTask, groupID)
}

func (p *Postgres) queryTasks(ctx context.Context, query string, scan func(scanner) (models.Task, error), arg any) ([]models.Task, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, classify(err, "task")
	}
	return collect(rows, scan, "task")
}

func (p *Postgres) CreateTask(ctx context.Context, t models.Task) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id int64
	var err error
	switch t.Kind {
	case models.KindIndividual:
		err = p.pool.QueryRow(ctx, qInsertIndividualTask,
			t.UserID, t.Title, deadlineArg(t), t.EstimatedHours, string(t.Priority), string(t.Status),
		).Scan(&id)
	case models.KindGroup:
		err = p.pool.QueryRow(ctx, qInsertGroupTask,
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

func (p *Postgres) GetTask(ctx context.Context, ref models.TaskRef) (models.Task, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var t models.Task
	var err error
	switch ref.Kind {
	case models.KindIndividual:
		t, err = scanIndividualTask(p.pool.QueryRow(ctx, qGetIndividualTask, ref.ID))
	case models.KindGroup:
		t, err = scanGroupTask(p.pool.QueryRow(ctx, qGetGroupTask, ref.ID))
	default:
		_, _, err = taskTable(ref.Kind)
	}
	if err != nil {
		return models.Task{}, classify(err, "task")
	}
	return t, nil
}

func (p *Postgres) UpdateTask(ctx context.Context, t models.Task) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var query string
	var args []any
	switch t.Kind {
	case models.KindIndividual:
		query = qUpdateIndividualTask
		args = []any{t.Title, deadlineArg(t), t.EstimatedHours, string(t.Priority), t.ID}
	case models.KindGroup:
		query = qUpdateGroupTask
		args = []any{t.Title, deadlineArg(t), t.EstimatedHours, string(t.Priority), assigneeArg(t), t.ID}
	default:
		_, _, err := taskTable(t.Kind)
		return err
	}

	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return classify(err, "task")
	}
	return expectRow(tag.RowsAffected(), "task")
}

func (p *Postgres) DeleteTask(ctx context.Context, ref models.TaskRef) error {
	table, idColumn, err := taskTable(ref.Kind)
	if err != nil {
		return err
	}
	return p.execTask(ctx, qDeleteTask(table, idColumn), ref.ID)
}

func (p *Postgres) SetTaskStatus(ctx context.Context, ref models.TaskRef, status models.Status) error {
	table, idColumn, err := taskTable(ref.Kind)
	if err != nil {
		return err
	}
	return p.execTask(ctx, qSetTaskStatus(table, idColumn), string(status), ref.ID)
}

func (p *Postgres) SetReminderSent(ctx context.Context, ref models.TaskRef) error {
	table, idColumn, err := taskTable(ref.Kind)
	if err != nil {
		return err
	}
	return p.execTask(ctx, qSetReminderSent(table, idColumn), ref.ID)
}

func (p *Postgres) execTask(ctx context.Context, query string, args ...any) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return classify(err, "task")
	}
	return expectRow(tag.RowsAffected(), "task")
}

// CreateGroup inserts the group and its Head membership in one transaction.
func (p *Postgres) CreateGroup(ctx context.Context, name string, creator uuid.UUID, inviteCode string) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, classify(err, "group")
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx, qInsertGroup, name, creator, inviteCode).Scan(&id); err != nil {
		return 0, classify(err, "group")
	}
	if _, err := tx.Exec(ctx, qAddMembership, id, creator, string(models.RoleHead)); err != nil {
		return 0, classify(err, "membership")
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, classify(err, "group")
	}
	return id, nil
}

func (p *Postgres) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := p.pool.QueryRow(ctx, qInviteCodeExists, code).Scan(&exists); err != nil {
		return false, classify(err, "group")
	}
	return exists, nil
}

func (p *Postgres) FindGroupByInviteCode(ctx context.Context, code string) (models.Group, error) {
	return p.getGroup(ctx, qFindGroupByCode, code)
}

func (p *Postgres) GetGroup(ctx context.Context, id int64) (models.Group, error) {
	return p.getGroup(ctx, qGetGroup, id)
}

func (p *Postgres) getGroup(ctx context.Context, query string, arg any) (models.Group, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	g, err := scanGroup(p.pool.QueryRow(ctx, query, arg), false)
	if err != nil {
		return models.Group{}, classify(err, "group")
	}
	return g, nil
}

func (p *Postgres) ListUserGroups(ctx context.Context, userID uuid.UUID) ([]models.Group, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, qListUserGroups, userID)
	if err != nil {
		return nil, classify(err, "group")
	}
	return collect(rows, func(r scanner) (models.Group, error) { return scanGroup(r, true) }, "group")
}

func (p *Postgres) AddMembership(ctx context.Context, groupID int64, userID uuid.UUID, role models.Role) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := p.pool.Exec(ctx, qAddMembership, groupID, userID, string(role)); err != nil {
		return classify(err, "membership")
	}
	return nil
}

func (p *Postgres) FindMembership(ctx context.Context, groupID int64, userID uuid.UUID) (models.Membership, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	m, err := scanMembership(p.pool.QueryRow(ctx, qFindMembership, groupID, userID))
	if err != nil {
		return models.Membership{}, classify(err, "membership")
	}
	return m, nil
}

func (p *Postgres) ListMembers(ctx context.Context, groupID int64) ([]models.Member, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, qListMembers, groupID)
	if err != nil {
		return nil, classify(err, "member")
	}
	return collect(rows, scanMember, "member")
}

func (p *Postgres) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if _, err := p.pool.Exec(ctx, qInsertUser, u.ID, u.Username, u.Email, u.PasswordHash); err != nil {
		return models.User{}, classify(err, "user")
	}
	return u, nil
}

func (p *Postgres) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	return p.getUser(ctx, qGetUser, id)
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return p.getUser(ctx, qGetUserByEmail, email)
}

func (p *Postgres) getUser(ctx context.Context, query string, arg any) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u, err := scanUser(p.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return models.User{}, classify(err, "user")
	}
	return u, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := p.pool.Query(ctx, qListUsers)
	if err != nil {
		return nil, classify(err, "user")
	}
	return collect(rows, scanUser, "user")
}

// collect drains pgx rows through scan and closes them.
func collect[T any](rows pgx.Rows, scan func(scanner) (T, error), what string) ([]T, error) {
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
