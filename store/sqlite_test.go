package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"studyload/apperrors"
	"studyload/config"
	"studyload/groups"
	"studyload/models"
	"studyload/notify"
	"studyload/store"
	"studyload/tasks"
	"studyload/workload"
)

var (
	_ workload.TaskSource = (*store.SQLite)(nil)
	_ tasks.Repository    = (*store.SQLite)(nil)
	_ groups.Repository   = (*store.SQLite)(nil)
	_ notify.Recipients   = (*store.SQLite)(nil)

	_ workload.TaskSource = (*store.Postgres)(nil)
	_ tasks.Repository    = (*store.Postgres)(nil)
	_ groups.Repository   = (*store.Postgres)(nil)
	_ notify.Recipients   = (*store.Postgres)(nil)

	_ store.Backend = (*store.SQLite)(nil)
	_ store.Backend = (*store.Postgres)(nil)
)

func openTestStore(t *testing.T) *store.SQLite {
	t.Helper()

	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "studyload.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func createUser(t *testing.T, s *store.SQLite, name string) models.User {
	t.Helper()

	u, err := s.CreateUser(context.Background(), models.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: []byte("hash"),
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func date(month time.Month, day int) time.Time {
	return time.Date(2026, month, day, 0, 0, 0, 0, time.UTC)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	alice := createUser(t, s, "alice")
	if alice.ID == uuid.Nil {
		t.Fatal("expected generated user id")
	}

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != alice.ID || got.Username != "alice" || string(got.PasswordHash) != "hash" {
		t.Errorf("GetUserByEmail = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	if _, err := s.GetUser(ctx, uuid.New()); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("GetUser unknown id: got %v, want NOT_FOUND", err)
	}

	_, err = s.CreateUser(ctx, models.User{Username: "other", Email: "alice@example.com", PasswordHash: []byte("x")})
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Errorf("duplicate email: got %v, want CONFLICT", err)
	}

	createUser(t, s, "bob")
	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("ListUsers returned %d users, want 2", len(users))
	}
}

func TestIndividualTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	alice := createUser(t, s, "alice")

	later := models.Task{
		Kind: models.KindIndividual, UserID: alice.ID, Title: "Essay",
		Deadline: date(time.March, 14), EstimatedHours: 6,
		Priority: models.PriorityHigh, Status: models.StatusPending,
	}
	sooner := later
	sooner.Title = "Quiz"
	sooner.Deadline = date(time.March, 11)
	sooner.EstimatedHours = 1
	sooner.Priority = models.PriorityLow

	laterID, err := s.CreateTask(ctx, later)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := s.CreateTask(ctx, sooner); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	list, err := s.ListIndividualTasks(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListIndividualTasks: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Quiz" || list[1].Title != "Essay" {
		t.Fatalf("expected deadline ascending order, got %+v", list)
	}
	if !list[1].Deadline.Equal(date(time.March, 14)) {
		t.Errorf("deadline = %v, want 2026-03-14", list[1].Deadline)
	}

	ref := models.TaskRef{Kind: models.KindIndividual, ID: laterID}
	got, err := s.GetTask(ctx, ref)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	got.Title = "Long essay"
	got.EstimatedHours = 3
	got.Priority = models.PriorityMedium
	if err := s.UpdateTask(ctx, got); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if err := s.SetTaskStatus(ctx, ref, models.StatusCompleted); err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
	if err := s.SetReminderSent(ctx, ref); err != nil {
		t.Fatalf("SetReminderSent: %v", err)
	}

	got, err = s.GetTask(ctx, ref)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Title != "Long essay" || got.Priority != models.PriorityMedium || got.Status != models.StatusCompleted || !got.ReminderSent {
		t.Errorf("task after updates = %+v", got)
	}

	if err := s.DeleteTask(ctx, ref); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := s.GetTask(ctx, ref); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("GetTask after delete: got %v, want NOT_FOUND", err)
	}
	if err := s.DeleteTask(ctx, ref); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("second delete: got %v, want NOT_FOUND", err)
	}
}

func TestIndividualTaskRejectsInProgress(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	alice := createUser(t, s, "alice")

	id, err := s.CreateTask(ctx, models.Task{
		Kind: models.KindIndividual, UserID: alice.ID, Title: "Lab",
		Deadline: date(time.March, 12), EstimatedHours: 2,
		Priority: models.PriorityLow, Status: models.StatusPending,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	err = s.SetTaskStatus(ctx, models.TaskRef{Kind: models.KindIndividual, ID: id}, models.StatusInProgress)
	if !apperrors.IsCode(err, apperrors.CodeValidationFailure) {
		t.Errorf("In Progress on an individual task: got %v, want VALIDATION_FAILURE", err)
	}
}

func TestGroupsAndMembership(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	groupID, err := s.CreateGroup(ctx, "Capstone", alice.ID, "ABCD1234")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	head, err := s.FindMembership(ctx, groupID, alice.ID)
	if err != nil {
		t.Fatalf("FindMembership: %v", err)
	}
	if head.Role != models.RoleHead {
		t.Errorf("creator role = %q, want Head", head.Role)
	}

	if _, err := s.CreateGroup(ctx, "Other", bob.ID, "ABCD1234"); !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Errorf("duplicate invite code: got %v, want CONFLICT", err)
	}

	exists, err := s.InviteCodeExists(ctx, "ABCD1234")
	if err != nil || !exists {
		t.Errorf("InviteCodeExists = %v, %v; want true", exists, err)
	}
	exists, err = s.InviteCodeExists(ctx, "ZZZZ9999")
	if err != nil || exists {
		t.Errorf("InviteCodeExists unknown = %v, %v; want false", exists, err)
	}

	g, err := s.FindGroupByInviteCode(ctx, "ABCD1234")
	if err != nil {
		t.Fatalf("FindGroupByInviteCode: %v", err)
	}
	if g.ID != groupID || g.Name != "Capstone" || g.CreatorName != "alice" {
		t.Errorf("FindGroupByInviteCode = %+v", g)
	}
	if _, err := s.GetGroup(ctx, groupID+100); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("GetGroup unknown: got %v, want NOT_FOUND", err)
	}

	if err := s.AddMembership(ctx, groupID, bob.ID, models.RoleMember); err != nil {
		t.Fatalf("AddMembership: %v", err)
	}
	if err := s.AddMembership(ctx, groupID, bob.ID, models.RoleMember); !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Errorf("second join: got %v, want CONFLICT", err)
	}
	if _, err := s.FindMembership(ctx, groupID+100, bob.ID); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("FindMembership unknown group: got %v, want NOT_FOUND", err)
	}

	members, err := s.ListMembers(ctx, groupID)
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(members) != 2 || members[0].Username != "alice" || members[0].Role != models.RoleHead || members[1].Username != "bob" {
		t.Errorf("ListMembers = %+v", members)
	}

	bobGroups, err := s.ListUserGroups(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListUserGroups: %v", err)
	}
	if len(bobGroups) != 1 || bobGroups[0].Role != models.RoleMember || bobGroups[0].InviteCode != "ABCD1234" {
		t.Errorf("ListUserGroups = %+v", bobGroups)
	}
}

func TestGroupTasks(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	carol := createUser(t, s, "carol")

	groupID, err := s.CreateGroup(ctx, "Capstone", alice.ID, "GRP00001")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if err := s.AddMembership(ctx, groupID, bob.ID, models.RoleMember); err != nil {
		t.Fatalf("AddMembership: %v", err)
	}

	assigned := models.Task{
		Kind: models.KindGroup, GroupID: groupID, Title: "Slides",
		Deadline: date(time.March, 13), EstimatedHours: 4,
		Priority: models.PriorityMedium, Status: models.StatusPending, AssignedTo: &bob.ID,
	}
	unassigned := assigned
	unassigned.Title = "Report"
	unassigned.Deadline = date(time.March, 12)
	unassigned.AssignedTo = nil

	slidesID, err := s.CreateTask(ctx, assigned)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := s.CreateTask(ctx, unassigned); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	list, err := s.ListGroupTasks(ctx, groupID)
	if err != nil {
		t.Fatalf("ListGroupTasks: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Report" || list[1].Title != "Slides" {
		t.Fatalf("ListGroupTasks = %+v", list)
	}
	if list[0].AssignedTo != nil || list[0].AssignedName != "" {
		t.Errorf("unassigned task = %+v", list[0])
	}
	if list[1].AssignedTo == nil || *list[1].AssignedTo != bob.ID || list[1].AssignedName != "bob" || list[1].GroupName != "Capstone" {
		t.Errorf("assigned task = %+v", list[1])
	}

	forBob, err := s.ListGroupTasksForUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListGroupTasksForUser: %v", err)
	}
	if len(forBob) != 2 {
		t.Errorf("bob sees %d group tasks, want 2", len(forBob))
	}
	forCarol, err := s.ListGroupTasksForUser(ctx, carol.ID)
	if err != nil {
		t.Fatalf("ListGroupTasksForUser: %v", err)
	}
	if len(forCarol) != 0 {
		t.Errorf("non-member sees %d group tasks, want 0", len(forCarol))
	}

	ref := models.TaskRef{Kind: models.KindGroup, ID: slidesID}
	if err := s.SetTaskStatus(ctx, ref, models.StatusInProgress); err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
	got, err := s.GetTask(ctx, ref)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	got.AssignedTo = nil
	if err := s.UpdateTask(ctx, got); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	got, err = s.GetTask(ctx, ref)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Status != models.StatusInProgress || got.AssignedTo != nil {
		t.Errorf("group task after update = %+v", got)
	}

	missing := models.Task{Kind: models.KindGroup, ID: slidesID + 100, Title: "x", Deadline: date(time.March, 1), EstimatedHours: 1, Priority: models.PriorityLow}
	if err := s.UpdateTask(ctx, missing); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("UpdateTask missing: got %v, want NOT_FOUND", err)
	}
}

func TestUnknownKind(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetTask(context.Background(), models.TaskRef{Kind: "shared", ID: 1})
	if !apperrors.IsCode(err, apperrors.CodeValidationFailure) {
		t.Errorf("unknown kind: got %v, want VALIDATION_FAILURE", err)
	}
}

func TestEngineOverSQLite(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	alice := createUser(t, s, "alice")
	groupID, err := s.CreateGroup(ctx, "Capstone", alice.ID, "ENG00001")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	for _, tk := range []models.Task{
		{Kind: models.KindIndividual, UserID: alice.ID, Title: "Essay", Deadline: date(time.March, 12), EstimatedHours: 5, Priority: models.PriorityHigh, Status: models.StatusPending},
		{Kind: models.KindGroup, GroupID: groupID, Title: "Slides", Deadline: date(time.March, 12), EstimatedHours: 3, Priority: models.PriorityMedium, Status: models.StatusPending},
	} {
		if _, err := s.CreateTask(ctx, tk); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	now := func() time.Time { return time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC) }
	engine := workload.NewEngine(s, now, time.UTC)

	collisions, err := engine.DetectCollisions(ctx, alice.ID)
	if err != nil {
		t.Fatalf("DetectCollisions: %v", err)
	}
	bucket := collisions["2026-03-12"]
	if len(bucket) != 2 || bucket[0].Kind != models.KindIndividual || bucket[1].Kind != models.KindGroup {
		t.Errorf("collisions = %+v", collisions)
	}

	report, err := engine.BurnoutRisk(ctx, alice.ID)
	if err != nil {
		t.Fatalf("BurnoutRisk: %v", err)
	}
	if report.TotalTasks != 2 || report.TasksDueWeek != 2 || report.HoursDueWeek != 8 {
		t.Errorf("report = %+v", report)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	b, err := store.Open(ctx, config.Config{DBDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "open.db")})
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	defer b.Close()
	if err := b.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	if _, err := store.Open(ctx, config.Config{DBDriver: "oracle"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}
