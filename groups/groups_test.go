package groups_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"

	"studyload/apperrors"
	"studyload/groups"
	"studyload/models"
)

type memberKey struct {
	group int64
	user  uuid.UUID
}

type fakeRepo struct {
	nextID  int64
	groups  map[int64]models.Group
	members map[memberKey]models.Role
	lookups int

	// insertConflicts makes the next N CreateGroup calls fail as a unique
	// index race would.
	insertConflicts int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{groups: map[int64]models.Group{}, members: map[memberKey]models.Role{}}
}

func (f *fakeRepo) CreateGroup(ctx context.Context, name string, creator uuid.UUID, code string) (int64, error) {
	if f.insertConflicts > 0 {
		f.insertConflicts--
		return 0, apperrors.Conflict("invite code already in use")
	}
	f.nextID++
	f.groups[f.nextID] = models.Group{ID: f.nextID, Name: name, CreatedBy: creator, InviteCode: code}
	f.members[memberKey{f.nextID, creator}] = models.RoleHead
	return f.nextID, nil
}

func (f *fakeRepo) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	f.lookups++
	for _, g := range f.groups {
		if g.InviteCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) FindGroupByInviteCode(ctx context.Context, code string) (models.Group, error) {
	for _, g := range f.groups {
		if g.InviteCode == code {
			return g, nil
		}
	}
	return models.Group{}, apperrors.NotFound("group not found")
}

func (f *fakeRepo) GetGroup(ctx context.Context, id int64) (models.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return models.Group{}, apperrors.NotFound("group not found")
	}
	return g, nil
}

func (f *fakeRepo) ListUserGroups(ctx context.Context, userID uuid.UUID) ([]models.Group, error) {
	var out []models.Group
	for k, role := range f.members {
		if k.user == userID {
			g := f.groups[k.group]
			g.Role = role
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeRepo) AddMembership(ctx context.Context, groupID int64, userID uuid.UUID, role models.Role) error {
	k := memberKey{groupID, userID}
	if _, ok := f.members[k]; ok {
		return apperrors.Conflict("membership exists")
	}
	f.members[k] = role
	return nil
}

func (f *fakeRepo) FindMembership(ctx context.Context, groupID int64, userID uuid.UUID) (models.Membership, error) {
	role, ok := f.members[memberKey{groupID, userID}]
	if !ok {
		return models.Membership{}, apperrors.NotFound("membership not found")
	}
	return models.Membership{GroupID: groupID, UserID: userID, Role: role}, nil
}

func (f *fakeRepo) ListMembers(ctx context.Context, groupID int64) ([]models.Member, error) {
	var out []models.Member
	for k, role := range f.members {
		if k.group == groupID {
			out = append(out, models.Member{UserID: k.user, Role: role})
		}
	}
	return out, nil
}

func (f *fakeRepo) ListGroupTasks(ctx context.Context, groupID int64) ([]models.Task, error) {
	return nil, nil
}

// sequence hands out the given codes in order.
func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		c := codes[i]
		i++
		return c, nil
	}
}

var codePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func TestCreateGeneratesDistinctCodes(t *testing.T) {
	repo := newFakeRepo()
	svc := groups.NewService(repo, nil)
	creator := uuid.New()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		g, err := svc.Create(context.Background(), "Study group", creator)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if !codePattern.MatchString(g.InviteCode) {
			t.Errorf("invite code %q does not match [A-Z0-9]{8}", g.InviteCode)
		}
		if seen[g.InviteCode] {
			t.Errorf("invite code %q issued twice", g.InviteCode)
		}
		seen[g.InviteCode] = true
	}
}

func TestCreateRetriesOnTakenCode(t *testing.T) {
	repo := newFakeRepo()
	repo.groups[99] = models.Group{ID: 99, Name: "Existing", InviteCode: "TAKEN001"}
	svc := groups.NewService(repo, sequence("TAKEN001", "FRESH002"))

	g, err := svc.Create(context.Background(), "Algorithms", uuid.New())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.InviteCode != "FRESH002" {
		t.Errorf("InviteCode = %q, want FRESH002", g.InviteCode)
	}
	if repo.lookups != 2 {
		t.Errorf("lookups = %d, want 2", repo.lookups)
	}
}

func TestCreateRetriesOnInsertConflict(t *testing.T) {
	repo := newFakeRepo()
	repo.insertConflicts = 1
	svc := groups.NewService(repo, sequence("RACE0001", "RACE0002"))

	g, err := svc.Create(context.Background(), "Databases", uuid.New())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.InviteCode != "RACE0002" {
		t.Errorf("InviteCode = %q, want RACE0002", g.InviteCode)
	}
}

func TestCreateMakesCreatorHead(t *testing.T) {
	repo := newFakeRepo()
	svc := groups.NewService(repo, nil)
	ctx := context.Background()
	creator := uuid.New()

	g, err := svc.Create(ctx, "  Compilers  ", creator)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.Name != "Compilers" {
		t.Errorf("Name = %q, want trimmed", g.Name)
	}
	head, err := svc.IsHead(ctx, g.ID, creator)
	if err != nil || !head {
		t.Errorf("IsHead(creator) = %v, %v; want true", head, err)
	}
	head, _ = svc.IsHead(ctx, g.ID, uuid.New())
	if head {
		t.Error("IsHead(stranger) = true, want false")
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc := groups.NewService(newFakeRepo(), nil)
	if _, err := svc.Create(context.Background(), "   ", uuid.New()); !apperrors.IsCode(err, apperrors.CodeValidationFailure) {
		t.Errorf("Create() error = %v, want VALIDATION_FAILURE", err)
	}
}

func TestJoinByCode(t *testing.T) {
	repo := newFakeRepo()
	svc := groups.NewService(repo, sequence("JOINME42"))
	ctx := context.Background()
	creator, student := uuid.New(), uuid.New()

	if _, err := svc.Create(ctx, "Networks", creator); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		code    string
		user    uuid.UUID
		wantOK  bool
		wantMsg string
	}{
		{name: "unknown code", code: "NOPE0000", user: student, wantMsg: "Invalid invite code"},
		{name: "malformed code", code: "bad", user: student, wantMsg: "Invalid invite code"},
		{name: "first join, lower case", code: "joinme42", user: student, wantOK: true, wantMsg: "Successfully joined 'Networks'"},
		{name: "second join", code: "JOINME42", user: student, wantMsg: "Already a member of this group"},
		{name: "creator joins again", code: "JOINME42", user: creator, wantMsg: "Already a member of this group"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := svc.JoinByCode(ctx, tt.code, tt.user)
			got := groups.OutcomeOf(err, groups.JoinedMessage(g))
			if got.OK != tt.wantOK || got.Message != tt.wantMsg {
				t.Errorf("JoinByCode() outcome = %+v, want ok=%v message=%q", got, tt.wantOK, tt.wantMsg)
			}
		})
	}

	if m, err := repo.FindMembership(ctx, 1, student); err != nil || m.Role != models.RoleMember {
		t.Errorf("student membership = %+v, %v; want Member", m, err)
	}
}

func TestJoinByID(t *testing.T) {
	repo := newFakeRepo()
	svc := groups.NewService(repo, nil)
	ctx := context.Background()

	g, _ := svc.Create(ctx, "Physics", uuid.New())
	student := uuid.New()
	if _, err := svc.Join(ctx, g.ID, student); err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if _, err := svc.Join(ctx, g.ID, student); !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Errorf("second Join() error = %v, want CONFLICT", err)
	}
	if _, err := svc.Join(ctx, 404, student); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("Join(missing group) error = %v, want NOT_FOUND", err)
	}
}

func TestMembersRequiresMembership(t *testing.T) {
	repo := newFakeRepo()
	svc := groups.NewService(repo, nil)
	ctx := context.Background()
	creator := uuid.New()

	g, _ := svc.Create(ctx, "Chemistry", creator)
	if _, err := svc.Members(ctx, uuid.New(), g.ID); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("Members() by outsider error = %v, want NOT_FOUND", err)
	}
	members, err := svc.Members(ctx, creator, g.ID)
	if err != nil || len(members) != 1 || members[0].Role != models.RoleHead {
		t.Errorf("Members() = %+v, %v", members, err)
	}
}
