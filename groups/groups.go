// Package groups manages study groups: creation with a unique invite code,
// joining, and membership lookups.
package groups

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"studyload/apperrors"
	"studyload/models"
	"studyload/utils"
)

type Repository interface {
	CreateGroup(ctx context.Context, name string, creator uuid.UUID, inviteCode string) (int64, error)
	InviteCodeExists(ctx context.Context, code string) (bool, error)
	FindGroupByInviteCode(ctx context.Context, code string) (models.Group, error)
	GetGroup(ctx context.Context, id int64) (models.Group, error)
	ListUserGroups(ctx context.Context, userID uuid.UUID) ([]models.Group, error)
	AddMembership(ctx context.Context, groupID int64, userID uuid.UUID, role models.Role) error
	FindMembership(ctx context.Context, groupID int64, userID uuid.UUID) (models.Membership, error)
	ListMembers(ctx context.Context, groupID int64) ([]models.Member, error)
	ListGroupTasks(ctx context.Context, groupID int64) ([]models.Task, error)
}

// Outcome is the user-facing result of a group mutation.
type Outcome struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type Service struct {
	repo    Repository
	newCode func() (string, error)
}

// NewService builds a group service. newCode defaults to utils.GenerateInviteCode.
func NewService(repo Repository, newCode func() (string, error)) *Service {
	if newCode == nil {
		newCode = utils.GenerateInviteCode
	}
	return &Service{repo: repo, newCode: newCode}
}

// Create makes a group with a fresh invite code and records the creator as
// its Head. A code that is already taken, whether seen by the lookup or by
// the insert, is replaced with a new one.
func (s *Service) Create(ctx context.Context, name string, creator uuid.UUID) (models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return models.Group{}, apperrors.Validation("group name must be between 1 and 100 characters")
	}

	for {
		if err := ctx.Err(); err != nil {
			return models.Group{}, err
		}

		code, err := s.newCode()
		if err != nil {
			return models.Group{}, fmt.Errorf("generate invite code: %w", err)
		}
		taken, err := s.repo.InviteCodeExists(ctx, code)
		if err != nil {
			return models.Group{}, fmt.Errorf("check invite code: %w", err)
		}
		if taken {
			continue
		}

		id, err := s.repo.CreateGroup(ctx, name, creator, code)
		if apperrors.IsCode(err, apperrors.CodeConflict) {
			continue
		}
		if err != nil {
			return models.Group{}, fmt.Errorf("create group: %w", err)
		}

		return models.Group{
			ID:         id,
			Name:       name,
			CreatedBy:  creator,
			InviteCode: code,
			Role:       models.RoleHead,
		}, nil
	}
}

// JoinByCode adds userID as a Member of the group the code belongs to.
func (s *Service) JoinByCode(ctx context.Context, code string, userID uuid.UUID) (models.Group, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !utils.ValidInviteCode(code) {
		return models.Group{}, apperrors.NotFound("Invalid invite code")
	}

	g, err := s.repo.FindGroupByInviteCode(ctx, code)
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		return models.Group{}, apperrors.NotFound("Invalid invite code")
	}
	if err != nil {
		return models.Group{}, err
	}

	if err := s.join(ctx, g.ID, userID, "Already a member of this group"); err != nil {
		return models.Group{}, err
	}
	g.Role = models.RoleMember
	return g, nil
}

// Join adds userID as a Member of groupID.
func (s *Service) Join(ctx context.Context, groupID int64, userID uuid.UUID) (models.Group, error) {
	g, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return models.Group{}, err
	}
	if err := s.join(ctx, g.ID, userID, "Already a member"); err != nil {
		return models.Group{}, err
	}
	g.Role = models.RoleMember
	return g, nil
}

func (s *Service) join(ctx context.Context, groupID int64, userID uuid.UUID, duplicate string) error {
	_, err := s.repo.FindMembership(ctx, groupID, userID)
	if err == nil {
		return apperrors.Conflict(duplicate)
	}
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return err
	}

	err = s.repo.AddMembership(ctx, groupID, userID, models.RoleMember)
	if apperrors.IsCode(err, apperrors.CodeConflict) {
		return apperrors.Conflict(duplicate)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.GetCode(err), "Failed to join group", err)
	}
	return nil
}

// JoinedMessage is shown after a successful join.
func JoinedMessage(g models.Group) string {
	return fmt.Sprintf("Successfully joined '%s'", g.Name)
}

// OutcomeOf turns a mutation result into a message for the caller.
func OutcomeOf(err error, success string) Outcome {
	if err != nil {
		return Outcome{OK: false, Message: apperrors.Message(err)}
	}
	return Outcome{OK: true, Message: success}
}

func (s *Service) ForUser(ctx context.Context, userID uuid.UUID) ([]models.Group, error) {
	return s.repo.ListUserGroups(ctx, userID)
}

func (s *Service) IsHead(ctx context.Context, groupID int64, userID uuid.UUID) (bool, error) {
	m, err := s.repo.FindMembership(ctx, groupID, userID)
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.Role == models.RoleHead, nil
}

// Members lists the group's members, Head first. Only members may look.
func (s *Service) Members(ctx context.Context, actor uuid.UUID, groupID int64) ([]models.Member, error) {
	if err := s.RequireMember(ctx, groupID, actor); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, groupID)
}

// Tasks lists the group's tasks by deadline. Only members may look.
func (s *Service) Tasks(ctx context.Context, actor uuid.UUID, groupID int64) ([]models.Task, error) {
	if err := s.RequireMember(ctx, groupID, actor); err != nil {
		return nil, err
	}
	return s.repo.ListGroupTasks(ctx, groupID)
}

// RequireMember fails with NotFound when userID does not belong to groupID.
func (s *Service) RequireMember(ctx context.Context, groupID int64, userID uuid.UUID) error {
	_, err := s.repo.FindMembership(ctx, groupID, userID)
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		return apperrors.NotFound("group not found")
	}
	return err
}
