package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/repository"
)

var (
	ErrMissingCode        = errors.New("code is required")
	ErrMissingSubject     = errors.New("subject is required")
	ErrMissingGroup       = errors.New("group is required")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrCodeTargetMismatch = errors.New("code does not belong to the requested group")
	ErrGroupFull          = errors.New("group is full")
	ErrInviteSpent        = errors.New("invite has no remaining uses")
)

// GroupType distinguishes the two kinds of joinable groups.
type GroupType string

const (
	GroupTypeTeam      GroupType = "team"
	GroupTypeCommunity GroupType = "community"
)

// JoinService is the redemption engine: it resolves a code to a group and
// converts it into a membership row exactly once per (group, subject) pair.
type JoinService struct {
	teamRepo      repository.TeamRepository
	communityRepo repository.CommunityRepository
	inviteRepo    repository.InviteRepository
}

// NewJoinService creates a new JoinService.
func NewJoinService(teamRepo repository.TeamRepository, communityRepo repository.CommunityRepository, inviteRepo repository.InviteRepository) *JoinService {
	return &JoinService{
		teamRepo:      teamRepo,
		communityRepo: communityRepo,
		inviteRepo:    inviteRepo,
	}
}

// RedeemCodeInput carries a redemption request. GroupType/GroupID are an
// optional target assertion: when set, the code must resolve to that exact
// group.
type RedeemCodeInput struct {
	Code      string
	GroupType GroupType
	GroupID   *uint64
	SubjectID uint64
}

// RedeemResult reports which group the code resolved to and whether a new
// membership row was inserted. Added is false on a repeated redemption by an
// existing member; that is a success, not an error.
type RedeemResult struct {
	GroupType GroupType
	GroupID   uint64
	Added     bool
}

// resolvedCode is the outcome of code resolution: the owning group, and the
// invite when the code is a time-limited invite rather than a direct join
// code.
type resolvedCode struct {
	groupType GroupType
	groupID   uint64
	invite    *models.Invite
}

// RedeemCode resolves the code, verifies the optional target assertion, and
// performs the atomic idempotent membership insert. Expiry, use limits and
// member limits are enforced inside the store transaction, never ahead of it.
func (s *JoinService) RedeemCode(input RedeemCodeInput) (*RedeemResult, error) {
	if input.Code == "" {
		return nil, ErrMissingCode
	}
	if input.SubjectID == 0 {
		return nil, ErrMissingSubject
	}

	resolved, err := s.resolveCode(input.Code)
	if err != nil {
		return nil, err
	}

	if input.GroupID != nil && *input.GroupID != resolved.groupID {
		return nil, ErrCodeTargetMismatch
	}
	if input.GroupType != "" && input.GroupType != resolved.groupType {
		return nil, ErrCodeTargetMismatch
	}

	added, err := s.redeem(resolved, input.SubjectID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGroupFull):
			return nil, ErrGroupFull
		case errors.Is(err, repository.ErrInviteSpent):
			return nil, ErrInviteSpent
		case errors.Is(err, gorm.ErrRecordNotFound):
			// The resolved group vanished between resolution and redemption.
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to redeem code: %w", err)
	}

	return &RedeemResult{
		GroupType: resolved.groupType,
		GroupID:   resolved.groupID,
		Added:     added,
	}, nil
}

// resolveCode tries team join codes, then community join codes, then invite
// codes. An expired invite resolves to the same signal as an unknown code; an
// exhausted one is a conflict, so the loser of a last-use race and a
// latecomer read the same answer.
func (s *JoinService) resolveCode(code string) (*resolvedCode, error) {
	team, err := s.teamRepo.FindByJoinCode(code)
	if err == nil {
		return &resolvedCode{groupType: GroupTypeTeam, groupID: team.ID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve code: %w", err)
	}

	community, err := s.communityRepo.FindByJoinCode(code)
	if err == nil {
		return &resolvedCode{groupType: GroupTypeCommunity, groupID: community.ID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve code: %w", err)
	}

	invite, err := s.inviteRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to resolve code: %w", err)
	}

	if invite.IsExpired(time.Now()) {
		return nil, ErrInvalidCode
	}
	if invite.IsExhausted() {
		return nil, ErrInviteSpent
	}

	switch {
	case invite.TeamID != nil:
		return &resolvedCode{groupType: GroupTypeTeam, groupID: *invite.TeamID, invite: invite}, nil
	case invite.CommunityID != nil:
		return &resolvedCode{groupType: GroupTypeCommunity, groupID: *invite.CommunityID, invite: invite}, nil
	default:
		return nil, ErrInvalidCode
	}
}

func (s *JoinService) redeem(resolved *resolvedCode, subjectID uint64) (bool, error) {
	now := time.Now()

	if resolved.groupType == GroupTypeTeam {
		member := &models.TeamMember{
			TeamID:   resolved.groupID,
			UserID:   subjectID,
			Role:     models.TeamRoleMember,
			JoinedAt: now,
		}
		if resolved.invite != nil {
			return s.inviteRepo.RedeemForTeam(resolved.invite, member)
		}
		return s.teamRepo.AddMember(member)
	}

	member := &models.CommunityMember{
		CommunityID: resolved.groupID,
		UserID:      subjectID,
		Role:        models.CommunityRoleMember,
		JoinedAt:    now,
	}
	if resolved.invite != nil {
		return s.inviteRepo.RedeemForCommunity(resolved.invite, member)
	}
	return s.communityRepo.AddMember(member)
}

// LeaveGroup removes the subject's membership in the given group. Leaving a
// group the subject is not a member of is a no-op.
func (s *JoinService) LeaveGroup(groupType GroupType, groupID, subjectID uint64) error {
	if subjectID == 0 {
		return ErrMissingSubject
	}
	if groupID == 0 {
		return ErrMissingGroup
	}

	switch groupType {
	case GroupTypeTeam:
		if err := s.teamRepo.RemoveMember(groupID, subjectID); err != nil {
			return fmt.Errorf("failed to leave team: %w", err)
		}
	case GroupTypeCommunity:
		if err := s.communityRepo.RemoveMember(groupID, subjectID); err != nil {
			return fmt.Errorf("failed to leave community: %w", err)
		}
	default:
		return ErrMissingGroup
	}
	return nil
}
