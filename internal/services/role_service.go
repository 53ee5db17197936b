package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/repository"
)

// Authority is the effective permission of a subject on a team: the
// team-level role, the role in the team's owning community (nil when the
// subject holds none, or the team is unattached), and the combined manager
// flag.
type Authority struct {
	TeamRole      *models.TeamRole      `json:"team_role"`
	CommunityRole *models.CommunityRole `json:"community_role"`
	IsManager     bool                  `json:"is_manager"`
}

// RoleService resolves multi-level authority. Pure reads, no side effects.
type RoleService struct {
	teamRepo      repository.TeamRepository
	communityRepo repository.CommunityRepository
}

// NewRoleService creates a new RoleService.
func NewRoleService(teamRepo repository.TeamRepository, communityRepo repository.CommunityRepository) *RoleService {
	return &RoleService{
		teamRepo:      teamRepo,
		communityRepo: communityRepo,
	}
}

// ResolveCommunityRole looks up the subject's role in a community. A missing
// membership resolves to nil rather than an error.
func (s *RoleService) ResolveCommunityRole(subjectID, communityID uint64) (*models.CommunityRole, error) {
	if subjectID == 0 {
		return nil, ErrMissingSubject
	}

	if _, err := s.communityRepo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	member, err := s.communityRepo.FindMember(communityID, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find community member: %w", err)
	}
	return &member.Role, nil
}

// ResolveAuthority combines the subject's team-level and community-level
// roles. A community lead is a manager of every team under that community
// even without a team membership row of their own.
func (s *RoleService) ResolveAuthority(subjectID, teamID uint64) (*Authority, error) {
	if subjectID == 0 {
		return nil, ErrMissingSubject
	}

	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	authority := &Authority{}

	teamMember, err := s.teamRepo.FindMember(teamID, subjectID)
	if err == nil {
		authority.TeamRole = &teamMember.Role
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}

	if team.CommunityID != nil {
		communityMember, err := s.communityRepo.FindMember(*team.CommunityID, subjectID)
		if err == nil {
			authority.CommunityRole = &communityMember.Role
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find community member: %w", err)
		}
	}

	authority.IsManager = (authority.TeamRole != nil && *authority.TeamRole == models.TeamRoleLead) ||
		(authority.CommunityRole != nil && *authority.CommunityRole == models.CommunityRoleLead)

	return authority, nil
}
