package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/repository"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrInvalidTeamName    = errors.New("team name cannot be empty")
	ErrTeamHasMembers     = errors.New("team still has members")
	ErrParentTeamNotFound = errors.New("parent team not found")
	ErrTeamCycle          = errors.New("parent assignment would create a cycle")
)

// TeamService provides business logic for team operations.
type TeamService struct {
	teamRepo      repository.TeamRepository
	communityRepo repository.CommunityRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, communityRepo repository.CommunityRepository) *TeamService {
	return &TeamService{
		teamRepo:      teamRepo,
		communityRepo: communityRepo,
	}
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name         string
	Description  string
	CommunityID  *uint64
	ParentTeamID *uint64
	MaxMembers   *int
	CreatorID    uint64
}

// CreateTeam creates a team with a generated join code and makes the creator
// its first team lead in the same transaction.
func (s *TeamService) CreateTeam(input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidTeamName
	}
	if input.CreatorID == 0 {
		return nil, ErrMissingCaller
	}

	if input.CommunityID != nil {
		if _, err := s.communityRepo.FindByID(*input.CommunityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommunityNotFound
			}
			return nil, fmt.Errorf("failed to find community: %w", err)
		}
	}

	if input.ParentTeamID != nil {
		if err := s.checkAncestry(*input.ParentTeamID, 0); err != nil {
			return nil, err
		}
	}

	joinCode, err := generateJoinCode(s.teamRepo, s.communityRepo)
	if err != nil {
		return nil, ErrJoinCodeGenerationFailed
	}

	team := &models.Team{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		CommunityID:  input.CommunityID,
		ParentTeamID: input.ParentTeamID,
		CreatorID:    input.CreatorID,
		JoinCode:     joinCode,
		MaxMembers:   input.MaxMembers,
	}

	creator := &models.TeamMember{
		UserID:   input.CreatorID,
		Role:     models.TeamRoleLead,
		JoinedAt: time.Now(),
	}

	if err := s.teamRepo.Create(team, creator); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// GetTeam retrieves a team by ID.
func (s *TeamService) GetTeam(teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// AssignParent re-parents a team, rejecting assignments that would create a
// cycle in the team hierarchy. Passing nil detaches the team.
func (s *TeamService) AssignParent(teamID uint64, parentTeamID *uint64) (*models.Team, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}

	if parentTeamID != nil {
		if *parentTeamID == teamID {
			return nil, ErrTeamCycle
		}
		if err := s.checkAncestry(*parentTeamID, teamID); err != nil {
			return nil, err
		}
	}

	team.ParentTeamID = parentTeamID
	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return team, nil
}

// checkAncestry walks the parent chain starting at startID. It fails with
// ErrTeamCycle when forbiddenID appears on the chain or the chain already
// loops, and with ErrParentTeamNotFound when the start team is absent.
func (s *TeamService) checkAncestry(startID, forbiddenID uint64) error {
	seen := map[uint64]bool{}
	currentID := startID
	for {
		if currentID == forbiddenID {
			return ErrTeamCycle
		}
		if seen[currentID] {
			return ErrTeamCycle
		}
		seen[currentID] = true

		team, err := s.teamRepo.FindByID(currentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if currentID == startID {
					return ErrParentTeamNotFound
				}
				// Dangling parent reference; the chain ends here.
				return nil
			}
			return fmt.Errorf("failed to walk team ancestry: %w", err)
		}
		if team.ParentTeamID == nil {
			return nil
		}
		currentID = *team.ParentTeamID
	}
}

// ListMembers lists all members of a team.
func (s *TeamService) ListMembers(teamID uint64) ([]models.TeamMember, error) {
	if _, err := s.GetTeam(teamID); err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

// AddMember directly adds a user to a team. The insert is idempotent: adding
// an existing member reports added=false without error. The team's member
// limit still applies.
func (s *TeamService) AddMember(teamID, targetID uint64, role models.TeamRole, addedBy uint64) (bool, error) {
	if targetID == 0 {
		return false, ErrMissingSubject
	}
	if role == "" {
		role = models.TeamRoleMember
	}

	member := &models.TeamMember{
		TeamID:   teamID,
		UserID:   targetID,
		Role:     role,
		JoinedAt: time.Now(),
		AddedBy:  &addedBy,
	}

	added, err := s.teamRepo.AddMember(member)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return false, ErrTeamNotFound
		case errors.Is(err, repository.ErrGroupFull):
			return false, ErrGroupFull
		}
		return false, fmt.Errorf("failed to add team member: %w", err)
	}
	return added, nil
}

// CanDeleteTeam reads the dependent counts and reports whether the team may
// be deleted.
func (s *TeamService) CanDeleteTeam(teamID uint64) (*DeleteDecision, error) {
	if _, err := s.GetTeam(teamID); err != nil {
		return nil, err
	}

	counts, err := s.teamRepo.DependentCounts(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to read dependent counts: %w", err)
	}

	if counts.MembersCount > 0 {
		return &DeleteDecision{BlockingReason: BlockingReasonMembers}, nil
	}
	return &DeleteDecision{Allowed: true}, nil
}

// DeleteTeam removes a team when it has no members, re-checking the count
// inside the delete transaction.
func (s *TeamService) DeleteTeam(teamID uint64) (*DeleteDecision, error) {
	if _, err := s.GetTeam(teamID); err != nil {
		return nil, err
	}

	deleted, _, err := s.teamRepo.DeleteGuarded(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete team: %w", err)
	}
	if !deleted {
		return &DeleteDecision{BlockingReason: BlockingReasonMembers}, ErrTeamHasMembers
	}
	return &DeleteDecision{Allowed: true}, nil
}
