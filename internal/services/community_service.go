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
	ErrCommunityNotFound        = errors.New("community not found")
	ErrInvalidCommunityName     = errors.New("community name cannot be empty")
	ErrMissingCaller            = errors.New("caller is required")
	ErrCommunityHasDependents   = errors.New("community still has dependents")
	ErrJoinCodeGenerationFailed = errors.New("failed to generate join code")
	ErrCannotRemoveYourself     = errors.New("cannot remove yourself from the community")
	ErrCommunityMemberNotFound  = errors.New("community member not found")
)

// Blocking reasons surfaced by the deletion guard.
const (
	BlockingReasonTeams           = "has_teams"
	BlockingReasonMembers         = "has_members"
	BlockingReasonTeamsAndMembers = "has_teams_and_members"
)

// DeleteDecision is the deletion guard's structured answer: whether the
// delete may proceed and, if not, which dependent type blocks it.
type DeleteDecision struct {
	Allowed        bool   `json:"allowed"`
	BlockingReason string `json:"blocking_reason,omitempty"`
}

// CommunityService provides business logic for community operations.
type CommunityService struct {
	communityRepo repository.CommunityRepository
	teamRepo      repository.TeamRepository
}

// NewCommunityService creates a new CommunityService.
func NewCommunityService(communityRepo repository.CommunityRepository, teamRepo repository.TeamRepository) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		teamRepo:      teamRepo,
	}
}

// CreateCommunityInput represents parameters to create a new community.
type CreateCommunityInput struct {
	Name        string
	Description string
	JoinCode    *string
	MaxMembers  *int
	CreatorID   uint64
}

// CreateCommunity creates a community and makes the creator its first
// community lead in the same transaction.
func (s *CommunityService) CreateCommunity(input CreateCommunityInput) (*models.Community, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidCommunityName
	}
	if input.CreatorID == 0 {
		return nil, ErrMissingCaller
	}

	joinCode := input.JoinCode
	if joinCode == nil {
		code, err := generateJoinCode(s.teamRepo, s.communityRepo)
		if err != nil {
			return nil, ErrJoinCodeGenerationFailed
		}
		joinCode = &code
	}

	community := &models.Community{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		CreatorID:   input.CreatorID,
		JoinCode:    joinCode,
		MaxMembers:  input.MaxMembers,
	}

	creator := &models.CommunityMember{
		UserID:   input.CreatorID,
		Role:     models.CommunityRoleLead,
		JoinedAt: time.Now(),
	}

	if err := s.communityRepo.Create(community, creator); err != nil {
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	return community, nil
}

// ListCommunitiesForUser returns communities the user belongs to.
func (s *CommunityService) ListCommunitiesForUser(userID uint64) ([]models.CommunityMember, error) {
	memberships, err := s.communityRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	return memberships, nil
}

// GetCommunityWithMembers returns a community and all of its members.
func (s *CommunityService) GetCommunityWithMembers(communityID uint64) (*models.Community, []models.CommunityMember, error) {
	community, err := s.communityRepo.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCommunityNotFound
		}
		return nil, nil, fmt.Errorf("failed to find community: %w", err)
	}

	members, err := s.communityRepo.ListMembers(communityID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list community members: %w", err)
	}

	return community, members, nil
}

// CanDeleteCommunity reads the dependent counts and reports whether the
// community may be deleted, and if not, why.
func (s *CommunityService) CanDeleteCommunity(communityID uint64) (*DeleteDecision, error) {
	if _, err := s.communityRepo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	counts, err := s.communityRepo.DependentCounts(communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to read dependent counts: %w", err)
	}

	return communityDecision(*counts), nil
}

// DeleteCommunity removes a community when it has no dependents. The counts
// are re-checked inside the delete transaction, so the returned decision
// reflects the state the delete actually saw.
func (s *CommunityService) DeleteCommunity(communityID uint64) (*DeleteDecision, error) {
	if _, err := s.communityRepo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	deleted, counts, err := s.communityRepo.DeleteGuarded(communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete community: %w", err)
	}

	decision := communityDecision(counts)
	if !deleted {
		return decision, ErrCommunityHasDependents
	}
	return decision, nil
}

func communityDecision(counts models.CommunityDependentCounts) *DeleteDecision {
	switch {
	case counts.TeamsCount > 0 && counts.MembersCount > 0:
		return &DeleteDecision{BlockingReason: BlockingReasonTeamsAndMembers}
	case counts.TeamsCount > 0:
		return &DeleteDecision{BlockingReason: BlockingReasonTeams}
	case counts.MembersCount > 0:
		return &DeleteDecision{BlockingReason: BlockingReasonMembers}
	default:
		return &DeleteDecision{Allowed: true}
	}
}

// RemoveMember removes a member from the community.
func (s *CommunityService) RemoveMember(communityID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.communityRepo.FindMember(communityID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommunityMemberNotFound
		}
		return fmt.Errorf("failed to find community member: %w", err)
	}

	if err := s.communityRepo.RemoveMember(communityID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
