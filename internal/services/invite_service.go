package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/constants"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/repository"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/utils"
)

var (
	ErrMissingInviteScope         = errors.New("invite scope is required")
	ErrInvalidInviteTTL           = errors.New("invite ttl must be positive")
	ErrInvalidInviteMaxUses       = errors.New("invite max uses must be positive")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInviteNotFound             = errors.New("invite not found")
)

// InviteService manages the lifecycle of time- and use-limited invites.
type InviteService struct {
	inviteRepo    repository.InviteRepository
	teamRepo      repository.TeamRepository
	communityRepo repository.CommunityRepository
}

// NewInviteService creates a new InviteService.
func NewInviteService(inviteRepo repository.InviteRepository, teamRepo repository.TeamRepository, communityRepo repository.CommunityRepository) *InviteService {
	return &InviteService{
		inviteRepo:    inviteRepo,
		teamRepo:      teamRepo,
		communityRepo: communityRepo,
	}
}

// CreateInviteInput represents parameters to create a new invite.
type CreateInviteInput struct {
	CommunityID *uint64
	TeamID      *uint64
	TTLDays     int
	MaxUses     int
	CreatedBy   uint64
}

// CreateInvite creates an invite scoped to a community and/or team. An
// invite for a community-owned team inherits the community scope.
func (s *InviteService) CreateInvite(input CreateInviteInput) (*models.Invite, error) {
	if input.CommunityID == nil && input.TeamID == nil {
		return nil, ErrMissingInviteScope
	}
	if input.TTLDays <= 0 {
		return nil, ErrInvalidInviteTTL
	}
	if input.MaxUses <= 0 {
		return nil, ErrInvalidInviteMaxUses
	}
	if input.CreatedBy == 0 {
		return nil, ErrMissingCaller
	}

	communityID := input.CommunityID

	if input.TeamID != nil {
		team, err := s.teamRepo.FindByID(*input.TeamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to find team: %w", err)
		}
		if communityID == nil {
			communityID = team.CommunityID
		}
	}

	if communityID != nil {
		if _, err := s.communityRepo.FindByID(*communityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommunityNotFound
			}
			return nil, fmt.Errorf("failed to find community: %w", err)
		}
	}

	code, err := utils.GenerateCode(constants.InviteCodeLength)
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	invite := &models.Invite{
		Code:        code,
		CommunityID: communityID,
		TeamID:      input.TeamID,
		ExpiresAt:   time.Now().Add(time.Duration(input.TTLDays) * 24 * time.Hour),
		MaxUses:     input.MaxUses,
		Uses:        0,
		CreatedBy:   input.CreatedBy,
	}

	if err := s.inviteRepo.Create(invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	return invite, nil
}

// GetInvite retrieves an invite by ID.
func (s *InviteService) GetInvite(id uint64) (*models.Invite, error) {
	invite, err := s.inviteRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}
	return invite, nil
}

// ListInvites lists invites for a scope, newest first.
func (s *InviteService) ListInvites(scope repository.InviteScope, params utils.PaginationParams) ([]models.Invite, int64, error) {
	if scope.CommunityID == nil && scope.TeamID == nil {
		return nil, 0, ErrMissingInviteScope
	}

	invites, total, err := s.inviteRepo.ListByScope(scope, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invites: %w", err)
	}
	return invites, total, nil
}

// DeleteInvite hard-deletes an invite. Deleting an invite that no longer
// exists is not an error.
func (s *InviteService) DeleteInvite(id uint64) error {
	if err := s.inviteRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete invite: %w", err)
	}
	return nil
}
