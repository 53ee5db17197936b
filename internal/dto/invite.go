package dto

import (
	"time"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
)

// InviteDTO represents an invite in API responses
type InviteDTO struct {
	ID          uint64    `json:"id"`
	Code        string    `json:"code"`
	CommunityID *uint64   `json:"community_id,omitempty"`
	TeamID      *uint64   `json:"team_id,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	MaxUses     int       `json:"max_uses"`
	Uses        int       `json:"uses"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateInviteRequest is the create-invite body
type CreateInviteRequest struct {
	CommunityID *uint64 `json:"community_id"`
	TeamID      *uint64 `json:"team_id"`
	TTLDays     int     `json:"ttl_days" binding:"required"`
	MaxUses     int     `json:"max_uses" binding:"required"`
}

// ToInviteDTO converts an invite model to its API representation
func ToInviteDTO(invite models.Invite) InviteDTO {
	return InviteDTO{
		ID:          invite.ID,
		Code:        invite.Code,
		CommunityID: invite.CommunityID,
		TeamID:      invite.TeamID,
		ExpiresAt:   invite.ExpiresAt,
		MaxUses:     invite.MaxUses,
		Uses:        invite.Uses,
		CreatedAt:   invite.CreatedAt,
	}
}
