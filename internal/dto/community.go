package dto

import (
	"time"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
)

// CommunityDTO represents a community in API responses
type CommunityDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatorID   uint64    `json:"creator_id"`
	JoinCode    *string   `json:"join_code,omitempty"`
	MaxMembers  *int      `json:"max_members,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommunityWithRoleDTO represents a community with the caller's role
type CommunityWithRoleDTO struct {
	CommunityDTO
	Role models.CommunityRole `json:"role"`
}

// CommunityMemberDTO represents a member in a community
type CommunityMemberDTO struct {
	User     UserDTO              `json:"user"`
	Role     models.CommunityRole `json:"role"`
	JoinedAt time.Time            `json:"joined_at"`
}

// CommunityDetailDTO represents detailed community information
type CommunityDetailDTO struct {
	CommunityDTO
	Members  []CommunityMemberDTO `json:"members"`
	YourRole models.CommunityRole `json:"your_role"`
}

// ToCommunityDTO converts a community model to its API representation
func ToCommunityDTO(community models.Community) CommunityDTO {
	return CommunityDTO{
		ID:          community.ID,
		Name:        community.Name,
		Description: community.Description,
		CreatorID:   community.CreatorID,
		JoinCode:    community.JoinCode,
		MaxMembers:  community.MaxMembers,
		CreatedAt:   community.CreatedAt,
	}
}

// ToCommunityWithRoleDTO converts a membership to a community-with-role DTO
func ToCommunityWithRoleDTO(member models.CommunityMember) CommunityWithRoleDTO {
	return CommunityWithRoleDTO{
		CommunityDTO: ToCommunityDTO(member.Community),
		Role:         member.Role,
	}
}

// ToCommunityMemberDTO converts a membership to its API representation
func ToCommunityMemberDTO(member models.CommunityMember) CommunityMemberDTO {
	return CommunityMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}
