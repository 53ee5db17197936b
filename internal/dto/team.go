package dto

import (
	"time"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CommunityID  *uint64   `json:"community_id,omitempty"`
	ParentTeamID *uint64   `json:"parent_team_id,omitempty"`
	CreatorID    uint64    `json:"creator_id"`
	JoinCode     string    `json:"join_code"`
	MaxMembers   *int      `json:"max_members,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TeamMemberDTO represents a member in a team
type TeamMemberDTO struct {
	User     UserDTO         `json:"user"`
	Role     models.TeamRole `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

// CreateTeamRequest is the create-team body. Older clients send camelCase
// field names for the reference fields; both spellings are accepted here and
// nowhere else — Normalize collapses them before the request reaches any
// service.
type CreateTeamRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	MaxMembers        *int    `json:"max_members"`
	CommunityID       *uint64 `json:"community_id"`
	CommunityIDAlias  *uint64 `json:"communityId"`
	ParentTeamID      *uint64 `json:"parent_team_id"`
	ParentTeamIDAlias *uint64 `json:"parentTeamId"`
}

// Normalize resolves field-name aliases, preferring the snake_case spelling.
func (r *CreateTeamRequest) Normalize() {
	if r.CommunityID == nil {
		r.CommunityID = r.CommunityIDAlias
	}
	if r.ParentTeamID == nil {
		r.ParentTeamID = r.ParentTeamIDAlias
	}
}

// ToTeamDTO converts a team model to its API representation
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:           team.ID,
		Name:         team.Name,
		Description:  team.Description,
		CommunityID:  team.CommunityID,
		ParentTeamID: team.ParentTeamID,
		CreatorID:    team.CreatorID,
		JoinCode:     team.JoinCode,
		MaxMembers:   team.MaxMembers,
		CreatedAt:    team.CreatedAt,
	}
}

// ToTeamMemberDTO converts a membership to its API representation
func ToTeamMemberDTO(member models.TeamMember) TeamMemberDTO {
	return TeamMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}
