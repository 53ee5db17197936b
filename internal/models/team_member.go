package models

import "time"

type TeamRole string

const (
	TeamRoleMember TeamRole = "member"
	TeamRoleLead   TeamRole = "team_lead"
)

type TeamMember struct {
	TeamID   uint64    `gorm:"primarykey" json:"team_id"`
	UserID   uint64    `gorm:"primarykey" json:"user_id"`
	Role     TeamRole  `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	AddedBy  *uint64   `json:"added_by,omitempty"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
