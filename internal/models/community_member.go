package models

import "time"

type CommunityRole string

const (
	CommunityRoleMember CommunityRole = "member"
	CommunityRoleLead   CommunityRole = "community_lead"
)

type CommunityMember struct {
	CommunityID uint64        `gorm:"primarykey" json:"community_id"`
	UserID      uint64        `gorm:"primarykey" json:"user_id"`
	Role        CommunityRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt    time.Time     `json:"joined_at"`
	AddedBy     *uint64       `json:"added_by,omitempty"`

	// Relations
	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
