package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	CommunityID  *uint64        `gorm:"index" json:"community_id,omitempty"`
	ParentTeamID *uint64        `gorm:"index" json:"parent_team_id,omitempty"`
	CreatorID    uint64         `gorm:"not null" json:"creator_id"`
	JoinCode     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"join_code"`
	MaxMembers   *int           `json:"max_members,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Community  *Community   `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	ParentTeam *Team        `gorm:"foreignKey:ParentTeamID" json:"parent_team,omitempty"`
	Members    []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}
