package models

import (
	"time"

	"gorm.io/gorm"
)

type Community struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatorID   uint64         `gorm:"not null" json:"creator_id"`
	JoinCode    *string        `gorm:"type:varchar(50);uniqueIndex" json:"join_code,omitempty"`
	MaxMembers  *int           `json:"max_members,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Teams   []Team            `gorm:"foreignKey:CommunityID" json:"teams,omitempty"`
	Members []CommunityMember `gorm:"foreignKey:CommunityID" json:"members,omitempty"`
}
