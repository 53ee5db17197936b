package models

import "time"

// Invite is a time- and use-limited redeemable code scoped to a community
// or a team. Invites are hard-deleted on revoke; the use counter is the only
// field that ever changes after creation.
type Invite struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Code        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	CommunityID *uint64   `gorm:"index" json:"community_id,omitempty"`
	TeamID      *uint64   `gorm:"index" json:"team_id,omitempty"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	MaxUses     int       `gorm:"not null;default:1" json:"max_uses"`
	Uses        int       `gorm:"not null;default:0" json:"uses"`
	CreatedBy   uint64    `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsExpired reports whether the invite has passed its expiry.
func (i Invite) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// IsExhausted reports whether every use has been consumed.
func (i Invite) IsExhausted() bool {
	return i.Uses >= i.MaxUses
}
