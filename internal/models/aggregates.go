package models

// CommunityDependentCounts maps the community_dependent_counts view: the
// number of live teams and members still attached to a community. Read-only,
// consumed by the deletion guard.
type CommunityDependentCounts struct {
	CommunityID  uint64 `gorm:"primarykey" json:"community_id"`
	TeamsCount   int64  `json:"teams_count"`
	MembersCount int64  `json:"members_count"`
}

func (CommunityDependentCounts) TableName() string {
	return "community_dependent_counts"
}

// TeamDependentCounts maps the team_dependent_counts view.
type TeamDependentCounts struct {
	TeamID       uint64 `gorm:"primarykey" json:"team_id"`
	MembersCount int64  `json:"members_count"`
}

func (TeamDependentCounts) TableName() string {
	return "team_dependent_counts"
}
