package repository

import (
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// CommunityRepository defines the interface for community data access
type CommunityRepository interface {
	// Create creates a community and the creator's lead membership within a
	// single transaction.
	Create(community *models.Community, creator *models.CommunityMember) error

	// FindByID finds a community by ID
	FindByID(id uint64) (*models.Community, error)

	// FindByJoinCode finds a community by its direct join code
	FindByJoinCode(code string) (*models.Community, error)

	// JoinCodeInUse reports whether any community currently holds the code
	JoinCodeInUse(code string) (bool, error)

	// AddMember inserts a membership row if absent. It reports whether a row
	// was actually inserted; re-adding an existing member is a no-op. Inserts
	// past a configured member limit fail with ErrGroupFull.
	AddMember(member *models.CommunityMember) (bool, error)

	// RemoveMember removes a member from a community
	RemoveMember(communityID, userID uint64) error

	// FindMember finds a specific community member
	FindMember(communityID, userID uint64) (*models.CommunityMember, error)

	// ListMembershipsByUserID lists all communities a user is a member of
	ListMembershipsByUserID(userID uint64) ([]models.CommunityMember, error)

	// ListMembers lists all members of a community
	ListMembers(communityID uint64) ([]models.CommunityMember, error)

	// DependentCounts reads the aggregate dependent counts for a community
	DependentCounts(id uint64) (*models.CommunityDependentCounts, error)

	// DeleteGuarded deletes the community only if it has no dependents,
	// re-checking the counts inside the delete transaction. Scoped invites
	// are purged before the community row. It reports whether the delete
	// happened together with the counts that were observed.
	DeleteGuarded(id uint64) (bool, models.CommunityDependentCounts, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create creates a team and the creator's lead membership within a
	// single transaction.
	Create(team *models.Team, creator *models.TeamMember) error

	// FindByID finds a team by ID
	FindByID(id uint64) (*models.Team, error)

	// FindByJoinCode finds a team by its direct join code
	FindByJoinCode(code string) (*models.Team, error)

	// JoinCodeInUse reports whether any team currently holds the code
	JoinCodeInUse(code string) (bool, error)

	// Update updates a team
	Update(team *models.Team) error

	// AddMember inserts a membership row if absent, enforcing the member
	// limit inside the same transaction. See CommunityRepository.AddMember.
	AddMember(member *models.TeamMember) (bool, error)

	// RemoveMember removes a member from a team
	RemoveMember(teamID, userID uint64) error

	// FindMember finds a specific team member
	FindMember(teamID, userID uint64) (*models.TeamMember, error)

	// ListMembers lists all members of a team
	ListMembers(teamID uint64) ([]models.TeamMember, error)

	// DependentCounts reads the aggregate dependent counts for a team
	DependentCounts(id uint64) (*models.TeamDependentCounts, error)

	// DeleteGuarded deletes the team only if it has no members, re-checking
	// the count inside the delete transaction.
	DeleteGuarded(id uint64) (bool, int64, error)
}

// InviteScope identifies the community and/or team an invite belongs to.
type InviteScope struct {
	CommunityID *uint64
	TeamID      *uint64
}

// InviteRepository defines the interface for invite data access
type InviteRepository interface {
	// Create creates a new invite
	Create(invite *models.Invite) error

	// FindByID finds an invite by ID
	FindByID(id uint64) (*models.Invite, error)

	// FindByCode finds an invite by code
	FindByCode(code string) (*models.Invite, error)

	// ListByScope lists invites for a scope, newest first
	ListByScope(scope InviteScope, params utils.PaginationParams) ([]models.Invite, int64, error)

	// Delete hard-deletes an invite. Deleting an absent ID is not an error.
	Delete(id uint64) error

	// RedeemForTeam atomically inserts the membership and consumes one use
	// of the invite. The use counter is only consumed when a row is actually
	// inserted; redeeming an invite for a group the subject already belongs
	// to is a successful no-op. The expiry and use limit are re-checked
	// inside the transaction via a conditional update; losers of a
	// last-use race fail with ErrInviteSpent and insert nothing.
	RedeemForTeam(invite *models.Invite, member *models.TeamMember) (bool, error)

	// RedeemForCommunity is RedeemForTeam for community-scoped invites.
	RedeemForCommunity(invite *models.Invite, member *models.CommunityMember) (bool, error)
}
