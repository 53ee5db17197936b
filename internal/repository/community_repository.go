package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
)

var (
	// ErrGroupFull is returned when a membership insert would exceed the
	// group's configured member limit.
	ErrGroupFull = errors.New("repository: group member limit reached")
	// ErrInviteSpent is returned when the conditional use-counter update
	// matches no row, i.e. the invite expired or ran out of uses before the
	// redeeming transaction could commit.
	ErrInviteSpent = errors.New("repository: invite expired or exhausted")
)

// GormCommunityRepository is a GORM implementation of CommunityRepository
type GormCommunityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &GormCommunityRepository{db: db}
}

// Create creates the community and the creator's lead membership atomically.
func (r *GormCommunityRepository) Create(community *models.Community, creator *models.CommunityMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}

		creator.CommunityID = community.ID
		return tx.Create(creator).Error
	})
}

// FindByID finds a community by ID
func (r *GormCommunityRepository) FindByID(id uint64) (*models.Community, error) {
	var community models.Community
	if err := r.db.First(&community, id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// FindByJoinCode finds a community by its direct join code
func (r *GormCommunityRepository) FindByJoinCode(code string) (*models.Community, error) {
	var community models.Community
	if err := r.db.Where("join_code = ?", code).First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// JoinCodeInUse reports whether any community currently holds the code
func (r *GormCommunityRepository) JoinCodeInUse(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Community{}).Where("join_code = ?", code).Count(&count).Error
	return count > 0, err
}

// AddMember performs the idempotent, capacity-guarded membership insert.
// The community row is locked first so concurrent joins against a limited
// community serialize; the composite primary key makes the insert itself a
// no-op when the membership already exists.
func (r *GormCommunityRepository) AddMember(member *models.CommunityMember) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var community models.Community
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&community, member.CommunityID).Error; err != nil {
			return err
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(member)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already a member; leave added=false and commit nothing new.
			return nil
		}

		if community.MaxMembers != nil {
			var count int64
			if err := tx.Model(&models.CommunityMember{}).
				Where("community_id = ?", member.CommunityID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > int64(*community.MaxMembers) {
				return ErrGroupFull
			}
		}

		added = true
		return nil
	})
	return added, err
}

// RemoveMember removes a member from a community
func (r *GormCommunityRepository) RemoveMember(communityID, userID uint64) error {
	return r.db.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&models.CommunityMember{}).Error
}

// FindMember finds a specific community member
func (r *GormCommunityRepository) FindMember(communityID, userID uint64) (*models.CommunityMember, error) {
	var member models.CommunityMember
	if err := r.db.Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembershipsByUserID lists all communities a user is a member of
func (r *GormCommunityRepository) ListMembershipsByUserID(userID uint64) ([]models.CommunityMember, error) {
	var memberships []models.CommunityMember
	if err := r.db.Preload("Community").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of a community
func (r *GormCommunityRepository) ListMembers(communityID uint64) ([]models.CommunityMember, error) {
	var members []models.CommunityMember
	if err := r.db.Preload("User").
		Where("community_id = ?", communityID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// DependentCounts reads the aggregate view row for the community
func (r *GormCommunityRepository) DependentCounts(id uint64) (*models.CommunityDependentCounts, error) {
	var counts models.CommunityDependentCounts
	if err := r.db.Where("community_id = ?", id).First(&counts).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}

// DeleteGuarded re-reads the dependent counts inside the delete transaction
// and only removes the community when both counts are zero. Invites scoped
// to the community are purged before the community row itself.
func (r *GormCommunityRepository) DeleteGuarded(id uint64) (bool, models.CommunityDependentCounts, error) {
	var counts models.CommunityDependentCounts
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("community_id = ?", id).First(&counts).Error; err != nil {
			return err
		}
		if counts.TeamsCount > 0 || counts.MembersCount > 0 {
			return nil
		}

		if err := tx.Where("community_id = ?", id).Delete(&models.Invite{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Community{}, id).Error; err != nil {
			return err
		}

		deleted = true
		return nil
	})
	return deleted, counts, err
}
