package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/database"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/utils"
)

// GormInviteRepository is a GORM implementation of InviteRepository
type GormInviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &GormInviteRepository{db: db}
}

// Create creates a new invite
func (r *GormInviteRepository) Create(invite *models.Invite) error {
	return r.db.Create(invite).Error
}

// FindByID finds an invite by ID
func (r *GormInviteRepository) FindByID(id uint64) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.First(&invite, id).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// FindByCode finds an invite by code
func (r *GormInviteRepository) FindByCode(code string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListByScope lists invites for a scope, newest first
func (r *GormInviteRepository) ListByScope(scope InviteScope, params utils.PaginationParams) ([]models.Invite, int64, error) {
	query := r.db.Model(&models.Invite{})
	if scope.CommunityID != nil {
		query = query.Where("community_id = ?", *scope.CommunityID)
	}
	if scope.TeamID != nil {
		query = query.Where("team_id = ?", *scope.TeamID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invites []models.Invite
	if err := query.Scopes(database.Paginate(params)).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, 0, err
	}
	return invites, total, nil
}

// Delete hard-deletes an invite. Invites carry no soft-delete column, so a
// plain delete removes the row; deleting an absent ID is not an error.
func (r *GormInviteRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Invite{}, id).Error
}

// RedeemForTeam inserts the team membership and consumes one invite use in a
// single transaction. The team row is locked first so the capacity check
// serializes with concurrent joins; the use counter is decremented through a
// conditional update so two redeemers of the last use cannot both commit.
func (r *GormInviteRepository) RedeemForTeam(invite *models.Invite, member *models.TeamMember) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&team, member.TeamID).Error; err != nil {
			return err
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(member)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already a member: successful no-op, no use consumed.
			return nil
		}

		if team.MaxMembers != nil {
			var count int64
			if err := tx.Model(&models.TeamMember{}).
				Where("team_id = ?", member.TeamID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > int64(*team.MaxMembers) {
				return ErrGroupFull
			}
		}

		if err := consumeUse(tx, invite.ID); err != nil {
			return err
		}

		added = true
		return nil
	})
	return added, err
}

// RedeemForCommunity is the community-scoped variant of RedeemForTeam.
func (r *GormInviteRepository) RedeemForCommunity(invite *models.Invite, member *models.CommunityMember) (bool, error) {
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

		if err := consumeUse(tx, invite.ID); err != nil {
			return err
		}

		added = true
		return nil
	})
	return added, err
}

// consumeUse re-checks the use limit and expiry inside the transaction. A
// pre-flight read is not enough: the conditional update is what actually
// decides the winner when the last use is contested.
func consumeUse(tx *gorm.DB, inviteID uint64) error {
	res := tx.Model(&models.Invite{}).
		Where("id = ? AND uses < max_uses AND expires_at > ?", inviteID, time.Now()).
		UpdateColumn("uses", gorm.Expr("uses + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInviteSpent
	}
	return nil
}
