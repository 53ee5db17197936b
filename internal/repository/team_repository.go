package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates the team and the creator's lead membership atomically.
func (r *GormTeamRepository) Create(team *models.Team, creator *models.TeamMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		creator.TeamID = team.ID
		return tx.Create(creator).Error
	})
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByJoinCode finds a team by its direct join code
func (r *GormTeamRepository) FindByJoinCode(code string) (*models.Team, error) {
	var team models.Team
	if err := r.db.Where("join_code = ?", code).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// JoinCodeInUse reports whether any team currently holds the code
func (r *GormTeamRepository) JoinCodeInUse(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Team{}).Where("join_code = ?", code).Count(&count).Error
	return count > 0, err
}

// Update updates a team
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Save(team).Error
}

// AddMember performs the idempotent, capacity-guarded membership insert.
// See GormCommunityRepository.AddMember for the locking rationale.
func (r *GormTeamRepository) AddMember(member *models.TeamMember) (bool, error) {
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

		added = true
		return nil
	})
	return added, err
}

// RemoveMember removes a member from a team
func (r *GormTeamRepository) RemoveMember(teamID, userID uint64) error {
	return r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{}).Error
}

// FindMember finds a specific team member
func (r *GormTeamRepository) FindMember(teamID, userID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a team
func (r *GormTeamRepository) ListMembers(teamID uint64) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.Preload("User").
		Where("team_id = ?", teamID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// DependentCounts reads the aggregate view row for the team
func (r *GormTeamRepository) DependentCounts(id uint64) (*models.TeamDependentCounts, error) {
	var counts models.TeamDependentCounts
	if err := r.db.Where("team_id = ?", id).First(&counts).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}

// DeleteGuarded re-reads the member count inside the delete transaction and
// only removes the team when it is zero.
func (r *GormTeamRepository) DeleteGuarded(id uint64) (bool, int64, error) {
	var counts models.TeamDependentCounts
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).First(&counts).Error; err != nil {
			return err
		}
		if counts.MembersCount > 0 {
			return nil
		}

		if err := tx.Where("team_id = ?", id).Delete(&models.Invite{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Team{}, id).Error; err != nil {
			return err
		}

		deleted = true
		return nil
	})
	return deleted, counts.MembersCount, err
}
