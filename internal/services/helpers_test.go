package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/database"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/repository"
)

type serviceTestEnv struct {
	db          *gorm.DB
	communities *CommunityService
	teams       *TeamService
	invites     *InviteService
	join        *JoinService
	roles       *RoleService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.Team{},
		&models.CommunityMember{},
		&models.TeamMember{},
		&models.Invite{},
	)
	require.NoError(t, err)
	require.NoError(t, database.CreateAggregateViews(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// In-memory SQLite gives every connection its own database; a single
	// connection also serializes the concurrency tests deterministically.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	database.SetDB(db)

	communityRepo := repository.NewCommunityRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	inviteRepo := repository.NewInviteRepository(db)

	return serviceTestEnv{
		db:          db,
		communities: NewCommunityService(communityRepo, teamRepo),
		teams:       NewTeamService(teamRepo, communityRepo),
		invites:     NewInviteService(inviteRepo, teamRepo, communityRepo),
		join:        NewJoinService(teamRepo, communityRepo, inviteRepo),
		roles:       NewRoleService(teamRepo, communityRepo),
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCommunity(t *testing.T, env serviceTestEnv, creatorID uint64, name string) *models.Community {
	t.Helper()

	community, err := env.communities.CreateCommunity(CreateCommunityInput{
		Name:      name,
		CreatorID: creatorID,
	})
	require.NoError(t, err)
	return community
}

func createTestTeam(t *testing.T, env serviceTestEnv, creatorID uint64, name string, maxMembers *int) *models.Team {
	t.Helper()

	team, err := env.teams.CreateTeam(CreateTeamInput{
		Name:       name,
		CreatorID:  creatorID,
		MaxMembers: maxMembers,
	})
	require.NoError(t, err)
	return team
}
