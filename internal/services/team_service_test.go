package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/constants"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
)

func TestTeamService_CreateTeam(t *testing.T) {
	env := setupServiceTestEnv(t)

	creator := createTestUser(t, env.db, "creator")

	team, err := env.teams.CreateTeam(CreateTeamInput{
		Name:      "  Momentum  ",
		CreatorID: creator.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Momentum", team.Name)
	require.Len(t, team.JoinCode, constants.JoinCodeLength)

	member, err := env.teams.teamRepo.FindMember(team.ID, creator.ID)
	require.NoError(t, err)
	require.Equal(t, models.TeamRoleLead, member.Role)
}

func TestTeamService_CreateTeam_Validation(t *testing.T) {
	env := setupServiceTestEnv(t)

	creator := createTestUser(t, env.db, "creator")

	_, err := env.teams.CreateTeam(CreateTeamInput{Name: " ", CreatorID: creator.ID})
	require.ErrorIs(t, err, ErrInvalidTeamName)

	_, err = env.teams.CreateTeam(CreateTeamInput{Name: "No Caller"})
	require.ErrorIs(t, err, ErrMissingCaller)

	missing := uint64(999)
	_, err = env.teams.CreateTeam(CreateTeamInput{
		Name:        "Orphan",
		CommunityID: &missing,
		CreatorID:   creator.ID,
	})
	require.ErrorIs(t, err, ErrCommunityNotFound)

	_, err = env.teams.CreateTeam(CreateTeamInput{
		Name:         "Dangling",
		ParentTeamID: &missing,
		CreatorID:    creator.ID,
	})
	require.ErrorIs(t, err, ErrParentTeamNotFound)
}

func TestTeamService_CreateTeam_UniqueJoinCodes(t *testing.T) {
	env := setupServiceTestEnv(t)

	creator := createTestUser(t, env.db, "creator")

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		team := createTestTeam(t, env, creator.ID, "Team", nil)
		require.False(t, seen[team.JoinCode])
		seen[team.JoinCode] = true
	}
}

func TestTeamService_AssignParent(t *testing.T) {
	env := setupServiceTestEnv(t)

	creator := createTestUser(t, env.db, "creator")
	parent := createTestTeam(t, env, creator.ID, "Parent", nil)
	child := createTestTeam(t, env, creator.ID, "Child", nil)

	updated, err := env.teams.AssignParent(child.ID, &parent.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ParentTeamID)
	require.Equal(t, parent.ID, *updated.ParentTeamID)

	// Detach.
	updated, err = env.teams.AssignParent(child.ID, nil)
	require.NoError(t, err)
	require.Nil(t, updated.ParentTeamID)
}

func TestTeamService_AssignParent_RejectsCycles(t *testing.T) {
	env := setupServiceTestEnv(t)

	creator := createTestUser(t, env.db, "creator")
	a := createTestTeam(t, env, creator.ID, "A", nil)
	b := createTestTeam(t, env, creator.ID, "B", nil)
	c := createTestTeam(t, env, creator.ID, "C", nil)

	_, err := env.teams.AssignParent(b.ID, &a.ID)
	require.NoError(t, err)
	_, err = env.teams.AssignParent(c.ID, &b.ID)
	require.NoError(t, err)

	// Self-parenting and closing the chain are both cycles.
	_, err = env.teams.AssignParent(a.ID, &a.ID)
	require.ErrorIs(t, err, ErrTeamCycle)

	_, err = env.teams.AssignParent(a.ID, &c.ID)
	require.ErrorIs(t, err, ErrTeamCycle)

	// A sibling assignment deeper in the tree is still fine.
	d := createTestTeam(t, env, creator.ID, "D", nil)
	_, err = env.teams.AssignParent(d.ID, &c.ID)
	require.NoError(t, err)
}

func TestTeamService_AddMember(t *testing.T) {
	env := setupServiceTestEnv(t)

	creator := createTestUser(t, env.db, "creator")
	target := createTestUser(t, env.db, "target")
	team := createTestTeam(t, env, creator.ID, "Direct", nil)

	added, err := env.teams.AddMember(team.ID, target.ID, "", creator.ID)
	require.NoError(t, err)
	require.True(t, added)

	member, err := env.teams.teamRepo.FindMember(team.ID, target.ID)
	require.NoError(t, err)
	require.Equal(t, models.TeamRoleMember, member.Role)
	require.NotNil(t, member.AddedBy)
	require.Equal(t, creator.ID, *member.AddedBy)

	// Re-adding is a no-op, not an error.
	added, err = env.teams.AddMember(team.ID, target.ID, "", creator.ID)
	require.NoError(t, err)
	require.False(t, added)
}

func TestTeamService_AddMember_GroupFull(t *testing.T) {
	env := setupServiceTestEnv(t)

	creator := createTestUser(t, env.db, "creator")
	target := createTestUser(t, env.db, "target")
	limit := 1
	team := createTestTeam(t, env, creator.ID, "Full", &limit)

	_, err := env.teams.AddMember(team.ID, target.ID, "", creator.ID)
	require.ErrorIs(t, err, ErrGroupFull)

	var count int64
	require.NoError(t, env.db.Model(&models.TeamMember{}).
		Where("team_id = ?", team.ID).
		Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestTeamService_DeleteTeam(t *testing.T) {
	env := setupServiceTestEnv(t)

	creator := createTestUser(t, env.db, "creator")
	team := createTestTeam(t, env, creator.ID, "Doomed", nil)

	// The creator's membership blocks the delete.
	decision, err := env.teams.CanDeleteTeam(team.ID)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, BlockingReasonMembers, decision.BlockingReason)

	decision, err = env.teams.DeleteTeam(team.ID)
	require.ErrorIs(t, err, ErrTeamHasMembers)
	require.False(t, decision.Allowed)

	require.NoError(t, env.join.LeaveGroup(GroupTypeTeam, team.ID, creator.ID))

	decision, err = env.teams.CanDeleteTeam(team.ID)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = env.teams.DeleteTeam(team.ID)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	_, err = env.teams.GetTeam(team.ID)
	require.ErrorIs(t, err, ErrTeamNotFound)
}
