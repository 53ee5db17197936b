package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
)

func TestRoleService_ResolveAuthority_TeamLead(t *testing.T) {
	env := setupServiceTestEnv(t)

	creator := createTestUser(t, env.db, "creator")
	team := createTestTeam(t, env, creator.ID, "Led", nil)

	authority, err := env.roles.ResolveAuthority(creator.ID, team.ID)
	require.NoError(t, err)
	require.NotNil(t, authority.TeamRole)
	require.Equal(t, models.TeamRoleLead, *authority.TeamRole)
	require.Nil(t, authority.CommunityRole)
	require.True(t, authority.IsManager)
}

func TestRoleService_ResolveAuthority_CommunityLeadWithoutTeamMembership(t *testing.T) {
	env := setupServiceTestEnv(t)

	lead := createTestUser(t, env.db, "lead")
	teamOwner := createTestUser(t, env.db, "owner")
	community := createTestCommunity(t, env, lead.ID, "Org")
	communityID := community.ID

	team, err := env.teams.CreateTeam(CreateTeamInput{
		Name:        "Squad",
		CommunityID: &communityID,
		CreatorID:   teamOwner.ID,
	})
	require.NoError(t, err)

	// The community lead holds no team membership row, yet manages the team.
	authority, err := env.roles.ResolveAuthority(lead.ID, team.ID)
	require.NoError(t, err)
	require.Nil(t, authority.TeamRole)
	require.NotNil(t, authority.CommunityRole)
	require.Equal(t, models.CommunityRoleLead, *authority.CommunityRole)
	require.True(t, authority.IsManager)
}

func TestRoleService_ResolveAuthority_PlainMember(t *testing.T) {
	env := setupServiceTestEnv(t)

	lead := createTestUser(t, env.db, "lead")
	member := createTestUser(t, env.db, "member")
	community := createTestCommunity(t, env, lead.ID, "Org")
	communityID := community.ID

	team, err := env.teams.CreateTeam(CreateTeamInput{
		Name:        "Squad",
		CommunityID: &communityID,
		CreatorID:   lead.ID,
	})
	require.NoError(t, err)

	_, err = env.join.RedeemCode(RedeemCodeInput{Code: team.JoinCode, SubjectID: member.ID})
	require.NoError(t, err)
	_, err = env.join.RedeemCode(RedeemCodeInput{Code: *community.JoinCode, SubjectID: member.ID})
	require.NoError(t, err)

	// Member at both levels, lead at neither.
	authority, err := env.roles.ResolveAuthority(member.ID, team.ID)
	require.NoError(t, err)
	require.NotNil(t, authority.TeamRole)
	require.Equal(t, models.TeamRoleMember, *authority.TeamRole)
	require.NotNil(t, authority.CommunityRole)
	require.Equal(t, models.CommunityRoleMember, *authority.CommunityRole)
	require.False(t, authority.IsManager)
}

func TestRoleService_ResolveAuthority_Outsider(t *testing.T) {
	env := setupServiceTestEnv(t)

	creator := createTestUser(t, env.db, "creator")
	outsider := createTestUser(t, env.db, "outsider")
	team := createTestTeam(t, env, creator.ID, "Closed", nil)

	authority, err := env.roles.ResolveAuthority(outsider.ID, team.ID)
	require.NoError(t, err)
	require.Nil(t, authority.TeamRole)
	require.Nil(t, authority.CommunityRole)
	require.False(t, authority.IsManager)
}

func TestRoleService_ResolveAuthority_Errors(t *testing.T) {
	env := setupServiceTestEnv(t)

	creator := createTestUser(t, env.db, "creator")
	team := createTestTeam(t, env, creator.ID, "Errs", nil)

	_, err := env.roles.ResolveAuthority(0, team.ID)
	require.ErrorIs(t, err, ErrMissingSubject)

	_, err = env.roles.ResolveAuthority(creator.ID, team.ID+100)
	require.ErrorIs(t, err, ErrTeamNotFound)
}
