package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/constants"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/database"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/dto"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/repository"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/services"
)

type inviteTestEnv struct {
	db               *gorm.DB
	handler          *InviteHandler
	inviteService    *services.InviteService
	teamService      *services.TeamService
	communityService *services.CommunityService
}

func setupInviteTestEnv(t *testing.T) inviteTestEnv {
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

	database.SetDB(db)

	communityRepo := repository.NewCommunityRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	inviteService := services.NewInviteService(inviteRepo, teamRepo, communityRepo)
	roleService := services.NewRoleService(teamRepo, communityRepo)
	handler := NewInviteHandler(inviteService, roleService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return inviteTestEnv{
		db:               db,
		handler:          handler,
		inviteService:    inviteService,
		teamService:      services.NewTeamService(teamRepo, communityRepo),
		communityService: services.NewCommunityService(communityRepo, teamRepo),
	}
}

func inviteTestContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func createInviteTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createInviteBody(t *testing.T, communityID, teamID *uint64) []byte {
	t.Helper()

	body, err := json.Marshal(dto.CreateInviteRequest{
		CommunityID: communityID,
		TeamID:      teamID,
		TTLDays:     7,
		MaxUses:     5,
	})
	require.NoError(t, err)
	return body
}

func TestInviteHandler_CreateInvite_CommunityLead(t *testing.T) {
	env := setupInviteTestEnv(t)

	lead := createInviteTestUser(t, env.db, "lead")

	community, err := env.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:      "Swing Traders",
		CreatorID: lead.ID,
	})
	require.NoError(t, err)

	body := createInviteBody(t, &community.ID, nil)
	c, w := inviteTestContext(http.MethodPost, "/api/invites", body, lead.ID)

	env.handler.CreateInvite(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.InviteDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Code)
	require.Equal(t, community.ID, *response.CommunityID)
}

func TestInviteHandler_CreateInvite_OutsiderForbidden(t *testing.T) {
	env := setupInviteTestEnv(t)

	lead := createInviteTestUser(t, env.db, "lead")
	outsider := createInviteTestUser(t, env.db, "outsider")

	community, err := env.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:      "Closed Circle",
		CreatorID: lead.ID,
	})
	require.NoError(t, err)

	body := createInviteBody(t, &community.ID, nil)
	c, w := inviteTestContext(http.MethodPost, "/api/invites", body, outsider.ID)

	env.handler.CreateInvite(c)

	require.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Invite{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestInviteHandler_CreateInvite_PlainMemberForbidden(t *testing.T) {
	env := setupInviteTestEnv(t)

	lead := createInviteTestUser(t, env.db, "lead")
	member := createInviteTestUser(t, env.db, "member")

	community, err := env.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:      "Members Only",
		CreatorID: lead.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.db.Create(&models.CommunityMember{
		CommunityID: community.ID,
		UserID:      member.ID,
		Role:        models.CommunityRoleMember,
	}).Error)

	body := createInviteBody(t, &community.ID, nil)
	c, w := inviteTestContext(http.MethodPost, "/api/invites", body, member.ID)

	env.handler.CreateInvite(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestInviteHandler_CreateInvite_TeamScopeAuthority(t *testing.T) {
	env := setupInviteTestEnv(t)

	communityLead := createInviteTestUser(t, env.db, "communitylead")
	teamLead := createInviteTestUser(t, env.db, "teamlead")
	member := createInviteTestUser(t, env.db, "member")

	community, err := env.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:      "Parent Org",
		CreatorID: communityLead.ID,
	})
	require.NoError(t, err)

	team, err := env.teamService.CreateTeam(services.CreateTeamInput{
		Name:        "Scalpers",
		CommunityID: &community.ID,
		CreatorID:   teamLead.ID,
	})
	require.NoError(t, err)

	_, err = env.teamService.AddMember(team.ID, member.ID, models.TeamRoleMember, teamLead.ID)
	require.NoError(t, err)

	body := createInviteBody(t, nil, &team.ID)

	// The team lead can mint invites for the team.
	c, w := inviteTestContext(http.MethodPost, "/api/invites", body, teamLead.ID)
	env.handler.CreateInvite(c)
	require.Equal(t, http.StatusCreated, w.Code)

	// So can the owning community's lead, with no team membership row.
	c, w = inviteTestContext(http.MethodPost, "/api/invites", body, communityLead.ID)
	env.handler.CreateInvite(c)
	require.Equal(t, http.StatusCreated, w.Code)

	// A plain team member cannot.
	c, w = inviteTestContext(http.MethodPost, "/api/invites", body, member.ID)
	env.handler.CreateInvite(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestInviteHandler_CreateInvite_MissingScope(t *testing.T) {
	env := setupInviteTestEnv(t)

	user := createInviteTestUser(t, env.db, "user")

	body := createInviteBody(t, nil, nil)
	c, w := inviteTestContext(http.MethodPost, "/api/invites", body, user.ID)

	env.handler.CreateInvite(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInviteHandler_ListInvites_ScopeAuthority(t *testing.T) {
	env := setupInviteTestEnv(t)

	lead := createInviteTestUser(t, env.db, "lead")
	outsider := createInviteTestUser(t, env.db, "outsider")

	community, err := env.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:      "Listable",
		CreatorID: lead.ID,
	})
	require.NoError(t, err)

	_, err = env.inviteService.CreateInvite(services.CreateInviteInput{
		CommunityID: &community.ID,
		TTLDays:     7,
		MaxUses:     3,
		CreatedBy:   lead.ID,
	})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/invites?community_id=%d", community.ID)

	c, w := inviteTestContext(http.MethodGet, url, nil, outsider.ID)
	env.handler.ListInvites(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	c, w = inviteTestContext(http.MethodGet, url, nil, lead.ID)
	env.handler.ListInvites(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Invites []dto.InviteDTO `json:"invites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Invites, 1)
}

func TestInviteHandler_DeleteInvite_ScopeAuthority(t *testing.T) {
	env := setupInviteTestEnv(t)

	lead := createInviteTestUser(t, env.db, "lead")
	outsider := createInviteTestUser(t, env.db, "outsider")

	community, err := env.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:      "Revocable",
		CreatorID: lead.ID,
	})
	require.NoError(t, err)

	invite, err := env.inviteService.CreateInvite(services.CreateInviteInput{
		CommunityID: &community.ID,
		TTLDays:     7,
		MaxUses:     3,
		CreatedBy:   lead.ID,
	})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/invites/%d", invite.ID)

	c, w := inviteTestContext(http.MethodDelete, url, nil, outsider.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", invite.ID)}}
	env.handler.DeleteInvite(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	// The invite survives a forbidden revocation attempt.
	_, err = env.inviteService.GetInvite(invite.ID)
	require.NoError(t, err)

	c, w = inviteTestContext(http.MethodDelete, url, nil, lead.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", invite.ID)}}
	env.handler.DeleteInvite(c)
	require.Equal(t, http.StatusOK, w.Code)

	_, err = env.inviteService.GetInvite(invite.ID)
	require.ErrorIs(t, err, services.ErrInviteNotFound)
}

func TestInviteHandler_DeleteInvite_MissingIsIdempotent(t *testing.T) {
	env := setupInviteTestEnv(t)

	user := createInviteTestUser(t, env.db, "user")

	c, w := inviteTestContext(http.MethodDelete, "/api/invites/9999", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "9999"}}

	env.handler.DeleteInvite(c)

	require.Equal(t, http.StatusOK, w.Code)
}
