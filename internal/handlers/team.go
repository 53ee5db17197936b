package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/dto"
	apierrors "github.com/Zozo-Cat/trading-tracker-sub002/internal/errors"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/middleware"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/services"
)

// TeamHandler coordinates team HTTP handlers.
type TeamHandler struct {
	teamService *services.TeamService
	roleService *services.RoleService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService, roleService *services.RoleService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		roleService: roleService,
	}
}

// CreateTeam creates a new team.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	req.Normalize()

	team, err := h.teamService.CreateTeam(services.CreateTeamInput{
		Name:         req.Name,
		Description:  req.Description,
		CommunityID:  req.CommunityID,
		ParentTeamID: req.ParentTeamID,
		MaxMembers:   req.MaxMembers,
		CreatorID:    userID,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// GetTeam returns a team.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	team, err := h.teamService.GetTeam(teamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// AssignParent re-parents a team.
func (h *TeamHandler) AssignParent(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	if !h.requireManager(c, teamID) {
		return
	}

	type AssignParentRequest struct {
		ParentTeamID *uint64 `json:"parent_team_id"`
	}

	var req AssignParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.AssignParent(teamID, req.ParentTeamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// ListMembers returns all members of a team.
func (h *TeamHandler) ListMembers(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	members, err := h.teamService.ListMembers(teamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	memberDTOs := make([]dto.TeamMemberDTO, len(members))
	for i, m := range members {
		memberDTOs[i] = dto.ToTeamMemberDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"members": memberDTOs})
}

// AddMember directly adds a user to the team. Managers only.
func (h *TeamHandler) AddMember(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	userID, _ := middleware.GetUserID(c)
	if !h.requireManager(c, teamID) {
		return
	}

	type AddMemberRequest struct {
		UserID uint64          `json:"user_id" binding:"required"`
		Role   models.TeamRole `json:"role" binding:"omitempty,oneof=member team_lead"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	added, err := h.teamService.AddMember(teamID, req.UserID, req.Role, userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	if !added {
		c.JSON(http.StatusOK, gin.H{"added": false, "message": "Already a member"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": true})
}

// CanDeleteTeam previews the deletion guard's decision.
func (h *TeamHandler) CanDeleteTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	decision, err := h.teamService.CanDeleteTeam(teamID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// DeleteTeam deletes a team when it has no members.
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	if !h.requireManager(c, teamID) {
		return
	}

	decision, err := h.teamService.DeleteTeam(teamID)
	if err != nil {
		if errors.Is(err, services.ErrTeamHasMembers) {
			apierrors.BadRequestWithDetails(c, err.Error(), decision)
			return
		}
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// requireManager resolves the caller's authority on the team and rejects
// non-managers. It writes the error response itself.
func (h *TeamHandler) requireManager(c *gin.Context, teamID uint64) bool {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return false
	}

	authority, err := h.roleService.ResolveAuthority(userID, teamID)
	if err != nil {
		respondTeamError(c, err)
		return false
	}
	if !authority.IsManager {
		apierrors.Forbidden(c, "Only team managers can perform this action")
		return false
	}
	return true
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTeamName),
		errors.Is(err, services.ErrMissingCaller),
		errors.Is(err, services.ErrMissingSubject),
		errors.Is(err, services.ErrTeamCycle):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrParentTeamNotFound),
		errors.Is(err, services.ErrCommunityNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrGroupFull):
		apierrors.Conflict(c, "group_full")
	default:
		apierrors.InternalError(c, "")
	}
}
