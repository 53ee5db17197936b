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
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/repository"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/services"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/utils"
)

// InviteHandler coordinates invite HTTP handlers.
type InviteHandler struct {
	inviteService *services.InviteService
	roleService   *services.RoleService
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(inviteService *services.InviteService, roleService *services.RoleService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		roleService:   roleService,
	}
}

// CreateInvite creates a new scoped invite. Managers of the scope only.
func (h *InviteHandler) CreateInvite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.CommunityID == nil && req.TeamID == nil {
		apierrors.BadRequest(c, services.ErrMissingInviteScope.Error())
		return
	}
	if !h.requireScopeAuthority(c, req.CommunityID, req.TeamID) {
		return
	}

	invite, err := h.inviteService.CreateInvite(services.CreateInviteInput{
		CommunityID: req.CommunityID,
		TeamID:      req.TeamID,
		TTLDays:     req.TTLDays,
		MaxUses:     req.MaxUses,
		CreatedBy:   userID,
	})
	if err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInviteDTO(*invite))
}

// ListInvites lists invites for a scope, newest first. Managers of the scope
// only.
func (h *InviteHandler) ListInvites(c *gin.Context) {
	scope := repository.InviteScope{}
	if v := c.Query("community_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid community ID")
			return
		}
		scope.CommunityID = &id
	}
	if v := c.Query("team_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team ID")
			return
		}
		scope.TeamID = &id
	}

	if scope.CommunityID == nil && scope.TeamID == nil {
		apierrors.BadRequest(c, services.ErrMissingInviteScope.Error())
		return
	}
	if !h.requireScopeAuthority(c, scope.CommunityID, scope.TeamID) {
		return
	}

	params := utils.GetPaginationParams(c)

	invites, total, err := h.inviteService.ListInvites(scope, params)
	if err != nil {
		respondInviteError(c, err)
		return
	}

	inviteDTOs := make([]dto.InviteDTO, len(invites))
	for i, invite := range invites {
		inviteDTOs[i] = dto.ToInviteDTO(invite)
	}

	c.JSON(http.StatusOK, gin.H{
		"invites": inviteDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// DeleteInvite revokes an invite. Managers of the invite's scope only;
// revoking an invite that no longer exists stays idempotent.
func (h *InviteHandler) DeleteInvite(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid invite ID")
		return
	}

	invite, err := h.inviteService.GetInvite(id)
	if err != nil {
		if errors.Is(err, services.ErrInviteNotFound) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		respondInviteError(c, err)
		return
	}

	if !h.requireScopeAuthority(c, invite.CommunityID, invite.TeamID) {
		return
	}

	if err := h.inviteService.DeleteInvite(id); err != nil {
		respondInviteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// requireScopeAuthority rejects callers without management authority over the
// invite scope: a team manager for team scopes, a community lead for community
// scopes. It writes the error response itself and returns false on rejection.
func (h *InviteHandler) requireScopeAuthority(c *gin.Context, communityID, teamID *uint64) bool {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return false
	}

	if teamID != nil {
		authority, err := h.roleService.ResolveAuthority(userID, *teamID)
		if err != nil {
			respondInviteError(c, err)
			return false
		}
		if authority.IsManager {
			return true
		}
	}

	if communityID != nil {
		role, err := h.roleService.ResolveCommunityRole(userID, *communityID)
		if err != nil {
			respondInviteError(c, err)
			return false
		}
		if role != nil && *role == models.CommunityRoleLead {
			return true
		}
	}

	apierrors.Forbidden(c, "Only group managers can manage invites")
	return false
}

func respondInviteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingInviteScope),
		errors.Is(err, services.ErrInvalidInviteTTL),
		errors.Is(err, services.ErrInvalidInviteMaxUses),
		errors.Is(err, services.ErrMissingCaller),
		errors.Is(err, services.ErrMissingSubject):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrCommunityNotFound),
		errors.Is(err, services.ErrInviteNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
