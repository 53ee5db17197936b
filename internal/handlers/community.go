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

// CommunityHandler coordinates community HTTP handlers.
type CommunityHandler struct {
	communityService *services.CommunityService
}

// NewCommunityHandler creates a new CommunityHandler.
func NewCommunityHandler(communityService *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
	}
}

// CreateCommunity creates a new community.
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateCommunityRequest struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		JoinCode    *string `json:"join_code"`
		MaxMembers  *int    `json:"max_members"`
	}

	var req CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	community, err := h.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:        req.Name,
		Description: req.Description,
		JoinCode:    req.JoinCode,
		MaxMembers:  req.MaxMembers,
		CreatorID:   userID,
	})
	if err != nil {
		respondCommunityError(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommunityDTO(*community))
}

// ListCommunities returns all communities the caller is a member of.
func (h *CommunityHandler) ListCommunities(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.communityService.ListCommunitiesForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch communities")
		return
	}

	communities := make([]dto.CommunityWithRoleDTO, len(memberships))
	for i, m := range memberships {
		communities[i] = dto.ToCommunityWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"communities": communities,
	})
}

// GetCommunity returns community details including members.
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	// Community is already loaded by RequireCommunityAccess middleware
	communityInterface, _ := c.Get(middleware.ContextKeyCommunity)
	community := communityInterface.(models.Community)

	memberInterface, _ := c.Get(middleware.ContextKeyCommunityMember)
	member := memberInterface.(models.CommunityMember)

	_, members, err := h.communityService.GetCommunityWithMembers(community.ID)
	if err != nil {
		respondCommunityError(c, err, nil)
		return
	}

	memberDTOs := make([]dto.CommunityMemberDTO, len(members))
	for i, m := range members {
		memberDTOs[i] = dto.ToCommunityMemberDTO(m)
	}

	c.JSON(http.StatusOK, dto.CommunityDetailDTO{
		CommunityDTO: dto.ToCommunityDTO(community),
		Members:      memberDTOs,
		YourRole:     member.Role,
	})
}

// CanDeleteCommunity previews the deletion guard's decision.
func (h *CommunityHandler) CanDeleteCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid community ID")
		return
	}

	decision, err := h.communityService.CanDeleteCommunity(communityID)
	if err != nil {
		respondCommunityError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// DeleteCommunity deletes a community when it has no dependents.
func (h *CommunityHandler) DeleteCommunity(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid community ID")
		return
	}

	decision, err := h.communityService.DeleteCommunity(communityID)
	if err != nil {
		respondCommunityError(c, err, decision)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RemoveMember removes a member from the community.
func (h *CommunityHandler) RemoveMember(c *gin.Context) {
	communityInterface, _ := c.Get(middleware.ContextKeyCommunity)
	community := communityInterface.(models.Community)

	userID, _ := middleware.GetUserID(c)

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.communityService.RemoveMember(community.ID, userID, targetID); err != nil {
		respondCommunityError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondCommunityError(c *gin.Context, err error, decision *services.DeleteDecision) {
	switch {
	case errors.Is(err, services.ErrInvalidCommunityName),
		errors.Is(err, services.ErrMissingCaller),
		errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCommunityHasDependents):
		// Blocked deletes carry the blocking reason so the client can render it.
		apierrors.BadRequestWithDetails(c, err.Error(), decision)
	case errors.Is(err, services.ErrCommunityNotFound),
		errors.Is(err, services.ErrCommunityMemberNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
