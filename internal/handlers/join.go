package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/dto"
	apierrors "github.com/Zozo-Cat/trading-tracker-sub002/internal/errors"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/middleware"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/services"
)

// JoinHandler coordinates code redemption and leave HTTP handlers.
type JoinHandler struct {
	joinService *services.JoinService
}

// NewJoinHandler creates a new JoinHandler.
func NewJoinHandler(joinService *services.JoinService) *JoinHandler {
	return &JoinHandler{
		joinService: joinService,
	}
}

// RedeemCode converts a join or invite code into a membership.
func (h *JoinHandler) RedeemCode(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.RedeemCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.joinService.RedeemCode(services.RedeemCodeInput{
		Code:      req.Code,
		GroupType: req.GroupType,
		GroupID:   req.GroupID,
		SubjectID: userID,
	})
	if err != nil {
		respondJoinError(c, err)
		return
	}

	message := "Joined"
	if !result.Added {
		message = "Already a member"
	}

	c.JSON(http.StatusOK, dto.RedeemCodeResponse{
		GroupType: result.GroupType,
		GroupID:   result.GroupID,
		Added:     result.Added,
		Message:   message,
	})
}

// LeaveGroup removes the caller from a team or community.
func (h *JoinHandler) LeaveGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.LeaveGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.joinService.LeaveGroup(req.GroupType, req.GroupID, userID); err != nil {
		respondJoinError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondJoinError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingCode),
		errors.Is(err, services.ErrMissingSubject),
		errors.Is(err, services.ErrMissingGroup),
		errors.Is(err, services.ErrCodeTargetMismatch):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCode):
		apierrors.NotFound(c, "invalid_code")
	case errors.Is(err, services.ErrGroupFull):
		apierrors.Conflict(c, "group_full")
	case errors.Is(err, services.ErrInviteSpent):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
