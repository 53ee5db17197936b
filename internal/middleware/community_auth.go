package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/database"
	apierrors "github.com/Zozo-Cat/trading-tracker-sub002/internal/errors"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/models"
)

const (
	ContextKeyCommunity       = "community"
	ContextKeyCommunityMember = "community_member"
)

// RequireCommunityAccess checks if the user is a member of the community
func RequireCommunityAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid community ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var community models.Community
		if err := database.GetDB().First(&community, communityID).Error; err != nil {
			apierrors.NotFound(c, "Community not found")
			c.Abort()
			return
		}

		var member models.CommunityMember
		err = database.GetDB().
			Where("community_id = ? AND user_id = ?", communityID, userID).
			First(&member).Error
		if err != nil {
			// Return 404 instead of 403 to avoid leaking community existence
			apierrors.NotFound(c, "Community not found")
			c.Abort()
			return
		}

		c.Set(ContextKeyCommunity, community)
		c.Set(ContextKeyCommunityMember, member)
		c.Next()
	}
}

// RequireCommunityLead checks if the user is a lead of the community
func RequireCommunityLead() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberInterface, exists := c.Get(ContextKeyCommunityMember)
		if !exists {
			apierrors.Forbidden(c, "Community access required")
			c.Abort()
			return
		}

		member, ok := memberInterface.(models.CommunityMember)
		if !ok {
			apierrors.InternalError(c, "Invalid community member data")
			c.Abort()
			return
		}

		if member.Role != models.CommunityRoleLead {
			apierrors.Forbidden(c, "Only community leads can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
