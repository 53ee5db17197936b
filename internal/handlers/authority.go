package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Zozo-Cat/trading-tracker-sub002/internal/errors"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/middleware"
	"github.com/Zozo-Cat/trading-tracker-sub002/internal/services"
)

// AuthorityHandler exposes role resolution.
type AuthorityHandler struct {
	roleService *services.RoleService
}

// NewAuthorityHandler creates a new AuthorityHandler.
func NewAuthorityHandler(roleService *services.RoleService) *AuthorityHandler {
	return &AuthorityHandler{
		roleService: roleService,
	}
}

// ResolveAuthority returns the effective authority of a subject on a team.
// The subject defaults to the caller; a different subject can be asked for
// via the subject_id query parameter.
func (h *AuthorityHandler) ResolveAuthority(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	subjectID, exists := middleware.GetUserID(c)
	if v := c.Query("subject_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid subject ID")
			return
		}
		subjectID = id
	} else if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	authority, err := h.roleService.ResolveAuthority(subjectID, teamID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingSubject):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrTeamNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, authority)
}
