package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lore-backend/internal/http/response"
	"github.com/yungbote/lore-backend/internal/platform/apierr"
	"github.com/yungbote/lore-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/user/preferences
func (uh *UserHandler) GetPreferences(c *gin.Context) {
	meta, err := uh.userService.GetPreferences(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, meta)
}

// PATCH /api/user/art-style
// body: { "style": "classical painting" | "ethereal animated fairy" | "childrens book" | "3d animated style" }
func (uh *UserHandler) UpdateArtStyle(c *gin.Context) {
	var req struct {
		Style string `json:"style"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.New(http.StatusBadRequest, "invalid_request", err))
		return
	}
	if err := uh.userService.UpdateArtStyle(c.Request.Context(), req.Style); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondSuccess(c)
}
