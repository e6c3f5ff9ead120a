package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lore-backend/internal/http/response"
	"github.com/yungbote/lore-backend/internal/platform/apierr"
	"github.com/yungbote/lore-backend/internal/services"
)

type MomentHandler struct {
	momentService services.MomentService
}

func NewMomentHandler(momentService services.MomentService) *MomentHandler {
	return &MomentHandler{momentService: momentService}
}

// POST /api/moments
// body: { "text": "..." }
func (mh *MomentHandler) AddMoment(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.New(http.StatusBadRequest, "invalid_request", err))
		return
	}
	if err := mh.momentService.Add(c.Request.Context(), req.Text); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondSuccess(c)
}

// GET /api/moments
func (mh *MomentHandler) ListToday(c *gin.Context) {
	moments, err := mh.momentService.ListToday(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, moments)
}
