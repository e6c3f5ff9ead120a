package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lore-backend/internal/http/response"
	"github.com/yungbote/lore-backend/internal/platform/apierr"
	"github.com/yungbote/lore-backend/internal/services"
)

type RecapHandler struct {
	recapService services.RecapService
}

func NewRecapHandler(recapService services.RecapService) *RecapHandler {
	return &RecapHandler{recapService: recapService}
}

// GET /api/recaps
func (rh *RecapHandler) ListRecaps(c *gin.Context) {
	recaps, err := rh.recapService.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, recaps)
}

// GET /api/recaps/:id
// Responds with null when the recap does not exist for the caller.
func (rh *RecapHandler) GetRecap(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondErr(c, apierr.New(http.StatusBadRequest, "invalid_request",
			fmt.Errorf("%w: id must be a positive integer", apierr.ErrInvalidArgument)))
		return
	}
	recap, err := rh.recapService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if recap == nil {
		response.RespondOK(c, nil)
		return
	}
	response.RespondOK(c, recap)
}
