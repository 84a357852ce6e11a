package search

import (
	"github.com/mooner2666/inke3/internal/dto"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service *SearchService
}

func NewSearchHandler(service *SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search GET /search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	result, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// Home GET /home
func (h *SearchHandler) Home(c *gin.Context) {
	result, err := h.service.Home(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// ProfilePage GET /profiles/:id
func (h *SearchHandler) ProfilePage(c *gin.Context) {
	result, err := h.service.ProfilePage(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}
