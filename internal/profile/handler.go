package profile

import (
	"github.com/mooner2666/inke3/internal/dto"
	"github.com/mooner2666/inke3/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service *ProfileService
}

func NewProfileHandler(service *ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// CreateProfile POST /profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.CreateProfile(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.CreatedResponse(c, result)
}

// GetProfileByUsername GET /profiles/by-username/:username
func (h *ProfileHandler) GetProfileByUsername(c *gin.Context) {
	result, err := h.service.GetProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// GetMe GET /profiles/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	result, err := h.service.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// UpdateMe PATCH /profiles/me
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}
