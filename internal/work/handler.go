package work

import (
	"errors"
	"strconv"

	"github.com/mooner2666/inke3/internal/dto"
	"github.com/mooner2666/inke3/internal/middleware"
	"github.com/mooner2666/inke3/packages/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WorkHandler struct {
	service     *WorkService
	maxPageSize int
}

func NewWorkHandler(service *WorkService, maxPageSize int) *WorkHandler {
	return &WorkHandler{service: service, maxPageSize: maxPageSize}
}

// ListWorks GET /works?category=&tags=a,b&page=&pageSize=
func (h *WorkHandler) ListWorks(c *gin.Context) {
	filter := WorkFilter{
		Category: c.Query("category"),
		Tags:     dto.SplitCSV(c.Query("tags")),
		Page:     dto.ParsePage(c, h.maxPageSize),
	}

	result, err := h.service.ListWorks(c.Request.Context(), filter)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// CreateWork POST /works
func (h *WorkHandler) CreateWork(c *gin.Context) {
	var req CreateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.CreateWork(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.CreatedResponse(c, result)
}

// GetWork GET /works/:id，同时记录一次阅读
func (h *WorkHandler) GetWork(c *gin.Context) {
	ctx := c.Request.Context()
	workID := c.Param("id")

	viewer := middleware.CurrentUserID(c)
	if viewer == "" {
		viewer = "ip:" + c.ClientIP()
	}
	if _, err := h.service.RecordView(ctx, workID, viewer); err != nil && !errors.Is(err, ErrWorkNotFound) {
		zap.L().Warn("记录阅读失败", zap.String("work_id", workID), zap.Error(err))
	}

	result, err := h.service.GetWork(ctx, workID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// UpdateWork PUT /works/:id
func (h *WorkHandler) UpdateWork(c *gin.Context) {
	var req UpdateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.ValidationErrorResponse(c, err)
		return
	}

	result, err := h.service.UpdateWork(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// DeleteWork DELETE /works/:id
func (h *WorkHandler) DeleteWork(c *gin.Context) {
	if err := h.service.DeleteWork(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, nil)
}

// ListChapters GET /works/:id/chapters
func (h *WorkHandler) ListChapters(c *gin.Context) {
	result, err := h.service.ListChapters(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// GetChapter GET /works/:id/chapters/:number
func (h *WorkHandler) GetChapter(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("无效的章节号"),
		))
		return
	}

	result, err := h.service.GetChapter(c.Request.Context(), c.Param("id"), number)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// ListUserWorks GET /users/:id/works
func (h *WorkHandler) ListUserWorks(c *gin.Context) {
	result, err := h.service.ListWorksByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}

// ListTags GET /tags?q=
func (h *WorkHandler) ListTags(c *gin.Context) {
	var (
		result []TagResponse
		err    error
	)
	if q := c.Query("q"); q != "" {
		result, err = h.service.SearchTags(c.Request.Context(), q)
	} else {
		result, err = h.service.ListTags(c.Request.Context())
	}
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	dto.SuccessResponse(c, result)
}
