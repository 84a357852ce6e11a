package work

import (
	"time"

	"github.com/mooner2666/inke3/internal/dto"
	workModel "github.com/mooner2666/inke3/internal/model/work"
)

// ChapterInput 创建或编辑作品时提交的章节，编辑时 ID 为空表示新章节
type ChapterInput struct {
	ID         string `json:"id"`
	Title      string `json:"title" binding:"required,max=200"`
	Content    string `json:"content" binding:"required"`
	AuthorNote string `json:"author_note"`
}

// CreateWorkRequest 创建作品请求
type CreateWorkRequest struct {
	Title       string         `json:"title" binding:"required,max=200"`
	Description string         `json:"description" binding:"max=5000"`
	Content     string         `json:"content"`
	Category    string         `json:"category" binding:"omitempty,oneof=original fanfiction"`
	CoverURL    string         `json:"cover_url" binding:"max=500"`
	Tags        []string       `json:"tags" binding:"max=20"`
	Chapters    []ChapterInput `json:"chapters" binding:"required,min=1,dive"`
}

// UpdateWorkRequest 编辑作品请求
// 指针字段为 nil 时不修改；Tags、Chapters 为 nil 时不修改，给出时整体替换
type UpdateWorkRequest struct {
	Title       *string        `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string        `json:"description" binding:"omitempty,max=5000"`
	Content     *string        `json:"content"`
	Category    *string        `json:"category" binding:"omitempty,oneof=original fanfiction"`
	CoverURL    *string        `json:"cover_url" binding:"omitempty,max=500"`
	Tags        []string       `json:"tags" binding:"omitempty,max=20"`
	Chapters    []ChapterInput `json:"chapters" binding:"omitempty,dive"`
}

// WorkFilter 作品列表筛选
type WorkFilter struct {
	Category string
	Tags     []string // 作品必须包含全部标签
	Page     dto.PageQuery
}

// ChapterSummary 章节目录项
type ChapterSummary struct {
	ID            string    `json:"id"`
	ChapterNumber int       `json:"chapter_number"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ChapterResponse 章节详情
type ChapterResponse struct {
	ID            string    `json:"id"`
	WorkID        string    `json:"work_id"`
	WorkTitle     string    `json:"work_title"`
	ChapterNumber int       `json:"chapter_number"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	AuthorNote    string    `json:"author_note"`
	PrevNumber    *int      `json:"prev_number"`
	NextNumber    *int      `json:"next_number"`
	TotalChapters int       `json:"total_chapters"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WorkResponse 作品详情或列表项，列表中不返回正文与目录
type WorkResponse struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Content        string           `json:"content,omitempty"`
	Category       string           `json:"category"`
	CoverURL       string           `json:"cover_url"`
	ViewCount      int64            `json:"view_count"`
	LikesCount     int64            `json:"likes_count"`
	FavoritesCount int64            `json:"favorites_count"`
	Author         *dto.AuthorInfo  `json:"author,omitempty"`
	Tags           []string         `json:"tags"`
	Chapters       []ChapterSummary `json:"chapters,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TagResponse 标签
type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func ToWorkResponse(w *workModel.Work) *WorkResponse {
	return &WorkResponse{
		ID:             w.ID,
		UserID:         w.UserID,
		Title:          w.Title,
		Description:    w.Description,
		Content:        w.Content,
		Category:       w.Category,
		CoverURL:       w.CoverURL,
		ViewCount:      w.ViewCount,
		LikesCount:     w.LikesCount,
		FavoritesCount: w.FavoritesCount,
		Tags:           []string{},
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

func toChapterSummary(c *workModel.Chapter) ChapterSummary {
	return ChapterSummary{
		ID:            c.ID,
		ChapterNumber: c.ChapterNumber,
		Title:         c.Title,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
