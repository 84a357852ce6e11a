package workcomment

import (
	"time"

	"github.com/mooner2666/inke3/internal/commenttree"
	"github.com/mooner2666/inke3/internal/dto"
	wcModel "github.com/mooner2666/inke3/internal/model/workcomment"
)

// CreateWorkCommentRequest 发表作品评论，ReplyToCommentID 可以是任意一条评论
type CreateWorkCommentRequest struct {
	Content          string  `json:"content" binding:"required,max=2000"`
	ReplyToCommentID *string `json:"reply_to_comment_id"`
}

// WorkCommentResponse 作品评论；顶级评论的 Replies 为全部回复
type WorkCommentResponse struct {
	ID          string                 `json:"id"`
	WorkID      string                 `json:"work_id"`
	UserID      string                 `json:"user_id"`
	ParentID    *string                `json:"parent_id"`
	ReplyToID   *string                `json:"reply_to_id"`
	Content     string                 `json:"content"`
	LikesCount  int64                  `json:"likes_count"`
	LikedByMe   bool                   `json:"liked_by_me"`
	Author      *dto.AuthorInfo        `json:"author"`
	ReplyToUser *dto.AuthorInfo        `json:"reply_to_user"`
	CreatedAt   time.Time              `json:"created_at"`
	Replies     []*WorkCommentResponse `json:"replies,omitempty"`
}

func (c *WorkCommentResponse) TreeID() string           { return c.ID }
func (c *WorkCommentResponse) TreeParentID() *string    { return c.ParentID }
func (c *WorkCommentResponse) TreeCreatedAt() time.Time { return c.CreatedAt }

// WorkCommentsResponse 作品评论区
type WorkCommentsResponse struct {
	Comments []*WorkCommentResponse `json:"comments"`
	Total    int                    `json:"total"`
}

// LikeStatusResponse 评论点赞状态
type LikeStatusResponse struct {
	CommentID  string `json:"comment_id"`
	Liked      bool   `json:"liked"`
	LikesCount int64  `json:"likes_count"`
}

func toResponse(c *wcModel.WorkComment) *WorkCommentResponse {
	return &WorkCommentResponse{
		ID:         c.ID,
		WorkID:     c.WorkID,
		UserID:     c.UserID,
		ParentID:   c.ParentID,
		ReplyToID:  c.ReplyToID,
		Content:    c.Content,
		LikesCount: c.LikesCount,
		CreatedAt:  c.CreatedAt,
	}
}

// toThreads 顶级评论最新在前，回复按时间升序
func toThreads(roots []*commenttree.Node[*WorkCommentResponse]) []*WorkCommentResponse {
	result := make([]*WorkCommentResponse, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		top := roots[i].Item
		top.Replies = make([]*WorkCommentResponse, 0, len(roots[i].Replies))
		for _, r := range roots[i].Replies {
			top.Replies = append(top.Replies, r.Item)
		}
		result = append(result, top)
	}
	return result
}
