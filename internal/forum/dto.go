package forum

import (
	"time"

	"github.com/mooner2666/inke3/internal/commenttree"
	"github.com/mooner2666/inke3/internal/dto"
	forumModel "github.com/mooner2666/inke3/internal/model/forum"
)

// DeletedCommentContent 已删除评论的占位内容
const DeletedCommentContent = "该评论已被删除"

// CreatePostRequest 发帖请求
type CreatePostRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category" binding:"omitempty,oneof=chat general"`
}

// UpdatePostRequest 编辑帖子请求，nil 字段不修改
type UpdatePostRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content  *string `json:"content" binding:"omitempty,min=1"`
	Category *string `json:"category" binding:"omitempty,oneof=chat general"`
}

// PostResponse 帖子
type PostResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Category     string          `json:"category"`
	Author       *dto.AuthorInfo `json:"author,omitempty"`
	CommentCount int64           `json:"comment_count"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateCommentRequest 发表评论请求，ParentID 为空表示顶级评论
type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required,max=5000"`
	ParentID *string `json:"parent_id"`
}

// UpdateCommentRequest 编辑评论请求
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// CommentResponse 评论，Replies 为按时间升序的子评论
type CommentResponse struct {
	ID        string             `json:"id"`
	PostID    string             `json:"post_id"`
	UserID    string             `json:"user_id,omitempty"`
	ParentID  *string            `json:"parent_id,omitempty"`
	Content   string             `json:"content"`
	IsDeleted bool               `json:"is_deleted"`
	Author    *dto.AuthorInfo    `json:"author,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Replies   []*CommentResponse `json:"replies"`
}

func (c *CommentResponse) TreeID() string           { return c.ID }
func (c *CommentResponse) TreeParentID() *string    { return c.ParentID }
func (c *CommentResponse) TreeCreatedAt() time.Time { return c.CreatedAt }

// CommentsListResponse 帖子的评论树
type CommentsListResponse struct {
	Comments []*CommentResponse `json:"comments"`
	Total    int                `json:"total"`
}

func ToPostResponse(p *forumModel.ForumPost) *PostResponse {
	return &PostResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  p.Category,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToCommentResponse 已删除的评论隐藏内容和作者
func ToCommentResponse(c *forumModel.Comment) *CommentResponse {
	resp := &CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		IsDeleted: c.IsDeleted,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Replies:   []*CommentResponse{},
	}
	if c.IsDeleted {
		resp.Content = DeletedCommentContent
		resp.UserID = ""
	}
	return resp
}

// toThread 把树节点展开为带 Replies 的评论
func toThread(nodes []*commenttree.Node[*CommentResponse]) []*CommentResponse {
	result := make([]*CommentResponse, 0, len(nodes))
	for _, n := range nodes {
		c := n.Item
		c.Replies = toThread(n.Replies)
		result = append(result, c)
	}
	return result
}
