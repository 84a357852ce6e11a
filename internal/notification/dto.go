package notification

import (
	"time"

	"github.com/mooner2666/inke3/internal/dto"
)

// Event 待写入的通知
type Event struct {
	RecipientID string
	ActorID     string
	Type        string
	WorkID      *string
	PostID      *string
	CommentID   *string
}

// NotificationResponse 通知列表项
type NotificationResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
	Actor     *dto.AuthorInfo `json:"actor,omitempty"`
	WorkID    *string         `json:"work_id,omitempty"`
	WorkTitle string          `json:"work_title,omitempty"`
	PostID    *string         `json:"post_id,omitempty"`
	PostTitle string          `json:"post_title,omitempty"`
	CommentID *string         `json:"comment_id,omitempty"`
	Text      string          `json:"text"`
	Link      string          `json:"link"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
