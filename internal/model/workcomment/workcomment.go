// Package workcomment 作品评论模型
package workcomment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkComment 作品评论表
// 只有两层：ParentID 为空表示顶级评论，否则总是指向顶级评论；
// ReplyToID 记录被回复的用户
type WorkComment struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	WorkID     string    `gorm:"type:varchar(36);not null;index" json:"work_id"`
	UserID     string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	ParentID   *string   `gorm:"type:varchar(36);index" json:"parent_id,omitempty"`
	ReplyToID  *string   `gorm:"type:varchar(64)" json:"reply_to_id,omitempty"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	LikesCount int64     `gorm:"not null;default:0" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func (WorkComment) TableName() string {
	return "work_comments"
}

func (c *WorkComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// WorkCommentLike 作品评论点赞表
type WorkCommentLike struct {
	CommentID string    `gorm:"type:varchar(36);primaryKey" json:"comment_id"`
	UserID    string    `gorm:"type:varchar(64);primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (WorkCommentLike) TableName() string {
	return "work_comment_likes"
}
