// Package forum 论坛帖子与评论模型
package forum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 帖子分类
const (
	CategoryChat    = "chat"
	CategoryGeneral = "general"
)

// ForumPost 论坛帖子表
type ForumPost struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);not null;index;comment:作者ID" json:"user_id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"type:varchar(20);not null;default:general;index" json:"category"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ForumPost) TableName() string {
	return "forum_posts"
}

func (p *ForumPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Category == "" {
		p.Category = CategoryGeneral
	}
	return nil
}

// Comment 帖子评论表，支持多级嵌套回复
type Comment struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PostID    string    `gorm:"type:varchar(36);not null;index" json:"post_id"`
	UserID    string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	ParentID  *string   `gorm:"type:varchar(36);index;comment:父评论ID，NULL表示顶级评论" json:"parent_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsDeleted bool      `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate 生成主键并校验内容
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.Content == "" {
		return gorm.ErrInvalidData
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
