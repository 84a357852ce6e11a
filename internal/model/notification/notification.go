// Package notification 通知模型
package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 通知类型
const (
	TypeLike     = "like"
	TypeFavorite = "favorite"
	TypeComment  = "comment"
	TypeReply    = "reply"
)

// Notification 通知表，UserID 为接收者，ActorID 为触发者
type Notification struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);not null;index:idx_notification_user_read" json:"user_id"`
	ActorID   string    `gorm:"type:varchar(64);not null" json:"actor_id"`
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`
	WorkID    *string   `gorm:"type:varchar(36);index" json:"work_id,omitempty"`
	PostID    *string   `gorm:"type:varchar(36);index" json:"post_id,omitempty"`
	CommentID *string   `gorm:"type:varchar(36)" json:"comment_id,omitempty"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_notification_user_read" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
