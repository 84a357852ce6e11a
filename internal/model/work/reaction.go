package work

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like 作品点赞表
type Like struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_like_user_work" json:"user_id"`
	WorkID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_like_user_work;index" json:"work_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Favorite 作品收藏表
type Favorite struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_favorite_user_work" json:"user_id"`
	WorkID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_work;index" json:"work_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
