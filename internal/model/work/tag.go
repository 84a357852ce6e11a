package work

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag 标签表
type Tag struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// WorkTag 作品-标签关联表
type WorkTag struct {
	WorkID string `gorm:"type:varchar(36);primaryKey" json:"work_id"`
	TagID  string `gorm:"type:varchar(36);primaryKey;index" json:"tag_id"`
}

func (WorkTag) TableName() string {
	return "work_tags"
}
