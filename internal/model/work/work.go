// Package work 作品、章节、标签及点赞收藏模型
package work

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 作品分类
const (
	CategoryOriginal   = "original"
	CategoryFanfiction = "fanfiction"
)

// Work 作品表
type Work struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID         string    `gorm:"type:varchar(64);not null;index;comment:作者ID" json:"user_id"`
	Title          string    `gorm:"type:varchar(200);not null;comment:标题" json:"title"`
	Description    string    `gorm:"type:text;comment:简介" json:"description"`
	Content        string    `gorm:"type:text;comment:正文或前言" json:"content"`
	Category       string    `gorm:"type:varchar(20);not null;default:original;index" json:"category"`
	CoverURL       string    `gorm:"type:varchar(500)" json:"cover_url"`
	ViewCount      int64     `gorm:"not null;default:0" json:"view_count"`
	LikesCount     int64     `gorm:"not null;default:0" json:"likes_count"`
	FavoritesCount int64     `gorm:"not null;default:0" json:"favorites_count"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Work) TableName() string {
	return "works"
}

func (w *Work) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Category == "" {
		w.Category = CategoryOriginal
	}
	return nil
}

// Chapter 章节表，chapter_number 在同一作品内从 1 开始连续编号
type Chapter struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	WorkID        string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_chapter_work_number" json:"work_id"`
	ChapterNumber int       `gorm:"not null;uniqueIndex:idx_chapter_work_number" json:"chapter_number"`
	Title         string    `gorm:"type:varchar(200);not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	AuthorNote    string    `gorm:"type:text" json:"author_note"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Chapter) TableName() string {
	return "chapters"
}

func (c *Chapter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
