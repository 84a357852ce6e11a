package testutils

import (
	"fmt"
	"strings"
	"time"

	forumModel "github.com/mooner2666/inke3/internal/model/forum"
	profileModel "github.com/mooner2666/inke3/internal/model/profile"
	workModel "github.com/mooner2666/inke3/internal/model/work"
	wcModel "github.com/mooner2666/inke3/internal/model/workcomment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func uniqueSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// CreateTestProfile creates a profile with a unique id and username
func CreateTestProfile(db *gorm.DB, opts ...ProfileOption) *profileModel.Profile {
	suffix := uniqueSuffix()
	p := &profileModel.Profile{
		ID:          "user-" + suffix,
		Username:    "user_" + suffix,
		DisplayName: "Test User " + suffix,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := db.Create(p).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test profile: %v", err))
	}
	return p
}

// ProfileOption configures test profile
type ProfileOption func(*profileModel.Profile)

func WithUsername(username string) ProfileOption {
	return func(p *profileModel.Profile) {
		p.Username = username
	}
}

func WithDisplayName(name string) ProfileOption {
	return func(p *profileModel.Profile) {
		p.DisplayName = name
	}
}

// CreateTestWork creates a work owned by userID with a single chapter
func CreateTestWork(db *gorm.DB, userID string, opts ...WorkOption) *workModel.Work {
	w := &workModel.Work{
		UserID:      userID,
		Title:       "Test Work " + uniqueSuffix(),
		Description: "Test work description",
		Content:     "Test work content",
		Category:    workModel.CategoryOriginal,
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := db.Create(w).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test work: %v", err))
	}

	chapter := &workModel.Chapter{
		WorkID:        w.ID,
		ChapterNumber: 1,
		Title:         "Chapter 1",
		Content:       "Once upon a time",
	}
	if err := db.Create(chapter).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test chapter: %v", err))
	}
	return w
}

// WorkOption configures test work
type WorkOption func(*workModel.Work)

func WithWorkTitle(title string) WorkOption {
	return func(w *workModel.Work) {
		w.Title = title
	}
}

func WithCategory(category string) WorkOption {
	return func(w *workModel.Work) {
		w.Category = category
	}
}

func WithWorkCreatedAt(t time.Time) WorkOption {
	return func(w *workModel.Work) {
		w.CreatedAt = t
		w.UpdatedAt = t
	}
}

// CreateTestPost creates a forum post
func CreateTestPost(db *gorm.DB, userID string, opts ...PostOption) *forumModel.ForumPost {
	p := &forumModel.ForumPost{
		UserID:   userID,
		Title:    "Test Post " + uniqueSuffix(),
		Content:  "Test post content",
		Category: forumModel.CategoryGeneral,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := db.Create(p).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test post: %v", err))
	}
	return p
}

// PostOption configures test post
type PostOption func(*forumModel.ForumPost)

func WithPostTitle(title string) PostOption {
	return func(p *forumModel.ForumPost) {
		p.Title = title
	}
}

func WithPostCategory(category string) PostOption {
	return func(p *forumModel.ForumPost) {
		p.Category = category
	}
}

func WithPostCreatedAt(t time.Time) PostOption {
	return func(p *forumModel.ForumPost) {
		p.CreatedAt = t
		p.UpdatedAt = t
	}
}

// CreateTestComment creates a forum comment; parentID may be nil
func CreateTestComment(db *gorm.DB, postID, userID string, parentID *string, createdAt time.Time) *forumModel.Comment {
	c := &forumModel.Comment{
		PostID:    postID,
		UserID:    userID,
		ParentID:  parentID,
		Content:   "comment " + uniqueSuffix(),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := db.Create(c).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test comment: %v", err))
	}
	return c
}

// CreateTestWorkComment creates a work comment; parentID may be nil
func CreateTestWorkComment(db *gorm.DB, workID, userID string, parentID *string, createdAt time.Time) *wcModel.WorkComment {
	c := &wcModel.WorkComment{
		WorkID:    workID,
		UserID:    userID,
		ParentID:  parentID,
		Content:   "work comment " + uniqueSuffix(),
		CreatedAt: createdAt,
	}
	if err := db.Create(c).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test work comment: %v", err))
	}
	return c
}
