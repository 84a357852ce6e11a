package search

import (
	"context"

	"github.com/mooner2666/inke3/internal/dto"
	forumModel "github.com/mooner2666/inke3/internal/model/forum"
	profileModel "github.com/mooner2666/inke3/internal/model/profile"
	workModel "github.com/mooner2666/inke3/internal/model/work"

	"gorm.io/gorm"
)

// SearchRepository 大小写不敏感的子串匹配，只返回命中的 ID
type SearchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// WorkIDs 匹配标题、简介或正文，最新在前
func (r *SearchRepository) WorkIDs(ctx context.Context, q string, limit int) ([]string, error) {
	pattern := dto.LikePattern(q)
	var ids []string
	err := r.db.WithContext(ctx).Model(&workModel.Work{}).
		Where(r.db.Where(like("title"), pattern).
			Or(like("description"), pattern).
			Or(like("content"), pattern)).
		Order("created_at DESC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// PostIDs 匹配标题或内容，最新在前
func (r *SearchRepository) PostIDs(ctx context.Context, q string, limit int) ([]string, error) {
	pattern := dto.LikePattern(q)
	var ids []string
	err := r.db.WithContext(ctx).Model(&forumModel.ForumPost{}).
		Where(r.db.Where(like("title"), pattern).Or(like("content"), pattern)).
		Order("created_at DESC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// ProfileIDs 匹配用户名或昵称
func (r *SearchRepository) ProfileIDs(ctx context.Context, q string, limit int) ([]string, error) {
	pattern := dto.LikePattern(q)
	var ids []string
	err := r.db.WithContext(ctx).Model(&profileModel.Profile{}).
		Where(r.db.Where(like("username"), pattern).Or(like("display_name"), pattern)).
		Order("username ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func like(column string) string {
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}
