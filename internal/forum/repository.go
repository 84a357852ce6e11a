package forum

import (
	"context"

	forumModel "github.com/mooner2666/inke3/internal/model/forum"
	"github.com/mooner2666/inke3/internal/notification"

	"gorm.io/gorm"
)

// ForumRepository 论坛仓储层
type ForumRepository struct {
	db *gorm.DB
}

func NewForumRepository(db *gorm.DB) *ForumRepository {
	return &ForumRepository{db: db}
}

// ===== Post =====

func (r *ForumRepository) CreatePost(ctx context.Context, p *forumModel.ForumPost) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ForumRepository) GetPost(ctx context.Context, id string) (*forumModel.ForumPost, error) {
	var p forumModel.ForumPost
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *ForumRepository) UpdatePost(ctx context.Context, p *forumModel.ForumPost) error {
	return r.db.WithContext(ctx).Model(p).Select("title", "content", "category", "updated_at").Updates(p).Error
}

// ListPosts 分页查询，最新在前
func (r *ForumRepository) ListPosts(ctx context.Context, category string, offset, limit int) ([]forumModel.ForumPost, int64, error) {
	var posts []forumModel.ForumPost
	var total int64

	query := r.db.WithContext(ctx).Model(&forumModel.ForumPost{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Order("id").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, total, err
}

func (r *ForumRepository) ListPostsByUser(ctx context.Context, userID string) ([]forumModel.ForumPost, error) {
	var posts []forumModel.ForumPost
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *ForumRepository) FindPostsByIDs(ctx context.Context, ids []string) ([]forumModel.ForumPost, error) {
	var posts []forumModel.ForumPost
	if len(ids) == 0 {
		return posts, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error
	return posts, err
}

func (r *ForumRepository) LatestPosts(ctx context.Context, limit int) ([]forumModel.ForumPost, error) {
	var posts []forumModel.ForumPost
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

// DeletePostCascade 删除帖子、评论与相关通知
func (r *ForumRepository) DeletePostCascade(tx *gorm.DB, postID string) error {
	if err := tx.Where("post_id = ?", postID).Delete(&forumModel.Comment{}).Error; err != nil {
		return err
	}
	if err := notification.DeleteByPost(tx, postID); err != nil {
		return err
	}
	return tx.Where("id = ?", postID).Delete(&forumModel.ForumPost{}).Error
}

type commentCountRow struct {
	PostID string
	Count  int64
}

// CommentCounts 每个帖子未删除的评论数
func (r *ForumRepository) CommentCounts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []commentCountRow
	err := r.db.WithContext(ctx).Model(&forumModel.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ? AND is_deleted = ?", postIDs, false).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

// ===== Comment =====

func (r *ForumRepository) CreateComment(tx *gorm.DB, c *forumModel.Comment) error {
	return tx.Create(c).Error
}

func (r *ForumRepository) GetComment(ctx context.Context, id string) (*forumModel.Comment, error) {
	var c forumModel.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

// ListComments 帖子的全部评论（扁平列表）
func (r *ForumRepository) ListComments(ctx context.Context, postID string) ([]forumModel.Comment, error) {
	var comments []forumModel.Comment
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *ForumRepository) UpdateCommentContent(ctx context.Context, id, content string) error {
	return r.db.WithContext(ctx).Model(&forumModel.Comment{}).Where("id = ?", id).
		Update("content", content).Error
}

// SoftDeleteComment 软删除，保留在树中的位置
func (r *ForumRepository) SoftDeleteComment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&forumModel.Comment{}).Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "content": DeletedCommentContent}).Error
}
