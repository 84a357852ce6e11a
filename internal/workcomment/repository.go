package workcomment

import (
	"context"

	workModel "github.com/mooner2666/inke3/internal/model/work"
	wcModel "github.com/mooner2666/inke3/internal/model/workcomment"
	"github.com/mooner2666/inke3/internal/notification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkCommentRepository 作品评论仓储层
type WorkCommentRepository struct {
	db *gorm.DB
}

func NewWorkCommentRepository(db *gorm.DB) *WorkCommentRepository {
	return &WorkCommentRepository{db: db}
}

func (r *WorkCommentRepository) GetWork(ctx context.Context, workID string) (*workModel.Work, error) {
	var w workModel.Work
	err := r.db.WithContext(ctx).Select("id", "user_id", "title").Where("id = ?", workID).First(&w).Error
	return &w, err
}

func (r *WorkCommentRepository) Create(tx *gorm.DB, c *wcModel.WorkComment) error {
	return tx.Create(c).Error
}

func (r *WorkCommentRepository) Get(ctx context.Context, id string) (*wcModel.WorkComment, error) {
	var c wcModel.WorkComment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

// ListByWork 作品下全部评论，按时间升序
func (r *WorkCommentRepository) ListByWork(ctx context.Context, workID string) ([]wcModel.WorkComment, error) {
	var comments []wcModel.WorkComment
	err := r.db.WithContext(ctx).Where("work_id = ?", workID).
		Order("created_at ASC").Order("id").
		Find(&comments).Error
	return comments, err
}

// LikedIDs 用户点赞过的评论
func (r *WorkCommentRepository) LikedIDs(ctx context.Context, userID string, commentIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if userID == "" || len(commentIDs) == 0 {
		return liked, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&wcModel.WorkCommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *WorkCommentRepository) ReplyIDs(tx *gorm.DB, parentID string) ([]string, error) {
	var ids []string
	err := tx.Model(&wcModel.WorkComment{}).Where("parent_id = ?", parentID).Pluck("id", &ids).Error
	return ids, err
}

// DeleteCascade 删除评论及其点赞和通知
func (r *WorkCommentRepository) DeleteCascade(tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("comment_id IN ?", ids).Delete(&wcModel.WorkCommentLike{}).Error; err != nil {
		return err
	}
	if err := notification.DeleteByComments(tx, ids); err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&wcModel.WorkComment{}).Error
}

// InsertLike 幂等插入，返回是否真正插入
func (r *WorkCommentRepository) InsertLike(tx *gorm.DB, commentID, userID string) (bool, error) {
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&wcModel.WorkCommentLike{CommentID: commentID, UserID: userID})
	return result.RowsAffected > 0, result.Error
}

func (r *WorkCommentRepository) RemoveLike(tx *gorm.DB, commentID, userID string) (bool, error) {
	result := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&wcModel.WorkCommentLike{})
	return result.RowsAffected > 0, result.Error
}

// AdjustLikes 原子增减点赞数，不会减到负数
func (r *WorkCommentRepository) AdjustLikes(tx *gorm.DB, commentID string, delta int) error {
	expr := gorm.Expr("likes_count + 1")
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")
	}
	return tx.Model(&wcModel.WorkComment{}).Where("id = ?", commentID).UpdateColumn("likes_count", expr).Error
}

// LikesCount 评论不存在时返回 gorm.ErrRecordNotFound
func (r *WorkCommentRepository) LikesCount(tx *gorm.DB, commentID string) (int64, error) {
	var counts []int64
	if err := tx.Model(&wcModel.WorkComment{}).Where("id = ?", commentID).Pluck("likes_count", &counts).Error; err != nil {
		return 0, err
	}
	if len(counts) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return counts[0], nil
}
