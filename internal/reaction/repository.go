package reaction

import (
	"context"

	workModel "github.com/mooner2666/inke3/internal/model/work"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// kind 点赞与收藏共用的表与计数列
type kind struct {
	name    string
	counter string
	newRow  func(userID, workID string) any
}

var (
	likeKind = kind{
		name:    "like",
		counter: "likes_count",
		newRow: func(userID, workID string) any {
			return &workModel.Like{UserID: userID, WorkID: workID}
		},
	}
	favoriteKind = kind{
		name:    "favorite",
		counter: "favorites_count",
		newRow: func(userID, workID string) any {
			return &workModel.Favorite{UserID: userID, WorkID: workID}
		},
	}
)

// ReactionRepository 点赞收藏仓储层
type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// GetWork 行不存在时返回 gorm.ErrRecordNotFound
func (r *ReactionRepository) GetWork(tx *gorm.DB, workID string) (*workModel.Work, error) {
	var w workModel.Work
	err := tx.Where("id = ?", workID).First(&w).Error
	return &w, err
}

// Insert 幂等插入，返回是否真正插入
func (r *ReactionRepository) Insert(tx *gorm.DB, k kind, userID, workID string) (bool, error) {
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(k.newRow(userID, workID))
	return result.RowsAffected > 0, result.Error
}

// Remove 幂等删除，返回是否真正删除
func (r *ReactionRepository) Remove(tx *gorm.DB, k kind, userID, workID string) (bool, error) {
	result := tx.Where("user_id = ? AND work_id = ?", userID, workID).Delete(k.newRow("", ""))
	return result.RowsAffected > 0, result.Error
}

// AdjustCounter 原子增减计数，不会减到负数
func (r *ReactionRepository) AdjustCounter(tx *gorm.DB, k kind, workID string, delta int) error {
	expr := gorm.Expr(k.counter + " + 1")
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN " + k.counter + " > 0 THEN " + k.counter + " - 1 ELSE 0 END")
	}
	return tx.Model(&workModel.Work{}).Where("id = ?", workID).UpdateColumn(k.counter, expr).Error
}

func (r *ReactionRepository) Exists(ctx context.Context, k kind, userID, workID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(k.newRow("", "")).
		Where("user_id = ? AND work_id = ?", userID, workID).
		Count(&count).Error
	return count > 0, err
}

// FavoriteWorkIDs 用户收藏的作品 ID，最近收藏在前
func (r *ReactionRepository) FavoriteWorkIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&workModel.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("work_id", &ids).Error
	return ids, err
}
