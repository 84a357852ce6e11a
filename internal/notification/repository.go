package notification

import (
	"context"

	forumModel "github.com/mooner2666/inke3/internal/model/forum"
	notificationModel "github.com/mooner2666/inke3/internal/model/notification"
	workModel "github.com/mooner2666/inke3/internal/model/work"

	"gorm.io/gorm"
)

// NotificationRepository 通知仓储层
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create 写入通知，tx 为空时使用默认连接
func (r *NotificationRepository) Create(ctx context.Context, tx *gorm.DB, n *notificationModel.Notification) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(n).Error
}

// ListByUser 最新的 limit 条通知
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]notificationModel.Notification, error) {
	var list []notificationModel.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&notificationModel.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead 返回受影响行数，0 表示通知不存在或不属于该用户
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&notificationModel.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&notificationModel.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) WorkTitles(ctx context.Context, ids []string) (map[string]string, error) {
	titles := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	var works []workModel.Work
	if err := r.db.WithContext(ctx).Select("id", "title").Where("id IN ?", ids).Find(&works).Error; err != nil {
		return nil, err
	}
	for _, w := range works {
		titles[w.ID] = w.Title
	}
	return titles, nil
}

func (r *NotificationRepository) PostTitles(ctx context.Context, ids []string) (map[string]string, error) {
	titles := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	var posts []forumModel.ForumPost
	if err := r.db.WithContext(ctx).Select("id", "title").Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	for _, p := range posts {
		titles[p.ID] = p.Title
	}
	return titles, nil
}

// DeleteByWork 删除与作品相关的通知
func DeleteByWork(tx *gorm.DB, workID string) error {
	return tx.Where("work_id = ?", workID).Delete(&notificationModel.Notification{}).Error
}

// DeleteByPost 删除与帖子相关的通知
func DeleteByPost(tx *gorm.DB, postID string) error {
	return tx.Where("post_id = ?", postID).Delete(&notificationModel.Notification{}).Error
}

// DeleteByComments 删除指向这些评论的通知
func DeleteByComments(tx *gorm.DB, commentIDs []string) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return tx.Where("comment_id IN ?", commentIDs).Delete(&notificationModel.Notification{}).Error
}
