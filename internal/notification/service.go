package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/mooner2666/inke3/internal/dto"
	notificationModel "github.com/mooner2666/inke3/internal/model/notification"
	"github.com/mooner2666/inke3/packages/database"
	"github.com/mooner2666/inke3/packages/response"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = response.NewNotFound("通知不存在")
	ErrInvalidType          = response.NewInvalid("未知的通知类型")
)

// AuthorLookup 批量获取用户信息
type AuthorLookup interface {
	GetProfilesByIDs(ctx context.Context, ids []string) (map[string]*dto.AuthorInfo, error)
}

// Notifier 业务模块在事务内写入通知，提交成功后再调用 Invalidate 清除接收者的未读缓存
type Notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, ev Event) error
	Invalidate(ctx context.Context, userIDs ...string)
}

type NotificationService struct {
	repo     *NotificationRepository
	authors  AuthorLookup
	cache    *database.RedisClient // 可为 nil
	cacheTTL time.Duration
	limit    int
}

// Options 通知服务配置
type Options struct {
	Limit    int
	CacheTTL time.Duration
}

func NewNotificationService(repo *NotificationRepository, authors AuthorLookup, cache *database.RedisClient, opts Options) *NotificationService {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	return &NotificationService{
		repo:     repo,
		authors:  authors,
		cache:    cache,
		cacheTTL: opts.CacheTTL,
		limit:    opts.Limit,
	}
}

func (s *NotificationService) unreadKey(userID string) string {
	return s.cache.Key("notification", "unread", userID)
}

// Notify 写入通知，触发者即接收者时跳过。
// tx 非空时未读缓存由调用方在事务提交后清除
func (s *NotificationService) Notify(ctx context.Context, tx *gorm.DB, ev Event) error {
	if ev.RecipientID == "" || ev.RecipientID == ev.ActorID {
		return nil
	}
	switch ev.Type {
	case notificationModel.TypeLike, notificationModel.TypeFavorite,
		notificationModel.TypeComment, notificationModel.TypeReply:
	default:
		return ErrInvalidType
	}

	n := &notificationModel.Notification{
		UserID:    ev.RecipientID,
		ActorID:   ev.ActorID,
		Type:      ev.Type,
		WorkID:    ev.WorkID,
		PostID:    ev.PostID,
		CommentID: ev.CommentID,
	}
	if err := s.repo.Create(ctx, tx, n); err != nil {
		return fmt.Errorf("写入通知失败: %w", err)
	}
	if tx == nil {
		s.Invalidate(ctx, ev.RecipientID)
	}
	return nil
}

// List 最新通知，附带触发者、作品和帖子标题
func (s *NotificationService) List(ctx context.Context, userID string) ([]*NotificationResponse, error) {
	list, err := s.repo.ListByUser(ctx, userID, s.limit)
	if err != nil {
		return nil, response.NewInternal("获取通知失败", err)
	}

	var actorIDs, workIDs, postIDs []string
	for _, n := range list {
		actorIDs = append(actorIDs, n.ActorID)
		if n.WorkID != nil {
			workIDs = append(workIDs, *n.WorkID)
		}
		if n.PostID != nil {
			postIDs = append(postIDs, *n.PostID)
		}
	}

	actors := map[string]*dto.AuthorInfo{}
	if s.authors != nil && len(actorIDs) > 0 {
		if actors, err = s.authors.GetProfilesByIDs(ctx, actorIDs); err != nil {
			return nil, err
		}
	}
	workTitles, err := s.repo.WorkTitles(ctx, workIDs)
	if err != nil {
		return nil, response.NewInternal("获取作品标题失败", err)
	}
	postTitles, err := s.repo.PostTitles(ctx, postIDs)
	if err != nil {
		return nil, response.NewInternal("获取帖子标题失败", err)
	}

	result := make([]*NotificationResponse, 0, len(list))
	for _, n := range list {
		item := &NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
			Actor:     actors[n.ActorID],
			WorkID:    n.WorkID,
			PostID:    n.PostID,
			CommentID: n.CommentID,
		}
		if n.WorkID != nil {
			item.WorkTitle = workTitles[*n.WorkID]
		}
		if n.PostID != nil {
			item.PostTitle = postTitles[*n.PostID]
		}
		item.Text = RenderText(item)
		item.Link = RenderLink(item)
		result = append(result, item)
	}
	return result, nil
}

// UnreadCount 未读数量，Redis 可用时短暂缓存
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (*UnreadCountResponse, error) {
	if s.cache != nil {
		count, ok, err := s.cache.GetInt64(ctx, s.unreadKey(userID))
		if err != nil {
			zap.L().Warn("读取未读缓存失败", zap.String("user_id", userID), zap.Error(err))
		} else if ok {
			return &UnreadCountResponse{Count: count}, nil
		}
	}

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, response.NewInternal("获取未读数量失败", err)
	}

	if s.cache != nil {
		if err := s.cache.SetInt64(ctx, s.unreadKey(userID), count, s.cacheTTL); err != nil {
			zap.L().Warn("写入未读缓存失败", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return &UnreadCountResponse{Count: count}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	affected, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return response.NewInternal("标记已读失败", err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	s.Invalidate(ctx, userID)
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return response.NewInternal("标记全部已读失败", err)
	}
	s.Invalidate(ctx, userID)
	return nil
}

// Invalidate 清除未读计数缓存，空 id 忽略
func (s *NotificationService) Invalidate(ctx context.Context, userIDs ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id != "" {
			keys = append(keys, s.unreadKey(id))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		zap.L().Warn("清除未读缓存失败", zap.Strings("user_ids", userIDs), zap.Error(err))
	}
}

// RenderText 通知文案
func RenderText(n *NotificationResponse) string {
	actorName := "某人"
	if n.Actor != nil {
		if n.Actor.DisplayName != "" {
			actorName = n.Actor.DisplayName
		} else if n.Actor.Username != "" {
			actorName = n.Actor.Username
		}
	}

	switch n.Type {
	case notificationModel.TypeLike:
		return fmt.Sprintf("%s 点赞了你的作品 \"%s\"", actorName, n.WorkTitle)
	case notificationModel.TypeFavorite:
		return fmt.Sprintf("%s 收藏了你的作品 \"%s\"", actorName, n.WorkTitle)
	case notificationModel.TypeComment:
		if n.WorkID != nil {
			return fmt.Sprintf("%s 评论了你的作品 \"%s\"", actorName, n.WorkTitle)
		}
		return fmt.Sprintf("%s 评论了你的帖子 \"%s\"", actorName, n.PostTitle)
	case notificationModel.TypeReply:
		return fmt.Sprintf("%s 回复了你的评论", actorName)
	default:
		return "新通知"
	}
}

// RenderLink 通知跳转地址
func RenderLink(n *NotificationResponse) string {
	if n.WorkID != nil {
		return "/works/" + *n.WorkID
	}
	if n.PostID != nil {
		return "/forum/" + *n.PostID
	}
	return "#"
}
