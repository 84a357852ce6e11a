package reaction

import (
	"context"
	"errors"

	notificationModel "github.com/mooner2666/inke3/internal/model/notification"
	"github.com/mooner2666/inke3/internal/notification"
	"github.com/mooner2666/inke3/internal/work"
	"github.com/mooner2666/inke3/packages/response"

	"gorm.io/gorm"
)

var ErrWorkNotFound = response.NewNotFound("作品不存在")

// WorkLookup 按 ID 获取作品展示信息
type WorkLookup interface {
	GetWorksByIDs(ctx context.Context, ids []string) ([]*work.WorkResponse, error)
}

type ReactionService struct {
	db       *gorm.DB
	repo     *ReactionRepository
	notifier notification.Notifier
	works    WorkLookup
}

func NewReactionService(db *gorm.DB, repo *ReactionRepository, notifier notification.Notifier, works WorkLookup) *ReactionService {
	return &ReactionService{db: db, repo: repo, notifier: notifier, works: works}
}

func (s *ReactionService) Like(ctx context.Context, userID, workID string) (*StatusResponse, error) {
	return s.add(ctx, likeKind, notificationModel.TypeLike, userID, workID)
}

func (s *ReactionService) Unlike(ctx context.Context, userID, workID string) (*StatusResponse, error) {
	return s.remove(ctx, likeKind, userID, workID)
}

func (s *ReactionService) Favorite(ctx context.Context, userID, workID string) (*StatusResponse, error) {
	return s.add(ctx, favoriteKind, notificationModel.TypeFavorite, userID, workID)
}

func (s *ReactionService) Unfavorite(ctx context.Context, userID, workID string) (*StatusResponse, error) {
	return s.remove(ctx, favoriteKind, userID, workID)
}

// add 只有真正插入时才增加计数并通知作者，三者在同一事务内
func (s *ReactionService) add(ctx context.Context, k kind, notifyType, userID, workID string) (*StatusResponse, error) {
	var notified string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := s.repo.GetWork(tx, workID)
		if err != nil {
			return err
		}
		inserted, err := s.repo.Insert(tx, k, userID, workID)
		if err != nil || !inserted {
			return err
		}
		if err := s.repo.AdjustCounter(tx, k, workID, 1); err != nil {
			return err
		}
		if s.notifier == nil {
			return nil
		}
		notified = w.UserID
		return s.notifier.Notify(ctx, tx, notification.Event{
			RecipientID: w.UserID,
			ActorID:     userID,
			Type:        notifyType,
			WorkID:      &workID,
		})
	})
	if err != nil {
		return nil, wrapError(k, err)
	}
	if notified != "" {
		s.notifier.Invalidate(ctx, notified)
	}
	return s.GetStatus(ctx, userID, workID)
}

func (s *ReactionService) remove(ctx context.Context, k kind, userID, workID string) (*StatusResponse, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.repo.GetWork(tx, workID); err != nil {
			return err
		}
		removed, err := s.repo.Remove(tx, k, userID, workID)
		if err != nil || !removed {
			return err
		}
		return s.repo.AdjustCounter(tx, k, workID, -1)
	})
	if err != nil {
		return nil, wrapError(k, err)
	}
	return s.GetStatus(ctx, userID, workID)
}

// GetStatus 匿名用户 liked/favorited 恒为 false
func (s *ReactionService) GetStatus(ctx context.Context, userID, workID string) (*StatusResponse, error) {
	w, err := s.repo.GetWork(s.db.WithContext(ctx), workID)
	if err != nil {
		return nil, wrapError(likeKind, err)
	}

	status := &StatusResponse{
		WorkID:         workID,
		LikesCount:     w.LikesCount,
		FavoritesCount: w.FavoritesCount,
	}
	if userID == "" {
		return status, nil
	}
	if status.Liked, err = s.repo.Exists(ctx, likeKind, userID, workID); err != nil {
		return nil, response.NewInternal("查询点赞状态失败", err)
	}
	if status.Favorited, err = s.repo.Exists(ctx, favoriteKind, userID, workID); err != nil {
		return nil, response.NewInternal("查询收藏状态失败", err)
	}
	return status, nil
}

// ListFavorites 用户收藏的作品，最近收藏在前
func (s *ReactionService) ListFavorites(ctx context.Context, userID string) ([]*work.WorkResponse, error) {
	ids, err := s.repo.FavoriteWorkIDs(ctx, userID)
	if err != nil {
		return nil, response.NewInternal("获取收藏失败", err)
	}
	if len(ids) == 0 {
		return []*work.WorkResponse{}, nil
	}
	return s.works.GetWorksByIDs(ctx, ids)
}

func wrapError(k kind, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrWorkNotFound
	}
	var be *response.BusinessError
	if errors.As(err, &be) {
		return be
	}
	return response.NewInternal(k.name+" 操作失败", err)
}
