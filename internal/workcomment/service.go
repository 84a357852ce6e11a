package workcomment

import (
	"context"
	"errors"
	"strings"

	"github.com/mooner2666/inke3/internal/commenttree"
	"github.com/mooner2666/inke3/internal/dto"
	notificationModel "github.com/mooner2666/inke3/internal/model/notification"
	wcModel "github.com/mooner2666/inke3/internal/model/workcomment"
	"github.com/mooner2666/inke3/internal/notification"
	"github.com/mooner2666/inke3/packages/response"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxContentLength = 2000

var (
	ErrWorkNotFound    = response.NewNotFound("作品不存在")
	ErrCommentNotFound = response.NewNotFound("评论不存在")
	ErrNotAuthor       = response.NewForbidden("只能删除自己的评论")
	ErrEmptyContent    = response.NewInvalid("评论内容不能为空")
	ErrContentTooLong  = response.NewInvalid("评论长度不能超过 2000")
	ErrReplyTarget     = response.NewInvalid("回复的评论不属于该作品")
)

// AuthorLookup 批量获取用户信息
type AuthorLookup interface {
	GetProfilesByIDs(ctx context.Context, ids []string) (map[string]*dto.AuthorInfo, error)
}

type WorkCommentService struct {
	db       *gorm.DB
	repo     *WorkCommentRepository
	authors  AuthorLookup
	notifier notification.Notifier
}

func NewWorkCommentService(db *gorm.DB, repo *WorkCommentRepository, authors AuthorLookup, notifier notification.Notifier) *WorkCommentService {
	return &WorkCommentService{db: db, repo: repo, authors: authors, notifier: notifier}
}

// ListWorkComments 作品评论区，viewerID 为空时 liked_by_me 全部为 false
func (s *WorkCommentService) ListWorkComments(ctx context.Context, workID, viewerID string) (*WorkCommentsResponse, error) {
	if _, err := s.repo.GetWork(ctx, workID); err != nil {
		return nil, workNotFoundOr(err)
	}

	comments, err := s.repo.ListByWork(ctx, workID)
	if err != nil {
		return nil, response.NewInternal("获取评论失败", err)
	}

	rows := make([]*WorkCommentResponse, 0, len(comments))
	ids := make([]string, 0, len(comments))
	for i := range comments {
		rows = append(rows, toResponse(&comments[i]))
		ids = append(ids, comments[i].ID)
	}

	liked, err := s.repo.LikedIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, response.NewInternal("获取点赞状态失败", err)
	}
	for _, row := range rows {
		row.LikedByMe = liked[row.ID]
	}
	if err := s.attachUsers(ctx, rows); err != nil {
		return nil, err
	}

	return &WorkCommentsResponse{
		Comments: toThreads(commenttree.Flatten(commenttree.Build(rows))),
		Total:    len(rows),
	}, nil
}

// CreateWorkComment 发表评论
// 回复任意评论时挂到其顶级评论下，并记录被回复的用户
func (s *WorkCommentService) CreateWorkComment(ctx context.Context, workID, userID string, req *CreateWorkCommentRequest) (*WorkCommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(content)) > maxContentLength {
		return nil, ErrContentTooLong
	}

	w, err := s.repo.GetWork(ctx, workID)
	if err != nil {
		return nil, workNotFoundOr(err)
	}

	comment := &wcModel.WorkComment{WorkID: workID, UserID: userID, Content: content}
	recipient := w.UserID
	notifyType := notificationModel.TypeComment

	if req.ReplyToCommentID != nil && *req.ReplyToCommentID != "" {
		target, err := s.repo.Get(ctx, *req.ReplyToCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, response.NewInternal("查询评论失败", err)
		}
		if target.WorkID != workID {
			return nil, ErrReplyTarget
		}

		topID := target.ID
		if target.ParentID != nil {
			topID = *target.ParentID
		}
		replyTo := target.UserID
		comment.ParentID = &topID
		comment.ReplyToID = &replyTo
		recipient = replyTo
		notifyType = notificationModel.TypeReply
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(tx, comment); err != nil {
			return err
		}
		if s.notifier == nil {
			return nil
		}
		return s.notifier.Notify(ctx, tx, notification.Event{
			RecipientID: recipient,
			ActorID:     userID,
			Type:        notifyType,
			WorkID:      &workID,
			CommentID:   &comment.ID,
		})
	})
	if err != nil {
		return nil, response.NewInternal("发表评论失败", err)
	}
	if s.notifier != nil {
		s.notifier.Invalidate(ctx, recipient)
	}

	resp := toResponse(comment)
	if err := s.attachUsers(ctx, []*WorkCommentResponse{resp}); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteWorkComment 删除评论；顶级评论连同全部回复一起删除
func (s *WorkCommentService) DeleteWorkComment(ctx context.Context, id, userID string) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return commentNotFoundOr(err)
	}
	if c.UserID != userID {
		return ErrNotAuthor
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []string{c.ID}
		if c.ParentID == nil {
			replies, err := s.repo.ReplyIDs(tx, c.ID)
			if err != nil {
				return err
			}
			ids = append(ids, replies...)
		}
		return s.repo.DeleteCascade(tx, ids)
	})
	if err != nil {
		return response.NewInternal("删除评论失败", err)
	}
	zap.L().Info("作品评论已删除", zap.String("comment_id", id), zap.String("user_id", userID))
	return nil
}

// ToggleCommentLike 切换点赞状态，返回切换后的状态
func (s *WorkCommentService) ToggleCommentLike(ctx context.Context, id, userID string) (*LikeStatusResponse, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, commentNotFoundOr(err)
	}

	status := &LikeStatusResponse{CommentID: id}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := s.repo.RemoveLike(tx, id, userID)
		if err != nil {
			return err
		}
		if removed {
			if err := s.repo.AdjustLikes(tx, id, -1); err != nil {
				return err
			}
		} else {
			inserted, err := s.repo.InsertLike(tx, id, userID)
			if err != nil {
				return err
			}
			if inserted {
				if err := s.repo.AdjustLikes(tx, id, 1); err != nil {
					return err
				}
			}
			status.Liked = true
		}

		status.LikesCount, err = s.repo.LikesCount(tx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, response.NewInternal("点赞失败", err)
	}
	return status, nil
}

// attachUsers 填充作者与被回复用户
func (s *WorkCommentService) attachUsers(ctx context.Context, rows []*WorkCommentResponse) error {
	if s.authors == nil || len(rows) == 0 {
		return nil
	}

	ids := make([]string, 0, len(rows)*2)
	for _, row := range rows {
		ids = append(ids, row.UserID)
		if row.ReplyToID != nil {
			ids = append(ids, *row.ReplyToID)
		}
	}
	users, err := s.authors.GetProfilesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, row := range rows {
		row.Author = users[row.UserID]
		if row.ReplyToID != nil {
			row.ReplyToUser = users[*row.ReplyToID]
		}
	}
	return nil
}

func workNotFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrWorkNotFound
	}
	return response.NewInternal("查询作品失败", err)
}

func commentNotFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	return response.NewInternal("查询评论失败", err)
}
