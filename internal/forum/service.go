package forum

import (
	"context"
	"errors"
	"strings"

	"github.com/mooner2666/inke3/internal/commenttree"
	"github.com/mooner2666/inke3/internal/dto"
	forumModel "github.com/mooner2666/inke3/internal/model/forum"
	notificationModel "github.com/mooner2666/inke3/internal/model/notification"
	"github.com/mooner2666/inke3/internal/notification"
	"github.com/mooner2666/inke3/packages/response"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound     = response.NewNotFound("帖子不存在")
	ErrCommentNotFound  = response.NewNotFound("评论不存在")
	ErrNotPostOwner     = response.NewForbidden("只有作者可以修改帖子")
	ErrNotCommentOwner  = response.NewForbidden("只能修改自己的评论")
	ErrInvalidParentID  = response.NewInvalid("父评论不存在或不属于该帖子")
	ErrInvalidCategory  = response.NewInvalid("帖子分类只能是 chat 或 general")
	ErrEmptyContent     = response.NewInvalid("内容不能为空")
	ErrCommentDeleted   = response.NewInvalid("评论已被删除")
	ErrCommentTooLong   = response.NewInvalid("评论长度不能超过 5000")
	ErrPostTitleTooLong = response.NewInvalid("标题长度不能超过 200")
)

const (
	maxCommentLength = 5000
	maxTitleLength   = 200
)

// AuthorLookup 批量获取用户信息
type AuthorLookup interface {
	GetProfilesByIDs(ctx context.Context, ids []string) (map[string]*dto.AuthorInfo, error)
}

type ForumService struct {
	db       *gorm.DB
	repo     *ForumRepository
	authors  AuthorLookup
	notifier notification.Notifier
}

func NewForumService(db *gorm.DB, repo *ForumRepository, authors AuthorLookup, notifier notification.Notifier) *ForumService {
	return &ForumService{db: db, repo: repo, authors: authors, notifier: notifier}
}

// ========== 帖子 ==========

func (s *ForumService) CreatePost(ctx context.Context, userID string, req *CreatePostRequest) (*PostResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, ErrPostTitleTooLong
	}
	category, err := normalizeCategory(req.Category)
	if err != nil {
		return nil, err
	}

	p := &forumModel.ForumPost{
		UserID:   userID,
		Title:    title,
		Content:  req.Content,
		Category: category,
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, response.NewInternal("发帖失败", err)
	}
	return s.GetPost(ctx, p.ID)
}

// GetPost 帖子详情，包含作者与评论数
func (s *ForumService) GetPost(ctx context.Context, id string) (*PostResponse, error) {
	p, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, postNotFoundOr(err)
	}
	items, err := s.enrichPosts(ctx, []forumModel.ForumPost{*p})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// ListPosts 帖子列表，最新在前
func (s *ForumService) ListPosts(ctx context.Context, category string, page dto.PageQuery) (*dto.PageResult[*PostResponse], error) {
	if category != "" {
		if _, err := normalizeCategory(category); err != nil {
			return nil, err
		}
	}

	posts, total, err := s.repo.ListPosts(ctx, category, page.Offset(), page.PageSize)
	if err != nil {
		return nil, response.NewInternal("获取帖子列表失败", err)
	}
	items, err := s.enrichPosts(ctx, posts)
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(items, total, page), nil
}

func (s *ForumService) ListPostsByUser(ctx context.Context, userID string) ([]*PostResponse, error) {
	posts, err := s.repo.ListPostsByUser(ctx, userID)
	if err != nil {
		return nil, response.NewInternal("获取用户帖子失败", err)
	}
	return s.enrichPosts(ctx, posts)
}

// LatestPosts 首页展示的最新帖子
func (s *ForumService) LatestPosts(ctx context.Context, limit int) ([]*PostResponse, error) {
	posts, err := s.repo.LatestPosts(ctx, limit)
	if err != nil {
		return nil, response.NewInternal("获取最新帖子失败", err)
	}
	return s.enrichPosts(ctx, posts)
}

// GetPostsByIDs 按给定顺序返回帖子，不存在的 ID 被跳过
func (s *ForumService) GetPostsByIDs(ctx context.Context, ids []string) ([]*PostResponse, error) {
	posts, err := s.repo.FindPostsByIDs(ctx, ids)
	if err != nil {
		return nil, response.NewInternal("获取帖子失败", err)
	}
	items, err := s.enrichPosts(ctx, posts)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*PostResponse, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	ordered := make([]*PostResponse, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered, nil
}

func (s *ForumService) UpdatePost(ctx context.Context, id, userID string, req *UpdatePostRequest) (*PostResponse, error) {
	p, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, postNotFoundOr(err)
	}
	if p.UserID != userID {
		return nil, ErrNotPostOwner
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrEmptyContent
		}
		if len([]rune(title)) > maxTitleLength {
			return nil, ErrPostTitleTooLong
		}
		p.Title = title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, ErrEmptyContent
		}
		p.Content = *req.Content
	}
	if req.Category != nil {
		if p.Category, err = normalizeCategory(*req.Category); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdatePost(ctx, p); err != nil {
		return nil, response.NewInternal("更新帖子失败", err)
	}
	return s.GetPost(ctx, id)
}

// DeletePost 删除帖子及其评论和通知
func (s *ForumService) DeletePost(ctx context.Context, id, userID string) error {
	p, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return postNotFoundOr(err)
	}
	if p.UserID != userID {
		return ErrNotPostOwner
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.DeletePostCascade(tx, id)
	})
	if err != nil {
		return response.NewInternal("删除帖子失败", err)
	}
	zap.L().Info("帖子已删除", zap.String("post_id", id), zap.String("user_id", userID))
	return nil
}

// ========== 评论 ==========

// ListComments 帖子的评论树
func (s *ForumService) ListComments(ctx context.Context, postID string) (*CommentsListResponse, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, postNotFoundOr(err)
	}

	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, response.NewInternal("获取评论失败", err)
	}

	rows := make([]*CommentResponse, 0, len(comments))
	authorIDs := make([]string, 0, len(comments))
	for i := range comments {
		rows = append(rows, ToCommentResponse(&comments[i]))
		if !comments[i].IsDeleted {
			authorIDs = append(authorIDs, comments[i].UserID)
		}
	}
	// 与帖子 comment_count 一致，已删除的不计
	total := len(authorIDs)
	if err := s.attachAuthors(ctx, rows, authorIDs); err != nil {
		return nil, err
	}

	return &CommentsListResponse{
		Comments: toThread(commenttree.Build(rows)),
		Total:    total,
	}, nil
}

// CreateComment 发表评论或回复
// 顶级评论通知帖子作者，回复通知父评论作者
func (s *ForumService) CreateComment(ctx context.Context, postID, userID string, req *CreateCommentRequest) (*CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(content)) > maxCommentLength {
		return nil, ErrCommentTooLong
	}

	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, postNotFoundOr(err)
	}

	recipient := post.UserID
	notifyType := notificationModel.TypeComment
	var parentID *string
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err := s.repo.GetComment(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidParentID
			}
			return nil, response.NewInternal("查询父评论失败", err)
		}
		if parent.PostID != postID {
			return nil, ErrInvalidParentID
		}
		if parent.IsDeleted {
			return nil, ErrCommentDeleted
		}
		parentID = &parent.ID
		recipient = parent.UserID
		notifyType = notificationModel.TypeReply
	}

	comment := &forumModel.Comment{
		PostID:   postID,
		UserID:   userID,
		ParentID: parentID,
		Content:  content,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreateComment(tx, comment); err != nil {
			return err
		}
		if s.notifier == nil {
			return nil
		}
		return s.notifier.Notify(ctx, tx, notification.Event{
			RecipientID: recipient,
			ActorID:     userID,
			Type:        notifyType,
			PostID:      &postID,
			CommentID:   &comment.ID,
		})
	})
	if err != nil {
		return nil, response.NewInternal("发表评论失败", err)
	}
	if s.notifier != nil {
		s.notifier.Invalidate(ctx, recipient)
	}

	resp := ToCommentResponse(comment)
	if err := s.attachAuthors(ctx, []*CommentResponse{resp}, []string{userID}); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateComment 作者编辑评论
func (s *ForumService) UpdateComment(ctx context.Context, id, userID string, req *UpdateCommentRequest) (*CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(content)) > maxCommentLength {
		return nil, ErrCommentTooLong
	}

	c, err := s.ownedComment(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCommentContent(ctx, id, content); err != nil {
		return nil, response.NewInternal("更新评论失败", err)
	}

	updated, err := s.repo.GetComment(ctx, c.ID)
	if err != nil {
		return nil, commentNotFoundOr(err)
	}
	resp := ToCommentResponse(updated)
	if err := s.attachAuthors(ctx, []*CommentResponse{resp}, []string{userID}); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteComment 软删除评论，回复仍然保留
func (s *ForumService) DeleteComment(ctx context.Context, id, userID string) error {
	if _, err := s.ownedComment(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.SoftDeleteComment(ctx, id); err != nil {
		return response.NewInternal("删除评论失败", err)
	}
	return nil
}

func (s *ForumService) ownedComment(ctx context.Context, id, userID string) (*forumModel.Comment, error) {
	c, err := s.repo.GetComment(ctx, id)
	if err != nil {
		return nil, commentNotFoundOr(err)
	}
	if c.IsDeleted {
		return nil, ErrCommentNotFound
	}
	if c.UserID != userID {
		return nil, ErrNotCommentOwner
	}
	return c, nil
}

func (s *ForumService) attachAuthors(ctx context.Context, rows []*CommentResponse, ids []string) error {
	if s.authors == nil || len(ids) == 0 {
		return nil
	}
	authors, err := s.authors.GetProfilesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, c := range rows {
		if !c.IsDeleted {
			c.Author = authors[c.UserID]
		}
	}
	return nil
}

func (s *ForumService) enrichPosts(ctx context.Context, posts []forumModel.ForumPost) ([]*PostResponse, error) {
	ids := make([]string, 0, len(posts))
	authorIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		authorIDs = append(authorIDs, p.UserID)
	}

	counts, err := s.repo.CommentCounts(ctx, ids)
	if err != nil {
		return nil, response.NewInternal("获取评论数失败", err)
	}
	authors := map[string]*dto.AuthorInfo{}
	if s.authors != nil && len(authorIDs) > 0 {
		if authors, err = s.authors.GetProfilesByIDs(ctx, authorIDs); err != nil {
			return nil, err
		}
	}

	result := make([]*PostResponse, 0, len(posts))
	for i := range posts {
		item := ToPostResponse(&posts[i])
		item.Author = authors[posts[i].UserID]
		item.CommentCount = counts[posts[i].ID]
		result = append(result, item)
	}
	return result, nil
}

func normalizeCategory(category string) (string, error) {
	switch category {
	case "":
		return forumModel.CategoryGeneral, nil
	case forumModel.CategoryChat, forumModel.CategoryGeneral:
		return category, nil
	default:
		return "", ErrInvalidCategory
	}
}

func postNotFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	return response.NewInternal("查询帖子失败", err)
}

func commentNotFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	return response.NewInternal("查询评论失败", err)
}
