package work

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mooner2666/inke3/internal/dto"
	workModel "github.com/mooner2666/inke3/internal/model/work"
	"github.com/mooner2666/inke3/packages/database"
	"github.com/mooner2666/inke3/packages/response"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrWorkNotFound     = response.NewNotFound("作品不存在")
	ErrChapterNotFound  = response.NewNotFound("章节不存在")
	ErrNotWorkOwner     = response.NewForbidden("只有作者可以修改作品")
	ErrNoChapters       = response.NewInvalid("作品至少需要一个章节")
	ErrInvalidChapter   = response.NewInvalid("章节标题和内容不能为空")
	ErrUnknownChapter   = response.NewInvalid("章节不属于该作品")
	ErrDuplicateChapter = response.NewInvalid("章节重复提交")
	ErrInvalidCategory  = response.NewInvalid("作品分类只能是 original 或 fanfiction")
	ErrEmptyTitle       = response.NewInvalid("标题不能为空")
	ErrTagTooLong       = response.NewInvalid("标签长度不能超过 50")
)

const (
	maxTagLength   = 50
	tagSearchLimit = 20
)

// AuthorLookup 批量获取用户信息
type AuthorLookup interface {
	GetProfilesByIDs(ctx context.Context, ids []string) (map[string]*dto.AuthorInfo, error)
}

// Options 作品服务配置
type Options struct {
	// 同一访客在窗口期内只计一次阅读
	ViewDedupeWindow time.Duration
}

type WorkService struct {
	db         *gorm.DB
	repo       *WorkRepository
	authors    AuthorLookup
	cache      *database.RedisClient // 可为 nil
	viewWindow time.Duration
}

func NewWorkService(db *gorm.DB, repo *WorkRepository, authors AuthorLookup, cache *database.RedisClient, opts Options) *WorkService {
	if opts.ViewDedupeWindow <= 0 {
		opts.ViewDedupeWindow = 30 * time.Minute
	}
	return &WorkService{
		db:         db,
		repo:       repo,
		authors:    authors,
		cache:      cache,
		viewWindow: opts.ViewDedupeWindow,
	}
}

// CreateWork 在一个事务内创建作品、章节和标签
func (s *WorkService) CreateWork(ctx context.Context, userID string, req *CreateWorkRequest) (*WorkResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	category, err := normalizeCategory(req.Category)
	if err != nil {
		return nil, err
	}
	if len(req.Chapters) == 0 {
		return nil, ErrNoChapters
	}
	for _, ch := range req.Chapters {
		if !validChapter(ch) {
			return nil, ErrInvalidChapter
		}
	}
	tagNames, err := NormalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	w := &workModel.Work{
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		Content:     req.Content,
		Category:    category,
		CoverURL:    req.CoverURL,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(w).Error; err != nil {
			return err
		}

		chapters := make([]workModel.Chapter, 0, len(req.Chapters))
		for i, ch := range req.Chapters {
			chapters = append(chapters, workModel.Chapter{
				WorkID:        w.ID,
				ChapterNumber: i + 1,
				Title:         strings.TrimSpace(ch.Title),
				Content:       ch.Content,
				AuthorNote:    ch.AuthorNote,
			})
		}
		if err := tx.Create(&chapters).Error; err != nil {
			return err
		}

		tags, err := s.repo.GetOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}
		return s.repo.ReplaceWorkTags(tx, w.ID, tags)
	})
	if err != nil {
		return nil, response.NewInternal("创建作品失败", err)
	}

	zap.L().Info("作品已创建", zap.String("work_id", w.ID), zap.String("user_id", userID), zap.Int("chapters", len(req.Chapters)))
	return s.GetWork(ctx, w.ID)
}

// GetWork 作品详情：作者、标签与章节目录
func (s *WorkService) GetWork(ctx context.Context, id string) (*WorkResponse, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, workNotFoundOr(err)
	}

	items, err := s.enrich(ctx, []workModel.Work{*w})
	if err != nil {
		return nil, err
	}
	result := items[0]

	chapters, err := s.repo.ListChapters(ctx, id)
	if err != nil {
		return nil, response.NewInternal("获取章节失败", err)
	}
	result.Chapters = make([]ChapterSummary, 0, len(chapters))
	for i := range chapters {
		result.Chapters = append(result.Chapters, toChapterSummary(&chapters[i]))
	}
	return result, nil
}

// ListWorks 作品列表
func (s *WorkService) ListWorks(ctx context.Context, filter WorkFilter) (*dto.PageResult[*WorkResponse], error) {
	if filter.Category != "" {
		if _, err := normalizeCategory(filter.Category); err != nil {
			return nil, err
		}
	}
	tags, err := NormalizeTags(filter.Tags)
	if err != nil {
		return nil, err
	}
	filter.Tags = tags

	works, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, response.NewInternal("获取作品列表失败", err)
	}
	items, err := s.enrich(ctx, works)
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(stripContent(items), total, filter.Page), nil
}

// ListWorksByUser 用户的全部作品
func (s *WorkService) ListWorksByUser(ctx context.Context, userID string) ([]*WorkResponse, error) {
	works, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, response.NewInternal("获取用户作品失败", err)
	}
	items, err := s.enrich(ctx, works)
	if err != nil {
		return nil, err
	}
	return stripContent(items), nil
}

// LatestWorks 首页展示的最新作品
func (s *WorkService) LatestWorks(ctx context.Context, limit int) ([]*WorkResponse, error) {
	works, err := s.repo.Latest(ctx, limit)
	if err != nil {
		return nil, response.NewInternal("获取最新作品失败", err)
	}
	items, err := s.enrich(ctx, works)
	if err != nil {
		return nil, err
	}
	return stripContent(items), nil
}

// GetWorksByIDs 按给定顺序返回作品，不存在的 ID 被跳过
func (s *WorkService) GetWorksByIDs(ctx context.Context, ids []string) ([]*WorkResponse, error) {
	works, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, response.NewInternal("获取作品失败", err)
	}
	items, err := s.enrich(ctx, works)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*WorkResponse, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	ordered := make([]*WorkResponse, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return stripContent(ordered), nil
}

// UpdateWork 作者编辑作品，章节按提交顺序对齐并重新编号
func (s *WorkService) UpdateWork(ctx context.Context, id, userID string, req *UpdateWorkRequest) (*WorkResponse, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, workNotFoundOr(err)
	}
	if w.UserID != userID {
		return nil, ErrNotWorkOwner
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		w.Title = title
	}
	if req.Description != nil {
		w.Description = *req.Description
	}
	if req.Content != nil {
		w.Content = *req.Content
	}
	if req.Category != nil {
		category, err := normalizeCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		w.Category = category
	}
	if req.CoverURL != nil {
		w.CoverURL = *req.CoverURL
	}

	var tagNames []string
	if req.Tags != nil {
		if tagNames, err = NormalizeTags(req.Tags); err != nil {
			return nil, err
		}
	}
	if req.Chapters != nil {
		if len(req.Chapters) == 0 {
			return nil, ErrNoChapters
		}
		for _, ch := range req.Chapters {
			if !validChapter(ch) {
				return nil, ErrInvalidChapter
			}
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(w).Select("title", "description", "content", "category", "cover_url", "updated_at").
			Updates(w).Error; err != nil {
			return err
		}
		if req.Chapters != nil {
			if err := s.reconcileChapters(tx, w.ID, req.Chapters); err != nil {
				return err
			}
		}
		if req.Tags != nil {
			tags, err := s.repo.GetOrCreateTags(tx, tagNames)
			if err != nil {
				return err
			}
			if err := s.repo.ReplaceWorkTags(tx, w.ID, tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var be *response.BusinessError
		if errors.As(err, &be) {
			return nil, be
		}
		return nil, response.NewInternal("更新作品失败", err)
	}

	return s.GetWork(ctx, id)
}

// reconcileChapters 已有 ID 的章节原地更新，其余新建，未提交的删除，最后按提交顺序编号 1..n
func (s *WorkService) reconcileChapters(tx *gorm.DB, workID string, inputs []ChapterInput) error {
	var existing []workModel.Chapter
	if err := tx.Select("id").Where("work_id = ?", workID).Find(&existing).Error; err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.ID] = true
	}

	kept := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in.ID == "" {
			continue
		}
		if !known[in.ID] {
			return ErrUnknownChapter
		}
		if kept[in.ID] {
			return ErrDuplicateChapter
		}
		kept[in.ID] = true
	}

	var removed []string
	for _, c := range existing {
		if !kept[c.ID] {
			removed = append(removed, c.ID)
		}
	}
	if len(removed) > 0 {
		if err := tx.Where("id IN ?", removed).Delete(&workModel.Chapter{}).Error; err != nil {
			return err
		}
	}

	// 先把保留的章节移到负数编号，避免与 (work_id, chapter_number) 唯一索引冲突
	for i, in := range inputs {
		if in.ID == "" {
			continue
		}
		if err := tx.Model(&workModel.Chapter{}).Where("id = ?", in.ID).
			UpdateColumn("chapter_number", -(i + 1)).Error; err != nil {
			return err
		}
	}

	now := time.Now()
	for i, in := range inputs {
		if in.ID != "" {
			err := tx.Model(&workModel.Chapter{}).Where("id = ?", in.ID).UpdateColumns(map[string]any{
				"chapter_number": i + 1,
				"title":          strings.TrimSpace(in.Title),
				"content":        in.Content,
				"author_note":    in.AuthorNote,
				"updated_at":     now,
			}).Error
			if err != nil {
				return err
			}
			continue
		}
		ch := &workModel.Chapter{
			WorkID:        workID,
			ChapterNumber: i + 1,
			Title:         strings.TrimSpace(in.Title),
			Content:       in.Content,
			AuthorNote:    in.AuthorNote,
		}
		if err := tx.Create(ch).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteWork 作者删除作品及其全部关联数据
func (s *WorkService) DeleteWork(ctx context.Context, id, userID string) error {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return workNotFoundOr(err)
	}
	if w.UserID != userID {
		return ErrNotWorkOwner
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.DeleteCascade(tx, id)
	})
	if err != nil {
		return response.NewInternal("删除作品失败", err)
	}
	zap.L().Info("作品已删除", zap.String("work_id", id), zap.String("user_id", userID))
	return nil
}

// ListChapters 章节目录
func (s *WorkService) ListChapters(ctx context.Context, workID string) ([]ChapterSummary, error) {
	if _, err := s.repo.GetByID(ctx, workID); err != nil {
		return nil, workNotFoundOr(err)
	}
	chapters, err := s.repo.ListChapters(ctx, workID)
	if err != nil {
		return nil, response.NewInternal("获取章节失败", err)
	}
	result := make([]ChapterSummary, 0, len(chapters))
	for i := range chapters {
		result = append(result, toChapterSummary(&chapters[i]))
	}
	return result, nil
}

// GetChapter 章节正文及前后章节号
func (s *WorkService) GetChapter(ctx context.Context, workID string, number int) (*ChapterResponse, error) {
	w, err := s.repo.GetByID(ctx, workID)
	if err != nil {
		return nil, workNotFoundOr(err)
	}
	c, err := s.repo.GetChapter(ctx, workID, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, response.NewInternal("获取章节失败", err)
	}
	total, err := s.repo.CountChapters(ctx, workID)
	if err != nil {
		return nil, response.NewInternal("获取章节失败", err)
	}

	result := &ChapterResponse{
		ID:            c.ID,
		WorkID:        c.WorkID,
		WorkTitle:     w.Title,
		ChapterNumber: c.ChapterNumber,
		Title:         c.Title,
		Content:       c.Content,
		AuthorNote:    c.AuthorNote,
		TotalChapters: int(total),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.ChapterNumber > 1 {
		prev := c.ChapterNumber - 1
		result.PrevNumber = &prev
	}
	if int64(c.ChapterNumber) < total {
		next := c.ChapterNumber + 1
		result.NextNumber = &next
	}
	return result, nil
}

// RecordView 记录一次阅读，返回是否计数
// 配置了 Redis 时同一访客在窗口期内只计一次；Redis 出错时照常计数
func (s *WorkService) RecordView(ctx context.Context, workID, viewerKey string) (bool, error) {
	if s.cache != nil && viewerKey != "" {
		first, err := s.cache.Once(ctx, s.cache.Key("view", workID, viewerKey), s.viewWindow)
		if err != nil {
			zap.L().Warn("浏览去重失败", zap.String("work_id", workID), zap.Error(err))
		} else if !first {
			return false, nil
		}
	}

	affected, err := s.repo.IncrementViewCount(ctx, workID)
	if err != nil {
		return false, response.NewInternal("记录阅读失败", err)
	}
	if affected == 0 {
		return false, ErrWorkNotFound
	}
	return true, nil
}

// ListTags 全部标签
func (s *WorkService) ListTags(ctx context.Context) ([]TagResponse, error) {
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, response.NewInternal("获取标签失败", err)
	}
	return toTagResponses(tags), nil
}

// SearchTags 按名称模糊搜索标签
func (s *WorkService) SearchTags(ctx context.Context, q string) ([]TagResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []TagResponse{}, nil
	}
	tags, err := s.repo.SearchTags(ctx, q, tagSearchLimit)
	if err != nil {
		return nil, response.NewInternal("搜索标签失败", err)
	}
	return toTagResponses(tags), nil
}

// enrich 填充作者与标签
func (s *WorkService) enrich(ctx context.Context, works []workModel.Work) ([]*WorkResponse, error) {
	ids := make([]string, 0, len(works))
	authorIDs := make([]string, 0, len(works))
	for _, w := range works {
		ids = append(ids, w.ID)
		authorIDs = append(authorIDs, w.UserID)
	}

	tagsByWork, err := s.repo.TagNamesByWork(ctx, ids)
	if err != nil {
		return nil, response.NewInternal("获取作品标签失败", err)
	}
	authors := map[string]*dto.AuthorInfo{}
	if s.authors != nil && len(authorIDs) > 0 {
		if authors, err = s.authors.GetProfilesByIDs(ctx, authorIDs); err != nil {
			return nil, err
		}
	}

	result := make([]*WorkResponse, 0, len(works))
	for i := range works {
		item := ToWorkResponse(&works[i])
		item.Author = authors[works[i].UserID]
		if tags := tagsByWork[works[i].ID]; tags != nil {
			item.Tags = tags
		}
		result = append(result, item)
	}
	return result, nil
}

func stripContent(items []*WorkResponse) []*WorkResponse {
	for _, item := range items {
		item.Content = ""
	}
	return items
}

// NormalizeTags 去除空白与重复标签，保持提交顺序
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if len([]rune(t)) > maxTagLength {
			return nil, ErrTagTooLong
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func normalizeCategory(category string) (string, error) {
	switch category {
	case "":
		return workModel.CategoryOriginal, nil
	case workModel.CategoryOriginal, workModel.CategoryFanfiction:
		return category, nil
	default:
		return "", ErrInvalidCategory
	}
}

func validChapter(ch ChapterInput) bool {
	return strings.TrimSpace(ch.Title) != "" && strings.TrimSpace(ch.Content) != ""
}

func toTagResponses(tags []workModel.Tag) []TagResponse {
	result := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		result = append(result, TagResponse{ID: t.ID, Name: t.Name})
	}
	return result
}

func workNotFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrWorkNotFound
	}
	return response.NewInternal("查询作品失败", err)
}
