package work

import (
	"context"

	"github.com/mooner2666/inke3/internal/dto"
	workModel "github.com/mooner2666/inke3/internal/model/work"
	wcModel "github.com/mooner2666/inke3/internal/model/workcomment"
	"github.com/mooner2666/inke3/internal/notification"

	"gorm.io/gorm"
)

// WorkRepository 作品仓储层
type WorkRepository struct {
	db *gorm.DB
}

func NewWorkRepository(db *gorm.DB) *WorkRepository {
	return &WorkRepository{db: db}
}

// ===== Work 基础操作 =====

func (r *WorkRepository) GetByID(ctx context.Context, id string) (*workModel.Work, error) {
	var w workModel.Work
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error
	return &w, err
}

// FindByIDs 按 ID 批量查询，不保证顺序
func (r *WorkRepository) FindByIDs(ctx context.Context, ids []string) ([]workModel.Work, error) {
	var works []workModel.Work
	if len(ids) == 0 {
		return works, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&works).Error
	return works, err
}

// List 分页查询，最新在前
func (r *WorkRepository) List(ctx context.Context, filter WorkFilter) ([]workModel.Work, int64, error) {
	var works []workModel.Work
	var total int64

	query := r.db.WithContext(ctx).Model(&workModel.Work{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if len(filter.Tags) > 0 {
		// 只保留带有全部标签的作品
		sub := r.db.Table("work_tags").
			Select("work_tags.work_id").
			Joins("JOIN tags ON tags.id = work_tags.tag_id").
			Where("tags.name IN ?", filter.Tags).
			Group("work_tags.work_id").
			Having("COUNT(DISTINCT tags.id) = ?", len(filter.Tags))
		query = query.Where("id IN (?)", sub)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Order("id").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.PageSize).
		Find(&works).Error
	return works, total, err
}

func (r *WorkRepository) ListByUser(ctx context.Context, userID string) ([]workModel.Work, error) {
	var works []workModel.Work
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&works).Error
	return works, err
}

// Latest 最新的 limit 个作品
func (r *WorkRepository) Latest(ctx context.Context, limit int) ([]workModel.Work, error) {
	var works []workModel.Work
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&works).Error
	return works, err
}

// IncrementViewCount 增加阅读量，返回受影响行数
func (r *WorkRepository) IncrementViewCount(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&workModel.Work{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	return result.RowsAffected, result.Error
}

// DeleteCascade 删除作品及其章节、标签关联、点赞收藏、评论和通知
func (r *WorkRepository) DeleteCascade(tx *gorm.DB, workID string) error {
	var commentIDs []string
	if err := tx.Model(&wcModel.WorkComment{}).Where("work_id = ?", workID).Pluck("id", &commentIDs).Error; err != nil {
		return err
	}
	if len(commentIDs) > 0 {
		if err := tx.Where("comment_id IN ?", commentIDs).Delete(&wcModel.WorkCommentLike{}).Error; err != nil {
			return err
		}
	}

	steps := []any{
		&wcModel.WorkComment{},
		&workModel.Like{},
		&workModel.Favorite{},
		&workModel.WorkTag{},
		&workModel.Chapter{},
	}
	for _, m := range steps {
		if err := tx.Where("work_id = ?", workID).Delete(m).Error; err != nil {
			return err
		}
	}
	if err := notification.DeleteByWork(tx, workID); err != nil {
		return err
	}
	return tx.Where("id = ?", workID).Delete(&workModel.Work{}).Error
}

// ===== Chapter =====

func (r *WorkRepository) ListChapters(ctx context.Context, workID string) ([]workModel.Chapter, error) {
	var chapters []workModel.Chapter
	err := r.db.WithContext(ctx).
		Select("id", "work_id", "chapter_number", "title", "created_at", "updated_at").
		Where("work_id = ?", workID).
		Order("chapter_number ASC").
		Find(&chapters).Error
	return chapters, err
}

func (r *WorkRepository) GetChapter(ctx context.Context, workID string, number int) (*workModel.Chapter, error) {
	var c workModel.Chapter
	err := r.db.WithContext(ctx).
		Where("work_id = ? AND chapter_number = ?", workID, number).
		First(&c).Error
	return &c, err
}

func (r *WorkRepository) CountChapters(ctx context.Context, workID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&workModel.Chapter{}).Where("work_id = ?", workID).Count(&count).Error
	return count, err
}

// ===== Tag =====

// GetOrCreateTags 按名称查找或创建标签
func (r *WorkRepository) GetOrCreateTags(tx *gorm.DB, names []string) ([]workModel.Tag, error) {
	tags := make([]workModel.Tag, 0, len(names))
	for _, name := range names {
		var tag workModel.Tag
		if err := tx.Where(workModel.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// ReplaceWorkTags 用给定标签替换作品的标签集合
func (r *WorkRepository) ReplaceWorkTags(tx *gorm.DB, workID string, tags []workModel.Tag) error {
	if err := tx.Where("work_id = ?", workID).Delete(&workModel.WorkTag{}).Error; err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	links := make([]workModel.WorkTag, 0, len(tags))
	for _, t := range tags {
		links = append(links, workModel.WorkTag{WorkID: workID, TagID: t.ID})
	}
	return tx.Create(&links).Error
}

type workTagRow struct {
	WorkID string
	Name   string
}

// TagNamesByWork 每个作品的标签名，按名称排序
func (r *WorkRepository) TagNamesByWork(ctx context.Context, workIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(workIDs))
	if len(workIDs) == 0 {
		return result, nil
	}

	var rows []workTagRow
	err := r.db.WithContext(ctx).Table("work_tags").
		Select("work_tags.work_id AS work_id, tags.name AS name").
		Joins("JOIN tags ON tags.id = work_tags.tag_id").
		Where("work_tags.work_id IN ?", workIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.WorkID] = append(result[row.WorkID], row.Name)
	}
	return result, nil
}

func (r *WorkRepository) ListTags(ctx context.Context) ([]workModel.Tag, error) {
	var tags []workModel.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// SearchTags 标签名包含 q（不区分大小写）
func (r *WorkRepository) SearchTags(ctx context.Context, q string, limit int) ([]workModel.Tag, error) {
	var tags []workModel.Tag
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, dto.LikePattern(q)).
		Order("name ASC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}
