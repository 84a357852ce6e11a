package work

import (
	"context"
	"testing"
	"time"

	"github.com/mooner2666/inke3/internal/dto"
	notificationModel "github.com/mooner2666/inke3/internal/model/notification"
	workModel "github.com/mooner2666/inke3/internal/model/work"
	wcModel "github.com/mooner2666/inke3/internal/model/workcomment"
	"github.com/mooner2666/inke3/internal/profile"
	"github.com/mooner2666/inke3/internal/testutils"
	"github.com/mooner2666/inke3/packages/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T, cache *database.RedisClient) (*WorkService, *gorm.DB) {
	db := testutils.SetupTestDB(t)
	authors := profile.NewProfileService(profile.NewProfileRepository(db))
	svc := NewWorkService(db, NewWorkRepository(db), authors, cache, Options{ViewDedupeWindow: time.Minute})
	return svc, db
}

func strPtr(s string) *string { return &s }

func createReq(title string, tags []string, chapters ...string) *CreateWorkRequest {
	req := &CreateWorkRequest{Title: title, Description: "desc", Tags: tags}
	for _, ch := range chapters {
		req.Chapters = append(req.Chapters, ChapterInput{Title: ch, Content: ch + " content"})
	}
	return req
}

func TestCreateWork(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t, nil)
	author := testutils.CreateTestProfile(db)

	got, err := svc.CreateWork(ctx, author.ID, createReq("星海", []string{" 科幻 ", "冒险", "科幻", ""}, "第一章", "第二章"))
	require.NoError(t, err)

	assert.Equal(t, workModel.CategoryOriginal, got.Category)
	assert.Equal(t, author.Username, got.Author.Username)
	assert.ElementsMatch(t, []string{"科幻", "冒险"}, got.Tags)
	require.Len(t, got.Chapters, 2)
	assert.Equal(t, 1, got.Chapters[0].ChapterNumber)
	assert.Equal(t, "第二章", got.Chapters[1].Title)

	// 已存在的标签被复用
	_, err = svc.CreateWork(ctx, author.ID, createReq("另一部", []string{"科幻"}, "序章"))
	require.NoError(t, err)
	var tagCount int64
	require.NoError(t, db.Model(&workModel.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(2), tagCount)
}

func TestCreateWork_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)

	tests := []struct {
		name    string
		req     *CreateWorkRequest
		wantErr error
	}{
		{"没有章节", &CreateWorkRequest{Title: "t"}, ErrNoChapters},
		{"空标题", createReq("  ", nil, "c"), ErrEmptyTitle},
		{"章节内容为空", &CreateWorkRequest{Title: "t", Chapters: []ChapterInput{{Title: "c", Content: " "}}}, ErrInvalidChapter},
		{"未知分类", &CreateWorkRequest{Title: "t", Category: "poem", Chapters: []ChapterInput{{Title: "c", Content: "x"}}}, ErrInvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateWork(ctx, "u-1", tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestListWorks_FilterByAllTags(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t, nil)
	author := testutils.CreateTestProfile(db)

	both, err := svc.CreateWork(ctx, author.ID, createReq("both", []string{"a", "b"}, "c"))
	require.NoError(t, err)
	_, err = svc.CreateWork(ctx, author.ID, createReq("only-a", []string{"a"}, "c"))
	require.NoError(t, err)
	fan := createReq("fan", []string{"a", "b", "c"}, "c")
	fan.Category = workModel.CategoryFanfiction
	fanWork, err := svc.CreateWork(ctx, author.ID, fan)
	require.NoError(t, err)

	page := dto.NormalizePage(1, 20, 100)

	result, err := svc.ListWorks(ctx, WorkFilter{Tags: []string{"a", "b"}, Page: page})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	var ids []string
	for _, item := range result.Items {
		ids = append(ids, item.ID)
		assert.Empty(t, item.Content, "列表不返回正文")
	}
	assert.ElementsMatch(t, []string{both.ID, fanWork.ID}, ids)

	result, err = svc.ListWorks(ctx, WorkFilter{Tags: []string{"a", "b"}, Category: workModel.CategoryFanfiction, Page: page})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, fanWork.ID, result.Items[0].ID)

	result, err = svc.ListWorks(ctx, WorkFilter{Tags: []string{"missing"}, Page: page})
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.NotNil(t, result.Items)

	_, err = svc.ListWorks(ctx, WorkFilter{Category: "poem", Page: page})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestListWorks_NewestFirstAndPaging(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t, nil)
	author := testutils.CreateTestProfile(db)

	base := time.Now().Add(-time.Hour)
	var created []*workModel.Work
	for i := 0; i < 3; i++ {
		created = append(created, testutils.CreateTestWork(db, author.ID, testutils.WithWorkCreatedAt(base.Add(time.Duration(i)*time.Minute))))
	}

	result, err := svc.ListWorks(ctx, WorkFilter{Page: dto.NormalizePage(1, 2, 100)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	require.Len(t, result.Items, 2)
	assert.Equal(t, created[2].ID, result.Items[0].ID)
	assert.Equal(t, created[1].ID, result.Items[1].ID)

	result, err = svc.ListWorks(ctx, WorkFilter{Page: dto.NormalizePage(2, 2, 100)})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, created[0].ID, result.Items[0].ID)
}

func TestUpdateWork_ReconcilesChapters(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t, nil)
	author := testutils.CreateTestProfile(db)

	w, err := svc.CreateWork(ctx, author.ID, createReq("t", []string{"old"}, "one", "two", "three"))
	require.NoError(t, err)
	one, two, three := w.Chapters[0], w.Chapters[1], w.Chapters[2]

	// 调换 three 与 one 的顺序，删除 two，在中间插入新章节
	got, err := svc.UpdateWork(ctx, w.ID, author.ID, &UpdateWorkRequest{
		Title: strPtr("新标题"),
		Tags:  []string{"new"},
		Chapters: []ChapterInput{
			{ID: three.ID, Title: "three*", Content: "3"},
			{Title: "inserted", Content: "i"},
			{ID: one.ID, Title: "one", Content: "1", AuthorNote: "note"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "新标题", got.Title)
	assert.Equal(t, []string{"new"}, got.Tags)
	require.Len(t, got.Chapters, 3)
	assert.Equal(t, three.ID, got.Chapters[0].ID)
	assert.Equal(t, "three*", got.Chapters[0].Title)
	assert.Equal(t, "inserted", got.Chapters[1].Title)
	assert.Equal(t, one.ID, got.Chapters[2].ID)
	for i, ch := range got.Chapters {
		assert.Equal(t, i+1, ch.ChapterNumber)
	}

	var count int64
	require.NoError(t, db.Model(&workModel.Chapter{}).Where("id = ?", two.ID).Count(&count).Error)
	assert.Zero(t, count, "未提交的章节被删除")

	ch, err := svc.GetChapter(ctx, w.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, "note", ch.AuthorNote)
}

func TestUpdateWork_Errors(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t, nil)
	author := testutils.CreateTestProfile(db)
	w, err := svc.CreateWork(ctx, author.ID, createReq("t", nil, "one"))
	require.NoError(t, err)
	other, err := svc.CreateWork(ctx, author.ID, createReq("o", nil, "x"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		workID  string
		userID  string
		req     *UpdateWorkRequest
		wantErr error
	}{
		{"不存在", "missing", author.ID, &UpdateWorkRequest{}, ErrWorkNotFound},
		{"非作者", w.ID, "intruder", &UpdateWorkRequest{}, ErrNotWorkOwner},
		{"清空章节", w.ID, author.ID, &UpdateWorkRequest{Chapters: []ChapterInput{}}, ErrNoChapters},
		{"其他作品的章节", w.ID, author.ID, &UpdateWorkRequest{Chapters: []ChapterInput{{ID: other.Chapters[0].ID, Title: "x", Content: "y"}}}, ErrUnknownChapter},
		{"重复章节", w.ID, author.ID, &UpdateWorkRequest{Chapters: []ChapterInput{
			{ID: w.Chapters[0].ID, Title: "x", Content: "y"},
			{ID: w.Chapters[0].ID, Title: "x", Content: "y"},
		}}, ErrDuplicateChapter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateWork(ctx, tt.workID, tt.userID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// 失败的编辑不会留下部分修改
	got, err := svc.GetWork(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, got.Chapters, 1)
	assert.Equal(t, w.Chapters[0].ID, got.Chapters[0].ID)
}

func TestDeleteWork_Cascade(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t, nil)
	author := testutils.CreateTestProfile(db)
	fan := testutils.CreateTestProfile(db)

	w, err := svc.CreateWork(ctx, author.ID, createReq("t", []string{"x"}, "one", "two"))
	require.NoError(t, err)
	require.NoError(t, db.Create(&workModel.Like{UserID: fan.ID, WorkID: w.ID}).Error)
	require.NoError(t, db.Create(&workModel.Favorite{UserID: fan.ID, WorkID: w.ID}).Error)
	c := testutils.CreateTestWorkComment(db, w.ID, fan.ID, nil, time.Now())
	require.NoError(t, db.Create(&wcModel.WorkCommentLike{CommentID: c.ID, UserID: author.ID}).Error)
	require.NoError(t, db.Create(&notificationModel.Notification{UserID: author.ID, ActorID: fan.ID, Type: notificationModel.TypeLike, WorkID: &w.ID}).Error)

	assert.ErrorIs(t, svc.DeleteWork(ctx, w.ID, fan.ID), ErrNotWorkOwner)
	require.NoError(t, svc.DeleteWork(ctx, w.ID, author.ID))

	for _, m := range []any{
		&workModel.Work{}, &workModel.Chapter{}, &workModel.WorkTag{}, &workModel.Like{},
		&workModel.Favorite{}, &wcModel.WorkComment{}, &wcModel.WorkCommentLike{}, &notificationModel.Notification{},
	} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Zero(t, count, "%T", m)
	}
	var tags int64
	require.NoError(t, db.Model(&workModel.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(1), tags, "标签本身保留")

	_, err = svc.GetWork(ctx, w.ID)
	assert.ErrorIs(t, err, ErrWorkNotFound)
}

func TestGetChapter(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)
	w, err := svc.CreateWork(ctx, "u-1", createReq("t", nil, "one", "two", "three"))
	require.NoError(t, err)

	first, err := svc.GetChapter(ctx, w.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, first.PrevNumber)
	require.NotNil(t, first.NextNumber)
	assert.Equal(t, 2, *first.NextNumber)
	assert.Equal(t, 3, first.TotalChapters)

	last, err := svc.GetChapter(ctx, w.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, *last.PrevNumber)
	assert.Nil(t, last.NextNumber)

	_, err = svc.GetChapter(ctx, w.ID, 4)
	assert.ErrorIs(t, err, ErrChapterNotFound)
	_, err = svc.GetChapter(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrWorkNotFound)

	list, err := svc.ListChapters(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestRecordView(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t, nil)
	w := testutils.CreateTestWork(db, "u-1")

	for i := 0; i < 3; i++ {
		counted, err := svc.RecordView(ctx, w.ID, "viewer")
		require.NoError(t, err)
		assert.True(t, counted, "未配置 Redis 时每次都计数")
	}
	got, err := svc.GetWork(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ViewCount)

	_, err = svc.RecordView(ctx, "missing", "viewer")
	assert.ErrorIs(t, err, ErrWorkNotFound)
}

func TestRecordView_Dedupe(t *testing.T) {
	ctx := context.Background()
	cache, mr := testutils.SetupTestRedis(t)
	svc, db := newService(t, cache)
	w := testutils.CreateTestWork(db, "u-1")

	counted, err := svc.RecordView(ctx, w.ID, "alice")
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = svc.RecordView(ctx, w.ID, "alice")
	require.NoError(t, err)
	assert.False(t, counted, "窗口期内重复阅读不计数")

	counted, err = svc.RecordView(ctx, w.ID, "bob")
	require.NoError(t, err)
	assert.True(t, counted)

	mr.FastForward(2 * time.Minute)
	counted, err = svc.RecordView(ctx, w.ID, "alice")
	require.NoError(t, err)
	assert.True(t, counted, "窗口期过后重新计数")

	got, err := svc.GetWork(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ViewCount)
}

func TestTags(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil)
	_, err := svc.CreateWork(ctx, "u-1", createReq("t", []string{"Fantasy", "sci_fi", "Romance"}, "c"))
	require.NoError(t, err)

	all, err := svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Fantasy", all[0].Name)

	found, err := svc.SearchTags(ctx, "FAN")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Fantasy", found[0].Name)

	found, err = svc.SearchTags(ctx, "_")
	require.NoError(t, err)
	require.Len(t, found, 1, "下划线按字面匹配")
	assert.Equal(t, "sci_fi", found[0].Name)

	found, err = svc.SearchTags(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGetWorksByIDs_KeepsOrder(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t, nil)
	a := testutils.CreateTestWork(db, "u-1")
	b := testutils.CreateTestWork(db, "u-1")

	got, err := svc.GetWorksByIDs(ctx, []string{b.ID, "missing", a.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
}
