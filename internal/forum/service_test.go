package forum

import (
	"context"
	"testing"
	"time"

	"github.com/mooner2666/inke3/internal/dto"
	forumModel "github.com/mooner2666/inke3/internal/model/forum"
	notificationModel "github.com/mooner2666/inke3/internal/model/notification"
	"github.com/mooner2666/inke3/internal/notification"
	"github.com/mooner2666/inke3/internal/profile"
	"github.com/mooner2666/inke3/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*ForumService, *gorm.DB) {
	db := testutils.SetupTestDB(t)
	authors := profile.NewProfileService(profile.NewProfileRepository(db))
	notifier := notification.NewNotificationService(notification.NewNotificationRepository(db), authors, nil, notification.Options{})
	return NewForumService(db, NewForumRepository(db), authors, notifier), db
}

func strPtr(s string) *string { return &s }

func notificationsOf(t *testing.T, db *gorm.DB, userID string) []notificationModel.Notification {
	t.Helper()
	var list []notificationModel.Notification
	require.NoError(t, db.Where("user_id = ?", userID).Order("created_at").Find(&list).Error)
	return list
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	u := testutils.CreateTestProfile(db)

	post, err := svc.CreatePost(ctx, u.ID, &CreatePostRequest{Title: "  hello  ", Content: "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Title)
	assert.Equal(t, forumModel.CategoryGeneral, post.Category, "默认分类")
	require.NotNil(t, post.Author)
	assert.Equal(t, u.Username, post.Author.Username)
	assert.Zero(t, post.CommentCount)

	_, err = svc.CreatePost(ctx, u.ID, &CreatePostRequest{Title: "t", Content: "c", Category: "news"})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.CreatePost(ctx, u.ID, &CreatePostRequest{Title: "   ", Content: "c"})
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestListPosts(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	u := testutils.CreateTestProfile(db)
	base := time.Now().Add(-time.Hour)

	old := testutils.CreateTestPost(db, u.ID, testutils.WithPostTitle("old"), testutils.WithPostCreatedAt(base))
	testutils.CreateTestPost(db, u.ID, testutils.WithPostTitle("chat"),
		testutils.WithPostCategory(forumModel.CategoryChat), testutils.WithPostCreatedAt(base.Add(time.Minute)))
	testutils.CreateTestPost(db, u.ID, testutils.WithPostTitle("new"), testutils.WithPostCreatedAt(base.Add(2*time.Minute)))

	testutils.CreateTestComment(db, old.ID, u.ID, nil, base.Add(time.Second))
	deleted := testutils.CreateTestComment(db, old.ID, u.ID, nil, base.Add(2*time.Second))
	require.NoError(t, db.Model(deleted).Update("is_deleted", true).Error)

	result, err := svc.ListPosts(ctx, "", dto.PageQuery{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "new", result.Items[0].Title)
	assert.Equal(t, "chat", result.Items[1].Title)

	result, err = svc.ListPosts(ctx, "", dto.PageQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "old", result.Items[0].Title)
	assert.Equal(t, int64(1), result.Items[0].CommentCount, "已删除评论不计数")

	result, err = svc.ListPosts(ctx, forumModel.CategoryChat, dto.PageQuery{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "chat", result.Items[0].Title)

	_, err = svc.ListPosts(ctx, "bogus", dto.PageQuery{Page: 1, PageSize: 20})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestUpdatePost_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	owner := testutils.CreateTestProfile(db)
	other := testutils.CreateTestProfile(db)
	p := testutils.CreateTestPost(db, owner.ID)

	_, err := svc.UpdatePost(ctx, p.ID, other.ID, &UpdatePostRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotPostOwner)

	updated, err := svc.UpdatePost(ctx, p.ID, owner.ID, &UpdatePostRequest{
		Title:    strPtr("new title"),
		Category: strPtr(forumModel.CategoryChat),
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, forumModel.CategoryChat, updated.Category)
	assert.Equal(t, p.Content, updated.Content, "未提供的字段保持不变")

	_, err = svc.UpdatePost(ctx, "missing", owner.ID, &UpdatePostRequest{})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePost_Cascade(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	owner := testutils.CreateTestProfile(db)
	other := testutils.CreateTestProfile(db)
	p := testutils.CreateTestPost(db, owner.ID)

	_, err := svc.CreateComment(ctx, p.ID, other.ID, &CreateCommentRequest{Content: "hi"})
	require.NoError(t, err)
	require.Len(t, notificationsOf(t, db, owner.ID), 1)

	assert.ErrorIs(t, svc.DeletePost(ctx, p.ID, other.ID), ErrNotPostOwner)
	require.NoError(t, svc.DeletePost(ctx, p.ID, owner.ID))

	_, err = svc.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	var n int64
	require.NoError(t, db.Model(&forumModel.Comment{}).Where("post_id = ?", p.ID).Count(&n).Error)
	assert.Zero(t, n)
	assert.Empty(t, notificationsOf(t, db, owner.ID))
}

func TestCreateComment_Notifications(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	owner := testutils.CreateTestProfile(db)
	alice := testutils.CreateTestProfile(db)
	bob := testutils.CreateTestProfile(db)
	p := testutils.CreateTestPost(db, owner.ID)

	top, err := svc.CreateComment(ctx, p.ID, alice.ID, &CreateCommentRequest{Content: "first"})
	require.NoError(t, err)
	assert.Nil(t, top.ParentID)
	require.NotNil(t, top.Author)
	assert.Equal(t, alice.Username, top.Author.Username)

	reply, err := svc.CreateComment(ctx, p.ID, bob.ID, &CreateCommentRequest{Content: "reply", ParentID: &top.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, top.ID, *reply.ParentID)

	ownerNotes := notificationsOf(t, db, owner.ID)
	require.Len(t, ownerNotes, 1)
	assert.Equal(t, notificationModel.TypeComment, ownerNotes[0].Type)
	assert.Equal(t, alice.ID, ownerNotes[0].ActorID)

	aliceNotes := notificationsOf(t, db, alice.ID)
	require.Len(t, aliceNotes, 1)
	assert.Equal(t, notificationModel.TypeReply, aliceNotes[0].Type)
	require.NotNil(t, aliceNotes[0].CommentID)
	assert.Equal(t, reply.ID, *aliceNotes[0].CommentID)

	// 作者回复自己的帖子不产生通知
	_, err = svc.CreateComment(ctx, p.ID, owner.ID, &CreateCommentRequest{Content: "self"})
	require.NoError(t, err)
	assert.Len(t, notificationsOf(t, db, owner.ID), 1)
}

func TestCreateComment_InvalidParent(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	u := testutils.CreateTestProfile(db)
	p1 := testutils.CreateTestPost(db, u.ID)
	p2 := testutils.CreateTestPost(db, u.ID)
	foreign := testutils.CreateTestComment(db, p2.ID, u.ID, nil, time.Now())

	_, err := svc.CreateComment(ctx, p1.ID, u.ID, &CreateCommentRequest{Content: "x", ParentID: strPtr("missing")})
	assert.ErrorIs(t, err, ErrInvalidParentID)

	_, err = svc.CreateComment(ctx, p1.ID, u.ID, &CreateCommentRequest{Content: "x", ParentID: &foreign.ID})
	assert.ErrorIs(t, err, ErrInvalidParentID)

	_, err = svc.CreateComment(ctx, "missing", u.ID, &CreateCommentRequest{Content: "x"})
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.CreateComment(ctx, p1.ID, u.ID, &CreateCommentRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	require.NoError(t, svc.DeleteComment(ctx, foreign.ID, u.ID))
	_, err = svc.CreateComment(ctx, p2.ID, u.ID, &CreateCommentRequest{Content: "x", ParentID: &foreign.ID})
	assert.ErrorIs(t, err, ErrCommentDeleted)
}

func TestListComments_Tree(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	u := testutils.CreateTestProfile(db)
	p := testutils.CreateTestPost(db, u.ID)
	base := time.Now().Add(-time.Hour)

	a := testutils.CreateTestComment(db, p.ID, u.ID, nil, base)
	b := testutils.CreateTestComment(db, p.ID, u.ID, nil, base.Add(time.Minute))
	a2 := testutils.CreateTestComment(db, p.ID, u.ID, &a.ID, base.Add(3*time.Minute))
	a1 := testutils.CreateTestComment(db, p.ID, u.ID, &a.ID, base.Add(2*time.Minute))
	a1x := testutils.CreateTestComment(db, p.ID, u.ID, &a1.ID, base.Add(4*time.Minute))

	result, err := svc.ListComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	require.Len(t, result.Comments, 2)
	assert.Equal(t, a.ID, result.Comments[0].ID)
	assert.Equal(t, b.ID, result.Comments[1].ID)

	replies := result.Comments[0].Replies
	require.Len(t, replies, 2)
	assert.Equal(t, a1.ID, replies[0].ID, "回复按时间升序")
	assert.Equal(t, a2.ID, replies[1].ID)
	require.Len(t, replies[0].Replies, 1)
	assert.Equal(t, a1x.ID, replies[0].Replies[0].ID)
	assert.NotNil(t, result.Comments[1].Replies, "空回复序列化为数组")

	_, err = svc.ListComments(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestListComments_DeletedKeepsPosition(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	alice := testutils.CreateTestProfile(db)
	bob := testutils.CreateTestProfile(db)
	p := testutils.CreateTestPost(db, alice.ID)
	base := time.Now().Add(-time.Hour)

	parent := testutils.CreateTestComment(db, p.ID, alice.ID, nil, base)
	child := testutils.CreateTestComment(db, p.ID, bob.ID, &parent.ID, base.Add(time.Minute))

	assert.ErrorIs(t, svc.DeleteComment(ctx, parent.ID, bob.ID), ErrNotCommentOwner)
	require.NoError(t, svc.DeleteComment(ctx, parent.ID, alice.ID))
	assert.ErrorIs(t, svc.DeleteComment(ctx, parent.ID, alice.ID), ErrCommentNotFound)

	result, err := svc.ListComments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, result.Comments, 1)
	root := result.Comments[0]
	assert.True(t, root.IsDeleted)
	assert.Equal(t, DeletedCommentContent, root.Content)
	assert.Nil(t, root.Author)
	assert.Empty(t, root.UserID)
	require.Len(t, root.Replies, 1)
	assert.Equal(t, child.ID, root.Replies[0].ID)
	require.NotNil(t, root.Replies[0].Author)
	assert.Equal(t, bob.Username, root.Replies[0].Author.Username)

	post, err := svc.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.CommentCount)
	assert.Equal(t, 1, result.Total, "已删除评论不计入总数")
	assert.Equal(t, post.CommentCount, int64(result.Total))
}

func TestListComments_CycleAndDangling(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	u := testutils.CreateTestProfile(db)
	p := testutils.CreateTestPost(db, u.ID)
	base := time.Now().Add(-time.Hour)

	x := testutils.CreateTestComment(db, p.ID, u.ID, nil, base)
	y := testutils.CreateTestComment(db, p.ID, u.ID, &x.ID, base.Add(time.Minute))
	orphan := testutils.CreateTestComment(db, p.ID, u.ID, strPtr("gone"), base.Add(2*time.Minute))
	// x -> y -> x 形成环
	require.NoError(t, db.Model(x).Update("parent_id", y.ID).Error)

	result, err := svc.ListComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Comments, 2)
	assert.Equal(t, x.ID, result.Comments[0].ID, "环中最早的评论成为根")
	require.Len(t, result.Comments[0].Replies, 1)
	assert.Equal(t, y.ID, result.Comments[0].Replies[0].ID)
	assert.Equal(t, orphan.ID, result.Comments[1].ID, "父评论不存在时视为顶级")
}

func TestUpdateComment(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	alice := testutils.CreateTestProfile(db)
	bob := testutils.CreateTestProfile(db)
	p := testutils.CreateTestPost(db, alice.ID)
	c := testutils.CreateTestComment(db, p.ID, alice.ID, nil, time.Now())

	_, err := svc.UpdateComment(ctx, c.ID, bob.ID, &UpdateCommentRequest{Content: "hack"})
	assert.ErrorIs(t, err, ErrNotCommentOwner)

	updated, err := svc.UpdateComment(ctx, c.ID, alice.ID, &UpdateCommentRequest{Content: " edited "})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = svc.UpdateComment(ctx, "missing", alice.ID, &UpdateCommentRequest{Content: "x"})
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestLatestAndUserPosts(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	alice := testutils.CreateTestProfile(db)
	bob := testutils.CreateTestProfile(db)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		testutils.CreateTestPost(db, alice.ID, testutils.WithPostCreatedAt(base.Add(time.Duration(i)*time.Minute)))
	}
	last := testutils.CreateTestPost(db, bob.ID, testutils.WithPostCreatedAt(base.Add(10*time.Minute)))

	latest, err := svc.LatestPosts(ctx, 3)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, last.ID, latest[0].ID)

	mine, err := svc.ListPostsByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 4)
}

func TestGetPostsByIDs_KeepsOrder(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	u := testutils.CreateTestProfile(db)
	a := testutils.CreateTestPost(db, u.ID)
	b := testutils.CreateTestPost(db, u.ID)

	posts, err := svc.GetPostsByIDs(ctx, []string{b.ID, "missing", a.ID})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, b.ID, posts[0].ID)
	assert.Equal(t, a.ID, posts[1].ID)

	empty, err := svc.GetPostsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
