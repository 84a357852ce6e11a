package reaction

import (
	"context"
	"sync"
	"testing"
	"time"

	notificationModel "github.com/mooner2666/inke3/internal/model/notification"
	workModel "github.com/mooner2666/inke3/internal/model/work"
	"github.com/mooner2666/inke3/internal/notification"
	"github.com/mooner2666/inke3/internal/profile"
	"github.com/mooner2666/inke3/internal/testutils"
	"github.com/mooner2666/inke3/internal/work"
	"github.com/mooner2666/inke3/packages/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*ReactionService, *gorm.DB) {
	svc, _, db := newServiceWithCache(t, nil)
	return svc, db
}

func newServiceWithCache(t *testing.T, cache *database.RedisClient) (*ReactionService, *notification.NotificationService, *gorm.DB) {
	db := testutils.SetupTestDB(t)
	authors := profile.NewProfileService(profile.NewProfileRepository(db))
	notifier := notification.NewNotificationService(notification.NewNotificationRepository(db), authors, cache, notification.Options{CacheTTL: time.Minute})
	works := work.NewWorkService(db, work.NewWorkRepository(db), authors, nil, work.Options{})
	return NewReactionService(db, NewReactionRepository(db), notifier, works), notifier, db
}

func countNotifications(t *testing.T, db *gorm.DB, userID, typ string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&notificationModel.Notification{}).
		Where("user_id = ? AND type = ?", userID, typ).Count(&n).Error)
	return n
}

func TestLike_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	owner := testutils.CreateTestProfile(db)
	fan := testutils.CreateTestProfile(db)
	w := testutils.CreateTestWork(db, owner.ID)

	status, err := svc.Like(ctx, fan.ID, w.ID)
	require.NoError(t, err)
	assert.True(t, status.Liked)
	assert.Equal(t, int64(1), status.LikesCount)

	status, err = svc.Like(ctx, fan.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.LikesCount, "重复点赞不增加计数")
	assert.Equal(t, int64(1), countNotifications(t, db, owner.ID, notificationModel.TypeLike), "只通知一次")

	status, err = svc.Unlike(ctx, fan.ID, w.ID)
	require.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Zero(t, status.LikesCount)

	status, err = svc.Unlike(ctx, fan.ID, w.ID)
	require.NoError(t, err)
	assert.Zero(t, status.LikesCount, "重复取消不会变成负数")
}

func TestLike_OwnWorkDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	owner := testutils.CreateTestProfile(db)
	w := testutils.CreateTestWork(db, owner.ID)

	status, err := svc.Like(ctx, owner.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.LikesCount)
	assert.Zero(t, countNotifications(t, db, owner.ID, notificationModel.TypeLike))
}

func TestFavorite(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	owner := testutils.CreateTestProfile(db)
	fan := testutils.CreateTestProfile(db)
	w := testutils.CreateTestWork(db, owner.ID)

	status, err := svc.Favorite(ctx, fan.ID, w.ID)
	require.NoError(t, err)
	assert.True(t, status.Favorited)
	assert.False(t, status.Liked)
	assert.Equal(t, int64(1), status.FavoritesCount)
	assert.Equal(t, int64(1), countNotifications(t, db, owner.ID, notificationModel.TypeFavorite))

	status, err = svc.Unfavorite(ctx, fan.ID, w.ID)
	require.NoError(t, err)
	assert.False(t, status.Favorited)
	assert.Zero(t, status.FavoritesCount)
}

func TestMissingWork(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Like(ctx, "u", "missing")
	assert.ErrorIs(t, err, ErrWorkNotFound)
	_, err = svc.Unfavorite(ctx, "u", "missing")
	assert.ErrorIs(t, err, ErrWorkNotFound)
	_, err = svc.GetStatus(ctx, "", "missing")
	assert.ErrorIs(t, err, ErrWorkNotFound)
}

func TestGetStatus_Anonymous(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	w := testutils.CreateTestWork(db, "owner")
	_, err := svc.Like(ctx, "fan", w.ID)
	require.NoError(t, err)

	status, err := svc.GetStatus(ctx, "", w.ID)
	require.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Equal(t, int64(1), status.LikesCount)
}

// 计数始终等于关联行数
func TestCountersMatchRows(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	w := testutils.CreateTestWork(db, "owner")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := []string{"a", "b", "c", "d"}[i%4]
			if i%3 == 0 {
				_, _ = svc.Unlike(ctx, user, w.ID)
			}
			_, _ = svc.Like(ctx, user, w.ID)
		}(i)
	}
	wg.Wait()

	var likes int64
	require.NoError(t, db.Model(&workModel.Like{}).Where("work_id = ?", w.ID).Count(&likes).Error)
	var got workModel.Work
	require.NoError(t, db.First(&got, "id = ?", w.ID).Error)
	assert.Equal(t, likes, got.LikesCount)
}

func TestListFavorites(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	first := testutils.CreateTestWork(db, "owner")
	second := testutils.CreateTestWork(db, "owner")

	base := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&workModel.Favorite{UserID: "fan", WorkID: first.ID, CreatedAt: base}).Error)
	require.NoError(t, db.Create(&workModel.Favorite{UserID: "fan", WorkID: second.ID, CreatedAt: base.Add(time.Minute)}).Error)

	list, err := svc.ListFavorites(ctx, "fan")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "最近收藏在前")
	assert.Equal(t, first.ID, list[1].ID)

	empty, err := svc.ListFavorites(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestLike_RefreshesUnreadCount(t *testing.T) {
	ctx := context.Background()
	cache, _ := testutils.SetupTestRedis(t)
	svc, notifier, db := newServiceWithCache(t, cache)
	owner := testutils.CreateTestProfile(db)
	fan := testutils.CreateTestProfile(db)
	w := testutils.CreateTestWork(db, owner.ID)

	count, err := notifier.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	require.Zero(t, count.Count)

	_, err = svc.Like(ctx, fan.ID, w.ID)
	require.NoError(t, err)
	count, err = notifier.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)

	_, err = svc.Favorite(ctx, fan.ID, w.ID)
	require.NoError(t, err)
	count, err = notifier.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Count)
}
