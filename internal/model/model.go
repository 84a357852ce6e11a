package model

import (
	"gorm.io/gorm"

	"github.com/mooner2666/inke3/internal/model/forum"
	"github.com/mooner2666/inke3/internal/model/notification"
	"github.com/mooner2666/inke3/internal/model/profile"
	"github.com/mooner2666/inke3/internal/model/work"
	"github.com/mooner2666/inke3/internal/model/workcomment"
)

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构
	return db.AutoMigrate(
		// 用户资料
		&profile.Profile{},
		// 作品相关模型
		&work.Work{},
		&work.Chapter{},
		&work.Tag{},
		&work.WorkTag{},
		&work.Like{},
		&work.Favorite{},
		// 论坛
		&forum.ForumPost{},
		&forum.Comment{},
		// 作品评论
		&workcomment.WorkComment{},
		&workcomment.WorkCommentLike{},
		// 通知
		&notification.Notification{},
	)
}
