// Package profile 用户资料模型
package profile

import "time"

// Profile 用户资料表
// 主键直接使用身份服务签发的用户 ID
type Profile struct {
	ID          string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Username    string    `gorm:"type:varchar(50);not null;uniqueIndex;comment:用户名" json:"username"`
	DisplayName string    `gorm:"type:varchar(100);comment:显示名称" json:"display_name"`
	Bio         string    `gorm:"type:text;comment:个人简介" json:"bio"`
	AvatarURL   string    `gorm:"type:varchar(500);comment:头像地址" json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
