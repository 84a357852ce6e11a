package profile

import (
	"time"

	profileModel "github.com/mooner2666/inke3/internal/model/profile"
)

// CreateProfileRequest 创建资料请求
type CreateProfileRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	DisplayName string `json:"display_name" binding:"max=100"`
	Bio         string `json:"bio" binding:"max=2000"`
	AvatarURL   string `json:"avatar_url" binding:"max=500"`
}

// UpdateProfileRequest 更新资料请求，nil 字段不修改
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Bio         *string `json:"bio" binding:"omitempty,max=2000"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,max=500"`
}

// ProfileResponse 资料响应
type ProfileResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToProfileResponse(p *profileModel.Profile) *ProfileResponse {
	return &ProfileResponse{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		CreatedAt:   p.CreatedAt,
	}
}
