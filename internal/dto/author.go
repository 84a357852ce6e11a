package dto

// AuthorInfo 评论、作品、通知中展示的用户信息
type AuthorInfo struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}
