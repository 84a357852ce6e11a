package reaction

// StatusResponse 当前用户对作品的点赞收藏状态
type StatusResponse struct {
	WorkID         string `json:"work_id"`
	Liked          bool   `json:"liked"`
	Favorited      bool   `json:"favorited"`
	LikesCount     int64  `json:"likes_count"`
	FavoritesCount int64  `json:"favorites_count"`
}
