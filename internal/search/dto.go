package search

import (
	"github.com/mooner2666/inke3/internal/dto"
	"github.com/mooner2666/inke3/internal/forum"
	"github.com/mooner2666/inke3/internal/profile"
	"github.com/mooner2666/inke3/internal/work"
)

// SearchResponse 全站搜索结果
type SearchResponse struct {
	Query   string                `json:"query"`
	Works   []*work.WorkResponse  `json:"works"`
	Posts   []*forum.PostResponse `json:"posts"`
	Tags    []work.TagResponse    `json:"tags"`
	Authors []*dto.AuthorInfo     `json:"authors"`
}

// HomeResponse 首页
type HomeResponse struct {
	LatestWorks []*work.WorkResponse  `json:"latest_works"`
	LatestPosts []*forum.PostResponse `json:"latest_posts"`
}

// ProfilePageResponse 个人主页
type ProfilePageResponse struct {
	Profile *profile.ProfileResponse `json:"profile"`
	Works   []*work.WorkResponse     `json:"works"`
	Posts   []*forum.PostResponse    `json:"posts"`
}

func emptyResult(q string) *SearchResponse {
	return &SearchResponse{
		Query:   q,
		Works:   []*work.WorkResponse{},
		Posts:   []*forum.PostResponse{},
		Tags:    []work.TagResponse{},
		Authors: []*dto.AuthorInfo{},
	}
}
