package search

import (
	"context"
	"strings"

	"github.com/mooner2666/inke3/internal/dto"
	"github.com/mooner2666/inke3/internal/forum"
	"github.com/mooner2666/inke3/internal/profile"
	"github.com/mooner2666/inke3/internal/work"
	"github.com/mooner2666/inke3/packages/response"
)

const (
	homeLimit     = 6
	maxQueryRunes = 100
)

// WorkSource 作品查询
type WorkSource interface {
	GetWorksByIDs(ctx context.Context, ids []string) ([]*work.WorkResponse, error)
	LatestWorks(ctx context.Context, limit int) ([]*work.WorkResponse, error)
	SearchTags(ctx context.Context, q string) ([]work.TagResponse, error)
	ListWorksByUser(ctx context.Context, userID string) ([]*work.WorkResponse, error)
}

// PostSource 帖子查询
type PostSource interface {
	GetPostsByIDs(ctx context.Context, ids []string) ([]*forum.PostResponse, error)
	LatestPosts(ctx context.Context, limit int) ([]*forum.PostResponse, error)
	ListPostsByUser(ctx context.Context, userID string) ([]*forum.PostResponse, error)
}

// ProfileSource 用户资料查询
type ProfileSource interface {
	GetProfile(ctx context.Context, id string) (*profile.ProfileResponse, error)
	GetProfilesByIDs(ctx context.Context, ids []string) (map[string]*dto.AuthorInfo, error)
}

type Options struct {
	Limit int // 每类结果的上限
}

type SearchService struct {
	repo    *SearchRepository
	works   WorkSource
	posts   PostSource
	authors ProfileSource
	limit   int
}

func NewSearchService(repo *SearchRepository, works WorkSource, posts PostSource, authors ProfileSource, opts Options) *SearchService {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	return &SearchService{repo: repo, works: works, posts: posts, authors: authors, limit: opts.Limit}
}

// Search 全站搜索，空查询直接返回空结果
func (s *SearchService) Search(ctx context.Context, q string) (*SearchResponse, error) {
	q = strings.TrimSpace(q)
	if runes := []rune(q); len(runes) > maxQueryRunes {
		q = string(runes[:maxQueryRunes])
	}
	result := emptyResult(q)
	if q == "" {
		return result, nil
	}

	workIDs, err := s.repo.WorkIDs(ctx, q, s.limit)
	if err != nil {
		return nil, response.NewInternal("搜索作品失败", err)
	}
	if result.Works, err = s.works.GetWorksByIDs(ctx, workIDs); err != nil {
		return nil, err
	}

	postIDs, err := s.repo.PostIDs(ctx, q, s.limit)
	if err != nil {
		return nil, response.NewInternal("搜索帖子失败", err)
	}
	if result.Posts, err = s.posts.GetPostsByIDs(ctx, postIDs); err != nil {
		return nil, err
	}

	if result.Tags, err = s.works.SearchTags(ctx, q); err != nil {
		return nil, err
	}

	profileIDs, err := s.repo.ProfileIDs(ctx, q, s.limit)
	if err != nil {
		return nil, response.NewInternal("搜索作者失败", err)
	}
	if len(profileIDs) > 0 {
		authors, err := s.authors.GetProfilesByIDs(ctx, profileIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range profileIDs {
			if a, ok := authors[id]; ok {
				result.Authors = append(result.Authors, a)
			}
		}
	}
	return result, nil
}

// Home 最新作品与最新帖子
func (s *SearchService) Home(ctx context.Context) (*HomeResponse, error) {
	works, err := s.works.LatestWorks(ctx, homeLimit)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.LatestPosts(ctx, homeLimit)
	if err != nil {
		return nil, err
	}
	return &HomeResponse{LatestWorks: works, LatestPosts: posts}, nil
}

// ProfilePage 个人主页：资料、作品和帖子，均为最新在前
func (s *SearchService) ProfilePage(ctx context.Context, id string) (*ProfilePageResponse, error) {
	p, err := s.authors.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	works, err := s.works.ListWorksByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListPostsByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProfilePageResponse{Profile: p, Works: works, Posts: posts}, nil
}
