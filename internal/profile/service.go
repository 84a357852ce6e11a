package profile

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/mooner2666/inke3/internal/dto"
	profileModel "github.com/mooner2666/inke3/internal/model/profile"
	"github.com/mooner2666/inke3/packages/response"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = response.NewNotFound("用户不存在")
	ErrProfileExists   = response.NewConflict("用户资料已存在")
	ErrUsernameTaken   = response.NewConflict("用户名已被占用")
	ErrInvalidUsername = response.NewInvalid("用户名只能包含字母、数字和下划线，长度 3-50")
	ErrInvalidAvatar   = response.NewInvalid("头像地址必须是 http(s) URL")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)

type ProfileService struct {
	repo *ProfileRepository
}

func NewProfileService(repo *ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// CreateProfile 为身份服务中的用户创建社区资料
func (s *ProfileService) CreateProfile(ctx context.Context, userID string, req *CreateProfileRequest) (*ProfileResponse, error) {
	username := strings.TrimSpace(req.Username)
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if err := validateAvatar(req.AvatarURL); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, userID); err == nil {
		return nil, ErrProfileExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewInternal("查询用户资料失败", err)
	}

	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, response.NewInternal("查询用户名失败", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = username
	}
	p := &profileModel.Profile{
		ID:          userID,
		Username:    username,
		DisplayName: displayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, response.NewInternal("创建用户资料失败", err)
	}
	return ToProfileResponse(p), nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id string) (*ProfileResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return ToProfileResponse(p), nil
}

func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string) (*ProfileResponse, error) {
	p, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return ToProfileResponse(p), nil
}

// UpdateProfile 只更新请求中出现的字段
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*ProfileResponse, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if req.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		if err := validateAvatar(*req.AvatarURL); err != nil {
			return nil, err
		}
		p.AvatarURL = *req.AvatarURL
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, response.NewInternal("更新用户资料失败", err)
	}
	return ToProfileResponse(p), nil
}

// GetProfilesByIDs 批量获取作者信息，不存在的 ID 不出现在结果中
func (s *ProfileService) GetProfilesByIDs(ctx context.Context, ids []string) (map[string]*dto.AuthorInfo, error) {
	profiles, err := s.repo.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, response.NewInternal("获取用户信息失败", err)
	}

	result := make(map[string]*dto.AuthorInfo, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		result[p.ID] = &dto.AuthorInfo{
			ID:          p.ID,
			Username:    p.Username,
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
		}
	}
	return result, nil
}

func validateAvatar(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidAvatar
	}
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProfileNotFound
	}
	return response.NewInternal("查询用户资料失败", err)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
