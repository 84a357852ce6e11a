package authsdk

import (
	"net/http"
	"strings"
)

// AccessTokenCookie 身份服务写入的 cookie 名称
const AccessTokenCookie = "access_token"

// ExtractTokenFromRequest 从 HTTP 请求中提取 JWT token
// 支持两种方式：
// 1. access_token cookie
// 2. Authorization header (Bearer token)
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoToken
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// GetUserFromRequest 从请求中解析用户信息
// 如果没有 token 或解析失败，返回空的 UserContext（UserID 为空）
func GetUserFromRequest(r *http.Request, secret string) *UserContext {
	token, err := ExtractTokenFromRequest(r)
	if err != nil {
		return &UserContext{}
	}

	user, err := ParseToken(token, secret)
	if err != nil {
		return &UserContext{}
	}

	return user
}
