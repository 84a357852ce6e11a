package middleware

import (
	"errors"

	"github.com/mooner2666/inke3/internal/dto"
	"github.com/mooner2666/inke3/packages/authsdk"
	"github.com/mooner2666/inke3/packages/response"

	"github.com/gin-gonic/gin"
)

// 上下文中的用户信息键
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextEmail    = "email"
	ContextUserRole = "user_role"
)

func parseToken(c *gin.Context, secret string) (*authsdk.UserContext, error) {
	tokenString, err := authsdk.ExtractTokenFromRequest(c.Request)
	if err != nil {
		if errors.Is(err, authsdk.ErrNoToken) {
			return nil, errors.New("未提供认证令牌")
		}
		return nil, errors.New("认证格式错误")
	}

	user, err := authsdk.ParseToken(tokenString, secret)
	if err != nil {
		if errors.Is(err, authsdk.ErrExpiredToken) {
			return nil, errors.New("认证令牌已过期")
		}
		return nil, errors.New("无效的认证令牌")
	}
	return user, nil
}

func setUser(c *gin.Context, user *authsdk.UserContext) {
	c.Set(ContextUserID, user.UserID)
	c.Set(ContextUsername, user.Username)
	c.Set(ContextEmail, user.Email)
	c.Set(ContextUserRole, user.Role)
}

// JWTAuth JWT 认证中间件（必需认证）
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := parseToken(c, secret)
		if err != nil {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage(err.Error()),
			))
			c.Abort()
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalJWTAuth 可选的 JWT 认证中间件（不强制要求认证，但如果有token则解析）
func OptionalJWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := parseToken(c, secret); err == nil {
			setUser(c, user)
		}
		c.Next()
	}
}

// CurrentUserID 当前登录用户 ID，匿名访问时返回空串
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
