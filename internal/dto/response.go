package dto

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	res "github.com/mooner2666/inke3/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(http.StatusOK, res.SuccessResponse(data))
}

// CreatedResponse 创建成功
func CreatedResponse(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, res.SuccessResponse(data))
}

func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	c.JSON(err.HTTPStatus(), res.ErrorResponse(err.Code, err.Msg))
}

// HandleError 统一错误处理
// 业务错误原样返回，记录不存在转为 NotFound，其余记录日志后返回内部错误
func HandleError(c *gin.Context, err error) {
	var be *res.BusinessError
	switch {
	case errors.As(err, &be):
		if be.Code == res.Fail && be.Err != nil {
			zap.L().Error(be.Msg, zap.Error(be.Err), zap.String("path", c.FullPath()))
		}
		ErrorResponse(c, be)
	case errors.Is(err, gorm.ErrRecordNotFound):
		ErrorResponse(c, res.NewNotFound("资源不存在"))
	default:
		zap.L().Error("请求处理失败", zap.Error(err), zap.String("path", c.FullPath()))
		ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.Fail),
			res.WithErrorMessage("服务器内部错误"),
		))
	}
}

// ValidationErrorResponse 处理验证错误，返回友好的JSON字段名
func ValidationErrorResponse(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		firstErr := validationErrs[0]
		jsonField := toSnakeCase(firstErr.Field())

		var message string
		switch firstErr.Tag() {
		case "required":
			message = fmt.Sprintf("字段 '%s' 是必填项", jsonField)
		case "max":
			message = fmt.Sprintf("字段 '%s' 长度不能超过 %s", jsonField, firstErr.Param())
		case "min":
			message = fmt.Sprintf("字段 '%s' 长度不能少于 %s", jsonField, firstErr.Param())
		case "oneof":
			message = fmt.Sprintf("字段 '%s' 必须是以下值之一: %s", jsonField, firstErr.Param())
		case "url":
			message = fmt.Sprintf("字段 '%s' 必须是合法的 URL", jsonField)
		default:
			message = fmt.Sprintf("字段 '%s' 验证失败: %s", jsonField, firstErr.Tag())
		}

		ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.ParseError),
			res.WithErrorMessage(message),
		))
		return
	}

	// 如果不是 validation 错误，返回原始错误消息
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("参数错误: "+err.Error()),
	))
}

// toSnakeCase 将PascalCase转换为snake_case，连续大写视为一个词 (AvatarURL -> avatar_url)
func toSnakeCase(s string) string {
	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if i > 0 && upper {
			prevLower := runes[i-1] < 'A' || runes[i-1] > 'Z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
