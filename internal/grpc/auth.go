package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/mooner2666/inke3/packages/authsdk"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ExtractToken 从 authorization 元数据中取出 Bearer token
func ExtractToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(values[0], "Bearer "))
}

// GetUserFromContext 解析调用方身份
// 没有 token 或解析失败时返回匿名用户
func GetUserFromContext(ctx context.Context, secret string) *authsdk.UserContext {
	user, err := authsdk.ParseToken(ExtractToken(ctx), secret)
	if err != nil {
		return &authsdk.UserContext{}
	}
	return user
}

// LoggingInterceptor 记录每次调用的方法、耗时、状态码和调用方
func LoggingInterceptor(secret string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		}
		if user := GetUserFromContext(ctx, secret); !user.IsAnonymous() {
			fields = append(fields, zap.String("user_id", user.UserID))
		}
		if err != nil {
			zap.L().Warn("gRPC 调用失败", append(fields, zap.Error(err))...)
		} else {
			zap.L().Debug("gRPC 调用", fields...)
		}
		return resp, err
	}
}
