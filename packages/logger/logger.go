// Package logger zap 日志初始化
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志配置
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, file
	Path   string // Output 为 file 时的日志文件路径
}

// New 根据配置构建 zap 日志
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(opts.Format, "console") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level, err := zapcore.ParseLevel(defaultString(opts.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	switch opts.Output {
	case "", "stdout":
		cfg.OutputPaths = []string{"stdout"}
	case "file":
		if opts.Path == "" {
			return nil, fmt.Errorf("日志输出为 file 时必须配置 path")
		}
		cfg.OutputPaths = []string{opts.Path}
	default:
		return nil, fmt.Errorf("不支持的日志输出: %s", opts.Output)
	}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// Init 构建日志并替换全局 logger，返回用于退出时 Sync 的函数
func Init(opts Options) (func(), error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	undo := zap.ReplaceGlobals(l)
	return func() {
		_ = l.Sync()
		undo()
	}, nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
