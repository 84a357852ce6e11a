package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
		level   zapcore.Level
	}{
		{"默认配置", Options{}, false, zapcore.InfoLevel},
		{"控制台调试", Options{Level: "debug", Format: "console"}, false, zapcore.DebugLevel},
		{"无效级别", Options{Level: "loud"}, true, 0},
		{"文件缺少路径", Options{Output: "file"}, true, 0},
		{"未知输出", Options{Output: "kafka"}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.level))
		})
	}
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	done, err := Init(Options{Level: "info", Output: "file", Path: path})
	require.NoError(t, err)

	zap.L().Info("hello", zap.String("k", "v"))
	done()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}
