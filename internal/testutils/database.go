package testutils

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mooner2666/inke3/internal/model"
	dbPkg "github.com/mooner2666/inke3/packages/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// SetupTestDB 每个测试使用独立的临时 SQLite 数据库并完成迁移
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "inke3_test.db")
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbPkg.NewGormLogger(zaptest.NewLogger(t), "error"),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupTestRedis 启动内存 Redis
func SetupTestRedis(t *testing.T) (*dbPkg.RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return dbPkg.NewRedisClient(client), mr
}
