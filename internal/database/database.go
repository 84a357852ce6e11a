package database

import (
	"fmt"
	"time"

	"github.com/mooner2666/inke3/config"
	"github.com/mooner2666/inke3/internal/model"
	"github.com/mooner2666/inke3/packages/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	PostgresDB  *gorm.DB
	RedisClient *database.RedisClient
)

// InitDatabase 初始化数据库连接，Redis 未启用时保持为 nil
func InitDatabase(conf *config.AppConfig) error {
	if err := initPostgres(conf.Database); err != nil {
		return err
	}
	if conf.Redis.Enabled {
		if err := initRedis(conf.Redis); err != nil {
			return err
		}
	} else {
		zap.L().Info("Redis 未启用，浏览去重与未读缓存将被跳过")
	}
	return nil
}

func initPostgres(databaseConf config.DatabaseConfig) error {
	var err error
	PostgresDB, err = database.InitPostgres(
		&database.PostgresConfig{
			ServiceName:     "inke3",
			Username:        databaseConf.Username,
			Password:        databaseConf.Password,
			Host:            databaseConf.Host,
			Port:            databaseConf.Port,
			Database:        databaseConf.Database,
			SSLMode:         databaseConf.SSLMode,
			LogLevel:        databaseConf.LogLevel,
			MaxIdleConns:    databaseConf.MaxIdleConns,
			MaxOpenConns:    databaseConf.MaxOpenConns,
			ConnMaxLifetime: time.Duration(databaseConf.MaxLifetime) * time.Second,
		},
	)
	return err
}

func initRedis(redisConf config.RedisConfig) error {
	var err error
	RedisClient, err = database.InitRedis(&database.RedisConfig{
		ServiceName: "inke3",
		Host:        redisConf.Host,
		Port:        redisConf.Port,
		Password:    redisConf.Password,
		DB:          redisConf.DB,
		PoolSize:    redisConf.PoolSize,
	})
	return err
}

// Migrate 初始化数据库表
func Migrate() error {
	if PostgresDB == nil {
		return fmt.Errorf("数据库未初始化")
	}
	if err := model.InitTable(PostgresDB); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}

// Close 关闭连接
func Close() {
	if PostgresDB != nil {
		if sqlDB, err := PostgresDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if RedisClient != nil {
		_ = RedisClient.Close()
	}
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return PostgresDB
}

// GetRedis 获取 Redis 实例，未启用时为 nil
func GetRedis() *database.RedisClient {
	return RedisClient
}
