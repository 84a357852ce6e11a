package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig Redis 配置
type RedisConfig struct {
	ServiceName  string        // 服务名称，用于日志标识
	Host         string        // Redis 地址
	Port         int           // Redis 端口
	Password     string        // Redis 密码
	DB           int           // Redis 数据库编号
	PoolSize     int           // 连接池大小
	MinIdleConns int           // 最小空闲连接数
	MaxConnAge   time.Duration // 连接最大生命周期
}

// DefaultKeyPrefix 所有业务键的命名空间
const DefaultKeyPrefix = "inke3"

// RedisClient Redis 客户端封装，业务键统一带前缀
type RedisClient struct {
	*redis.Client
	prefix string
}

// NewRedisClient 包装已有的 go-redis 客户端
func NewRedisClient(client *redis.Client) *RedisClient {
	return &RedisClient{Client: client, prefix: DefaultKeyPrefix}
}

// Key 拼接带前缀的键，如 Key("view", id) -> inke3:view:id
func (r *RedisClient) Key(parts ...string) string {
	return r.prefix + ":" + strings.Join(parts, ":")
}

// Once 键不存在时写入并返回 true，ttl 内重复调用返回 false
func (r *RedisClient) Once(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.SetNX(ctx, key, 1, ttl).Result()
}

// GetInt64 读取整数缓存，键不存在时 ok 为 false
func (r *RedisClient) GetInt64(ctx context.Context, key string) (val int64, ok bool, err error) {
	raw, err := r.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	val, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("缓存值不是整数 %s: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisClient) SetInt64(ctx context.Context, key string, val int64, ttl time.Duration) error {
	return r.Set(ctx, key, val, ttl).Err()
}

// Invalidate 删除缓存键
func (r *RedisClient) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.Del(ctx, keys...).Err()
}

// InitRedis 初始化 Redis 连接
func InitRedis(config *RedisConfig) (*RedisClient, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	setRedisDefaults(config)

	options := &redis.Options{
		Addr:            fmt.Sprintf("%s:%d", config.Host, config.Port),
		DB:              config.DB,
		PoolSize:        config.PoolSize,
		MinIdleConns:    config.MinIdleConns,
		ConnMaxLifetime: config.MaxConnAge,
	}

	if config.Password != "" {
		options.Password = config.Password
	}
	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}

	zap.L().Info("Redis连接成功",
		zap.String("service", config.ServiceName),
		zap.String("addr", options.Addr),
		zap.Bool("password", config.Password != ""))

	return NewRedisClient(client), nil
}

// setRedisDefaults 设置默认值
func setRedisDefaults(c *RedisConfig) {
	if c.ServiceName == "" {
		c.ServiceName = "unknown-service"
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = 5
	}
	if c.MaxConnAge == 0 {
		c.MaxConnAge = 1 * time.Hour
	}
}
