// config/config.go - 配置管理文件
package config

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	Conf *AppConfig
	once sync.Once
	k    *koanf.Koanf
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Log       LogConfig       `koanf:"log"`
	JWT       JWTConfig       `koanf:"jwt"`
	GRPC      GRPCConfig      `koanf:"grpc"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Community CommunityConfig `koanf:"community"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Mode         string        `koanf:"mode"` // debug, release, test
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	FrontendURL  string        `koanf:"frontend_url"`
}

type DatabaseConfig struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"` // 数据库日志级别
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Output string `koanf:"output"` // stdout, file
	Path   string `koanf:"path"`   // 日志文件路径
}

// JWTConfig 身份服务签发令牌使用的密钥，本服务只负责校验
type JWTConfig struct {
	Secret string `koanf:"secret"`
}

type GRPCConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Port           int           `koanf:"port"`
	HealthInterval time.Duration `koanf:"health_interval"` // 秒
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// CommunityConfig 社区业务参数
type CommunityConfig struct {
	ViewDedupeWindow  time.Duration `koanf:"view_dedupe_window"` // 秒
	NotificationLimit int           `koanf:"notification_limit"`
	MaxPageSize       int           `koanf:"max_page_size"`
	UnreadCacheTTL    time.Duration `koanf:"unread_cache_ttl"` // 秒
}

// Load 加载配置文件
func Load(configPath string) error {
	var err error
	once.Do(func() {
		// 首先加载 .env 文件到环境变量
		if envErr := godotenv.Load(); envErr != nil {
			log.Printf("警告: 无法加载 .env 文件: %v", envErr)
		}

		k = koanf.New(".")

		if err = k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			err = fmt.Errorf("加载配置文件失败: %w", err)
			return
		}

		// 加载环境变量（会覆盖配置文件）
		if envErr := k.Load(env.Provider("", ".", envKey), nil); envErr != nil {
			log.Printf("加载环境变量失败: %v", envErr)
		}

		Conf, err = unmarshal()
	})

	return err
}

// MustLoad 加载配置，失败则 panic
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
}

// Reload 重新加载配置
func Reload(configPath string) error {
	if k == nil {
		return fmt.Errorf("配置未初始化")
	}

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return err
	}

	conf, err := unmarshal()
	if err != nil {
		return err
	}
	Conf = conf
	return nil
}

// GetString 获取字符串配置
func GetString(key string) string {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.String(key)
}

// GetInt 获取整数配置
func GetInt(key string) int {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.Int(key)
}

// GetBool 获取布尔配置
func GetBool(key string) bool {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.Bool(key)
}

// SERVER_PORT -> server.port
func envKey(s string) string {
	return strings.Replace(strings.ToLower(s), "_", ".", 1)
}

func unmarshal() (*AppConfig, error) {
	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// 转换时间单位
	conf.Server.ReadTimeout = conf.Server.ReadTimeout * time.Second
	conf.Server.WriteTimeout = conf.Server.WriteTimeout * time.Second
	conf.Community.ViewDedupeWindow = conf.Community.ViewDedupeWindow * time.Second
	conf.Community.UnreadCacheTTL = conf.Community.UnreadCacheTTL * time.Second
	conf.GRPC.HealthInterval = conf.GRPC.HealthInterval * time.Second

	conf.ApplyDefaults()
	return conf, nil
}

// ApplyDefaults 为未配置的字段填充默认值
func (c *AppConfig) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.FrontendURL == "" {
		c.Server.FrontendURL = "http://localhost:5173"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = 9090
	}
	if c.GRPC.HealthInterval == 0 {
		c.GRPC.HealthInterval = 15 * time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Community.ViewDedupeWindow == 0 {
		c.Community.ViewDedupeWindow = 30 * time.Minute
	}
	if c.Community.NotificationLimit == 0 {
		c.Community.NotificationLimit = 20
	}
	if c.Community.MaxPageSize == 0 {
		c.Community.MaxPageSize = 100
	}
	if c.Community.UnreadCacheTTL == 0 {
		c.Community.UnreadCacheTTL = 30 * time.Second
	}
}
