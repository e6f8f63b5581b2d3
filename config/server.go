package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisClient 全局 Redis 客户端实例
var RedisClient *redis.Client

// RedisConfig Redis配置结构
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// GetRedisConfig 从环境变量获取Redis配置
func GetRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:     GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       GetEnvInt("REDIS_DB", 0),
		Enabled:  GetEnvBool("REDIS_ENABLED", true),
	}
}

// InitializeRedis 初始化 Redis 客户端
func InitializeRedis(cfg *RedisConfig) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,              // 连接池大小
		MinIdleConns: 5,               // 最小空闲连接
		MaxRetries:   3,               // 最大重试次数
		DialTimeout:  5 * time.Second, // 连接超时
		ReadTimeout:  3 * time.Second, // 读取超时
		WriteTimeout: 3 * time.Second, // 写入超时
		PoolTimeout:  4 * time.Second, // 从连接池获取连接的超时
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✅ Redis client initialized successfully")
	return nil
}

// CloseRedis 关闭 Redis 连接
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// GetRedisClient 获取Redis客户端实例（供其他包使用）
func GetRedisClient() *redis.Client {
	return RedisClient
}

// ServerConfig 服务器配置结构
type ServerConfig struct {
	Port string
	Mode string
}

// GetServerConfig 获取服务器配置
func GetServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: GetEnv("PORT", "3000"),
		Mode: GetEnv("GIN_MODE", "debug"),
	}
}

// SetupRouter 设置路由
func SetupRouter(cfg *ServerConfig) *gin.Engine {
	// 根据环境设置Gin模式
	gin.SetMode(cfg.Mode)

	// 创建Gin实例
	r := gin.New()

	// 恢复panic
	r.Use(gin.Recovery())

	// 健康检查端点（包括数据库和Redis状态）
	r.GET("/health-check", func(c *gin.Context) {
		health := gin.H{"status": "UP"}

		// 检查数据库状态
		if DB != nil {
			sqlDB, err := DB.DB()
			if err == nil && sqlDB.Ping() == nil {
				health["database"] = "connected"
			} else {
				health["database"] = "disconnected"
			}
		}

		// 检查Redis状态
		if RedisClient != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := RedisClient.Ping(ctx).Err(); err == nil {
				health["redis"] = "connected"
			} else {
				health["redis"] = "disconnected"
			}
		}

		c.JSON(200, gin.H{
			"status":  "OK",
			"message": "API is up and running",
			"data":    health,
		})
	})

	return r
}
