package config

import (
	"os"
	"strconv"
	"time"
)

// GetEnv 获取环境变量，如果不存在则返回默认值
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvInt 获取环境变量（整型）
func GetEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// GetEnvFloat 获取环境变量（浮点型）
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// GetEnvBool 获取环境变量（布尔型）
func GetEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// Config 应用配置（启动时构建一次，之后只读）
type Config struct {
	Server      *ServerConfig
	Database    *DatabaseConfig
	Redis       *RedisConfig
	JWT         *JWTConfig
	SMTP        *SMTPConfig
	PenaltyRate float64 // 逾期罚金（每天）
}

// SMTPConfig 邮件配置
type SMTPConfig struct {
	Host      string
	Port      int
	Secure    bool
	User      string
	Password  string
	FromEmail string
	FromName  string
}

// Load 从环境变量构建应用配置
func Load() *Config {
	return &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		JWT: &JWTConfig{
			SecretKey:      GetEnv("JWT_SECRET", "mini_library"),
			ExpirationTime: time.Duration(GetEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
			Issuer:         "minilibrary",
		},
		SMTP: &SMTPConfig{
			Host:      GetEnv("SMTP_HOST", ""),
			Port:      GetEnvInt("SMTP_PORT", 587),
			Secure:    GetEnvBool("SMTP_SECURE", false),
			User:      GetEnv("SMTP_USER", ""),
			Password:  GetEnv("SMTP_PASSWORD", ""),
			FromEmail: GetEnv("SMTP_FROM_EMAIL", "noreply@minilibrary.com"),
			FromName:  GetEnv("SMTP_FROM_NAME", "Library Team"),
		},
		PenaltyRate: GetEnvFloat("PENALTY_RATE", 1),
	}
}
