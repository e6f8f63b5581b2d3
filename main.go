package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"minilibrary_go/config"
	"minilibrary_go/middleware"
	"minilibrary_go/models"
	"minilibrary_go/routes"
	"minilibrary_go/services"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	//设置环境
	env := os.Getenv("GIN_MODE")
	if env == "" {
		os.Setenv("GIN_MODE", "debug")
	}

	// 初始化日志系统
	if err := middleware.InitLogger(env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer middleware.FlushLogger()

	// 加载应用配置
	cfg := config.Load()
	config.InitJWT(cfg.JWT)

	// 初始化数据库
	if err := config.InitDatabase(cfg.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDatabase()

	// 迁移数据表
	if err := models.Migrate(config.DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化Redis（失败时降级为无缓存运行）
	if cfg.Redis.Enabled {
		if err := config.InitializeRedis(cfg.Redis); err != nil {
			log.Printf("⚠️  Redis unavailable, running without cache: %v", err)
		} else {
			defer config.CloseRedis()
		}
	}

	// 初始化邮件服务和定时任务
	mailer := services.NewEmailService(cfg.SMTP)
	jobs := services.NewCronJobs(mailer)
	if err := jobs.Start(); err != nil {
		log.Fatalf("Failed to start cron jobs: %v", err)
	}
	defer jobs.Stop()

	// 设置路由
	r := config.SetupRouter(cfg.Server)

	// 注册自定义路由
	routes.SetupRoutes(r, cfg, mailer)

	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
