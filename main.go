package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notes-bin/artbed/internal/ai"
	"github.com/notes-bin/artbed/internal/api"
	"github.com/notes-bin/artbed/internal/cache"
	"github.com/notes-bin/artbed/internal/config"
	"github.com/notes-bin/artbed/internal/pipeline"
	"github.com/notes-bin/artbed/internal/redis"
	"github.com/notes-bin/artbed/internal/storage"
)

func main() {
	// 初始化日志
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 加载配置文件
	configFile, err := os.ReadFile("config/config.json")
	if err != nil {
		slog.Error("Failed to read config", "error", err)
		os.Exit(1)
	}
	var cfg config.Config
	if err := json.Unmarshal(configFile, &cfg); err != nil {
		slog.Error("Failed to parse config", "error", err)
		os.Exit(1)
	}

	// 加载提示词/策展指令资源,未知风格在这里直接报错
	policy, err := ai.LoadStylePolicy(cfg.StyleFile)
	if err != nil {
		slog.Error("Failed to load style policy", "error", err)
		os.Exit(1)
	}

	// 初始化 Redis
	redisClient, err := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// 初始化本地对象存储
	store, err := storage.NewStorage(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	// 初始化外部服务客户端
	textClient, err := ai.NewOpenAIText(&cfg.OpenAI)
	if err != nil {
		slog.Error("Failed to initialize text client", "error", err)
		os.Exit(1)
	}
	imageClient, err := ai.NewOpenAIImage(&cfg.OpenAI)
	if err != nil {
		slog.Error("Failed to initialize image client", "error", err)
		os.Exit(1)
	}
	visionClient, err := ai.NewOpenAIVision(&cfg.OpenAI)
	if err != nil {
		slog.Error("Failed to initialize vision client", "error", err)
		os.Exit(1)
	}

	// 组装生成流水线
	retry := ai.DefaultRetryPolicy
	if cfg.Retry.MaxAttempts > 0 {
		retry = ai.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Backoff:     time.Duration(cfg.Retry.BackoffSeconds) * time.Second,
		}
	}
	pipe := pipeline.New(
		ai.NewPromptSynthesizer(textClient, policy),
		ai.NewImageSynthesizer(imageClient, retry),
		ai.NewVisionAnnotator(visionClient),
		ai.NewCurationEngine(textClient, policy),
		store,
		redisClient,
	)

	// 初始化热门标签缓存
	go cache.StartTopTagsRefresh(context.Background(), redisClient, cfg.TopTags.RefreshInterval, cfg.TopTags.Limit)

	// 设置路由
	router := api.SetupRouter(&cfg, redisClient, store, pipe)

	// 启动服务器
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		slog.Info("Server starting on port", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
