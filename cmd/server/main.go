package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mcoot/lettergame/internal/api"
	"github.com/mcoot/lettergame/internal/factory"
	"github.com/mcoot/lettergame/internal/services/auth"
	redisstorage "github.com/mcoot/lettergame/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	authCfg := auth.DefaultConfig()
	authCfg.Secret = []byte(os.Getenv("JWT_SECRET"))

	cfg := factory.Config{
		AuthConfig:  authCfg,
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	if raw := os.Getenv("LOBBY_COUNT"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 1 {
			logger.Error("LOBBY_COUNT must be a positive integer", slog.String("value", raw))
			os.Exit(1)
		}
		cfg.LobbyCount = count
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		if prefix := os.Getenv("REDIS_KEY_PREFIX"); prefix != "" {
			redisCfg.KeyPrefix = prefix
		}
		cfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dictionaryDir := os.Getenv("DICTIONARY_DIR")
	if dictionaryDir == "" {
		dictionaryDir = "data"
	}
	if err := app.DictionaryService.LoadFromDir(ctx, dictionaryDir); err != nil {
		logger.Warn("could not load dictionaries", slog.String("error", err.Error()))
	}

	go app.RulesTicker.Run(ctx)
	go app.RunHousekeeping(ctx, factory.HousekeepingInterval)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Lobbies:     app.Lobbies,
		HubManager:  app.HubManager,
	})

	serverConfig := api.DefaultServerConfig()
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		serverConfig.Addr = addr
	}
	server := api.NewServer(apiRouter, serverConfig, logger)

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
