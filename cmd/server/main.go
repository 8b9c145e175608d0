package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fakenews/internal/api"
	"fakenews/internal/classifier"
	"fakenews/internal/config"
	"fakenews/internal/detector"
	"fakenews/internal/keyword"
	"fakenews/internal/model"
	"fakenews/internal/news"
	"fakenews/internal/redis"
	"fakenews/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	if cfg.Storage.Migrate {
		if err := storage.MigrateUp(cfg.Storage.DSN); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	repo, err := storage.NewPostgres(cfg.Storage.DSN)
	if err != nil {
		logger.Error("failed to connect to storage", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	var (
		cache model.Cache
		feeds api.FeedStore
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.New(cfg.Redis.Addr)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		cache, feeds = rdb, rdb
	}

	handle := model.Open(cfg.Model, cache, cfg.Redis.CacheTTL, logger)
	defer handle.Close()

	initCtx, cancelInit := context.WithTimeout(context.Background(), time.Minute)
	if err := handle.Init(initCtx); err != nil {
		logger.Error("model unavailable, serving degraded results", "error", err)
	}
	cancelInit()

	fakeNews := classifier.NewFakeNews(classifier.NewAdapter(handle, cfg.Model.Timeout, logger))
	det := detector.New(fakeNews, handle, cfg.Model.Name, logger)
	svc := news.NewService(repo, keyword.NewScorer(cfg.Keyword.Lexicon), logger)

	server := api.NewServer(det, svc, feeds, handle, logger)

	go func() {
		logger.Info("server starting", "addr", cfg.Server.Port)
		if err := server.Start(cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
