package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fakenews/internal/classifier"
	"fakenews/internal/config"
	"fakenews/internal/keyword"
	"fakenews/internal/model"
	"fakenews/internal/news"
	"fakenews/internal/notifier"
	"fakenews/internal/queue"
	"fakenews/internal/redis"
	"fakenews/internal/storage"
	"fakenews/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	repo, err := storage.NewPostgres(cfg.Storage.DSN)
	if err != nil {
		logger.Error("failed to connect to storage", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	var cache model.Cache
	if cfg.Redis.Addr != "" {
		rdb, err := redis.New(cfg.Redis.Addr)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		cache = rdb
	}

	consumer, err := queue.NewKafkaConsumer(cfg.Queue.Brokers, cfg.Queue.GroupID, cfg.Queue.Topic, logger)
	if err != nil {
		logger.Error("failed to create consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handle := model.Open(cfg.Model, cache, cfg.Redis.CacheTTL, logger)
	defer handle.Close()

	initCtx, cancelInit := context.WithTimeout(ctx, time.Minute)
	if err := handle.Init(initCtx); err != nil {
		logger.Error("model unavailable, articles will score 0", "error", err)
	}
	cancelInit()

	fakeNews := classifier.NewFakeNews(classifier.NewAdapter(handle, cfg.Model.Timeout, logger))
	svc := news.NewService(repo, keyword.NewScorer(cfg.Keyword.Lexicon), logger)

	var nt notifier.Notifier = notifier.Noop{}
	if cfg.Notifier.TelegramToken != "" {
		nt = notifier.NewTelegram(cfg.Notifier.TelegramToken, cfg.Notifier.TelegramChatIDs)
	}

	w := worker.NewConsumer(consumer, svc, fakeNews, nt, nil, logger)

	go func() {
		if err := w.Start(ctx); err != nil {
			logger.Error("consumer error", "error", err)
		}
	}()

	logger.Info("consumer started", "topic", cfg.Queue.Topic, "group", cfg.Queue.GroupID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
}
