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

	"golang.org/x/sync/errgroup"

	"fakenews/internal/api"
	"fakenews/internal/classifier"
	"fakenews/internal/config"
	"fakenews/internal/detector"
	"fakenews/internal/keyword"
	"fakenews/internal/model"
	"fakenews/internal/news"
	"fakenews/internal/notifier"
	"fakenews/internal/queue"
	"fakenews/internal/redis"
	"fakenews/internal/scraper"
	"fakenews/internal/storage"
	"fakenews/internal/worker"
)

// app runs the API, the feed scraper and the article consumer in one
// process. Classified articles are pushed to the API's event stream.
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

	rdb, err := redis.New(cfg.Redis.Addr)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	publisher, err := queue.NewKafka(cfg.Queue.Brokers, cfg.Queue.Topic)
	if err != nil {
		logger.Error("failed to create publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	consumer, err := queue.NewKafkaConsumer(cfg.Queue.Brokers, cfg.Queue.GroupID, cfg.Queue.Topic, logger)
	if err != nil {
		logger.Error("failed to create consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handle := model.Open(cfg.Model, rdb, cfg.Redis.CacheTTL, logger)
	defer handle.Close()

	initCtx, cancelInit := context.WithTimeout(ctx, time.Minute)
	if err := handle.Init(initCtx); err != nil {
		logger.Error("model unavailable, serving degraded results", "error", err)
	}
	cancelInit()

	fakeNews := classifier.NewFakeNews(classifier.NewAdapter(handle, cfg.Model.Timeout, logger))
	det := detector.New(fakeNews, handle, cfg.Model.Name, logger)
	svc := news.NewService(repo, keyword.NewScorer(cfg.Keyword.Lexicon), logger)

	var nt notifier.Notifier = notifier.Noop{}
	if cfg.Notifier.TelegramToken != "" {
		nt = notifier.NewTelegram(cfg.Notifier.TelegramToken, cfg.Notifier.TelegramChatIDs)
	}

	server := api.NewServer(det, svc, rdb, handle, logger)
	scrapeWorker := worker.NewScraper(scraper.NewFeed(cfg.Scraper.Timeout), publisher, rdb, rdb, cfg.Scraper, logger)
	consumeWorker := worker.NewConsumer(consumer, svc, fakeNews, nt, server, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", "addr", cfg.Server.Port)
		if err := server.Start(cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		scrapeWorker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		return consumeWorker.Start(gctx)
	})

	logger.Info("app started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("app stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("shut down")
}
