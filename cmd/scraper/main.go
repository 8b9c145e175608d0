package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fakenews/internal/config"
	"fakenews/internal/queue"
	"fakenews/internal/redis"
	"fakenews/internal/scraper"
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

	rdb, err := redis.New(cfg.Redis.Addr)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	publisher, err := queue.NewKafka(cfg.Queue.Brokers, cfg.Queue.Topic)
	if err != nil {
		logger.Error("failed to create queue", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	feed := scraper.NewFeed(cfg.Scraper.Timeout)

	w := worker.NewScraper(feed, publisher, rdb, rdb, cfg.Scraper, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Start(ctx)

	logger.Info("scraper started", "feeds", len(cfg.Scraper.Feeds), "interval", cfg.Scraper.Interval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
}
