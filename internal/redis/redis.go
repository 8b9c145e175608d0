package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	feedsKey = "feeds"
	seenKey  = "articles:seen"
)

type Client struct {
	rdb *redis.Client
}

func New(addr string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Feed management
func (c *Client) AddFeed(ctx context.Context, url string) error {
	return c.rdb.SAdd(ctx, feedsKey, url).Err()
}

func (c *Client) RemoveFeed(ctx context.Context, url string) error {
	return c.rdb.SRem(ctx, feedsKey, url).Err()
}

func (c *Client) GetFeeds(ctx context.Context) ([]string, error) {
	return c.rdb.SMembers(ctx, feedsKey).Result()
}

func (c *Client) FeedExists(ctx context.Context, url string) (bool, error) {
	return c.rdb.SIsMember(ctx, feedsKey, url).Result()
}

// MarkSeen records an article ID and reports whether it was new.
func (c *Client) MarkSeen(ctx context.Context, id string) (bool, error) {
	added, err := c.rdb.SAdd(ctx, seenKey, id).Result()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

// ForgetSeen removes an article ID so a later pass queues it again.
func (c *Client) ForgetSeen(ctx context.Context, id string) error {
	return c.rdb.SRem(ctx, seenKey, id).Err()
}

// Prediction cache
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}
