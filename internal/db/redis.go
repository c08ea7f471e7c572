package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/voltdesk/voltdesk-backend/internal/config"
)

const refreshKeyPrefix = "refresh:"

var RedisClient *redis.Client

// ErrTokenNotFound is returned for unknown or expired refresh tokens.
var ErrTokenNotFound = errors.New("refresh token not found")

func InitRedis(cfg config.RedisConfig) *redis.Client {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return RedisClient
}

func PingRedis(ctx context.Context) error {
	if RedisClient == nil {
		return fmt.Errorf("redis: not connected")
	}
	return RedisClient.Ping(ctx).Err()
}

// RefreshTokens maps refresh tokens to the username they were issued for.
type RefreshTokens struct {
	client *redis.Client
}

func NewRefreshTokens(client *redis.Client) *RefreshTokens {
	return &RefreshTokens{client: client}
}

func (s *RefreshTokens) Save(ctx context.Context, token, username string, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKeyPrefix+token, username, ttl).Err()
}

func (s *RefreshTokens) Lookup(ctx context.Context, token string) (string, error) {
	username, err := s.client.Get(ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	return username, err
}
