package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// SnapshotTTL bounds how long a shared snapshot survives in Redis
const SnapshotTTL = 24 * time.Hour

func JobsKey(userID string) string {
	return fmt.Sprintf("jobhunter:jobs:user:%s", userID)
}

func ProfileKey(userID string) string {
	return fmt.Sprintf("jobhunter:profile:user:%s", userID)
}

type envelope[T any] struct {
	SavedAt time.Time `json:"saved_at"`
	Data    T         `json:"data"`
}

// Redis stores snapshots in Redis so several machines can share them
type Redis struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewRedis connects and pings the server
func NewRedis(addr, password string, db int, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisFromClient(client, logger), nil
}

// NewRedisFromClient wraps an existing client
func NewRedisFromClient(client *redis.Client, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, logger: logger, ttl: SnapshotTTL}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("set cache: %w", err)
	}
	return nil
}

func (r *Redis) get(ctx context.Context, key string, dest any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		r.logger.Error("failed to get cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("get cache: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

func (r *Redis) SaveJobs(ctx context.Context, userID string, jobs []models.Job) error {
	return r.set(ctx, JobsKey(userID), envelope[[]models.Job]{SavedAt: time.Now().UTC(), Data: jobs})
}

func (r *Redis) LoadJobs(ctx context.Context, userID string) ([]models.Job, time.Time, error) {
	var env envelope[[]models.Job]
	if err := r.get(ctx, JobsKey(userID), &env); err != nil {
		return nil, time.Time{}, err
	}
	if env.Data == nil {
		env.Data = []models.Job{}
	}
	return env.Data, env.SavedAt, nil
}

func (r *Redis) SaveProfile(ctx context.Context, userID string, user *models.User) error {
	if user == nil {
		if err := r.client.Del(ctx, ProfileKey(userID)).Err(); err != nil {
			return fmt.Errorf("delete cache: %w", err)
		}
		return nil
	}
	return r.set(ctx, ProfileKey(userID), envelope[*models.User]{SavedAt: time.Now().UTC(), Data: user})
}

func (r *Redis) LoadProfile(ctx context.Context, userID string) (*models.User, time.Time, error) {
	var env envelope[*models.User]
	if err := r.get(ctx, ProfileKey(userID), &env); err != nil {
		return nil, time.Time{}, err
	}
	return env.Data, env.SavedAt, nil
}
