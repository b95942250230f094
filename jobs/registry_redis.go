package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed job registry.
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	// TTL bounds how long a job record is retained after its last update.
	TTL time.Duration
}

// RedisRegistry keeps job records in Redis so status queries keep working
// across service instances. Records expire after the configured TTL.
type RedisRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRegistry(ctx context.Context, cfg RedisConfig) (*RedisRegistry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisRegistry{client: client, ttl: ttl}, nil
}

func (r *RedisRegistry) Close() error {
	return r.client.Close()
}

func jobKey(id string) string {
	return "renderbot:job:" + id
}

func (r *RedisRegistry) Create(ctx context.Context, job *Job) error {
	return r.set(ctx, job)
}

func (r *RedisRegistry) SetStatus(ctx context.Context, id string, status Status) error {
	return r.update(ctx, id, func(j *Job) {
		j.Status = status
	})
}

func (r *RedisRegistry) Fail(ctx context.Context, id string, reason string) error {
	return r.update(ctx, id, func(j *Job) {
		j.Status = StatusFailed
		j.Error = reason
	})
}

func (r *RedisRegistry) Complete(ctx context.Context, id string, finalURL string) error {
	return r.update(ctx, id, func(j *Job) {
		j.Status = StatusCompleted
		j.FinalURL = finalURL
	})
}

func (r *RedisRegistry) Get(ctx context.Context, id string) (*Job, error) {
	data, err := r.client.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job record: %w", err)
	}
	return &job, nil
}

func (r *RedisRegistry) update(ctx context.Context, id string, fn func(*Job)) error {
	job, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	fn(job)
	job.UpdatedAt = time.Now().UTC()
	return r.set(ctx, job)
}

func (r *RedisRegistry) set(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job record: %w", err)
	}
	if err := r.client.Set(ctx, jobKey(job.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
