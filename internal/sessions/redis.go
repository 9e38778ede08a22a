package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/pipeline"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/lifecycle"
)

// Redis stores checkpoints as JSON strings that expire after the
// configured TTL.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	ready  atomic.Bool
	logger *slog.Logger
}

// NewRedisClient creates a client for cfg. It does not connect.
func NewRedisClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// NewRedis creates a Redis store over client.
func NewRedis(client *redis.Client, cfg *Config, logger *slog.Logger) *Redis {
	return &Redis{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTLDuration(),
		logger: logger.With("system", "sessions"),
	}
}

func (r *Redis) Ready() bool {
	return r.ready.Load()
}

// Start registers a startup ping and a shutdown close with lc.
func (r *Redis) Start(lc *lifecycle.Coordinator) error {
	r.logger.Info("starting session store")
	lc.AddCheck(r)

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), 5*time.Second)
		defer cancel()

		if err := r.client.Ping(ctx).Err(); err != nil {
			r.logger.Error("redis ping failed", "error", err)
			return
		}
		r.ready.Store(true)
		r.logger.Info("session store ready")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		r.ready.Store(false)
		if err := r.client.Close(); err != nil {
			r.logger.Error("redis close failed", "error", err)
			return
		}
		r.logger.Info("session store closed")
	})

	return nil
}

func (r *Redis) key(id uuid.UUID) string {
	return r.prefix + id.String()
}

func (r *Redis) Save(ctx context.Context, cp pipeline.Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := r.client.Set(ctx, r.key(cp.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, id uuid.UUID) (pipeline.Checkpoint, error) {
	return decode(r.client.Get(ctx, r.key(id)).Bytes())
}

func (r *Redis) Take(ctx context.Context, id uuid.UUID) (pipeline.Checkpoint, error) {
	return decode(r.client.GetDel(ctx, r.key(id)).Bytes())
}

func (r *Redis) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}

func decode(data []byte, err error) (pipeline.Checkpoint, error) {
	if errors.Is(err, redis.Nil) {
		return pipeline.Checkpoint{}, ErrNotFound
	}
	if err != nil {
		return pipeline.Checkpoint{}, fmt.Errorf("load checkpoint: %w", err)
	}

	var cp pipeline.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return pipeline.Checkpoint{}, fmt.Errorf("decode checkpoint: %w", err)
	}
	return cp, nil
}
