package out

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	venueout "anticafe/internal/modules/venue/port/out"
	"anticafe/internal/platform/config"
)

// RedisSessionProjector indexes sessions as one hash per session plus a
// sorted set of session ids scored by end time.
type RedisSessionProjector struct {
	client *redis.Client
	prefix string
}

func NewRedisSessionProjector(cfg config.RedisConfig) (*RedisSessionProjector, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisSessionProjector{client: client, prefix: cfg.KeyPrefix}, nil
}

func (r *RedisSessionProjector) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, id)
}

func (r *RedisSessionProjector) indexKey() string {
	return r.prefix + ":sessions"
}

func (r *RedisSessionProjector) Reset(ctx context.Context) error {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read session index: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.sessionKey(id))
	}
	keys = append(keys, r.indexKey())
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

func (r *RedisSessionProjector) UpsertSession(ctx context.Context, entry venueout.JournalEntry) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.sessionKey(entry.SessionID), map[string]any{
			"id":         entry.SessionID,
			"table":      entry.Table,
			"started_at": entry.StartedAt.UTC().Format(time.RFC3339Nano),
			"ended_at":   entry.EndedAt.UTC().Format(time.RFC3339Nano),
			"minutes":    entry.Minutes,
			"rate":       entry.Rate,
			"cost":       entry.Cost,
			"path":       entry.Path,
		})
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(entry.EndedAt.UnixMicro()), Member: entry.SessionID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (r *RedisSessionProjector) ListRecent(ctx context.Context, limit int) ([]venueout.JournalEntry, error) {
	ids, err := r.client.ZRevRange(ctx, r.indexKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read session index: %w", err)
	}
	out := make([]venueout.JournalEntry, 0, len(ids))
	for _, id := range ids {
		data, err := r.client.HGetAll(ctx, r.sessionKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("read session %s: %w", id, err)
		}
		if len(data) == 0 {
			continue
		}
		entry, err := entryFromHash(data)
		if err != nil {
			return nil, fmt.Errorf("decode session %s: %w", id, err)
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *RedisSessionProjector) Close() error {
	return r.client.Close()
}

func entryFromHash(data map[string]string) (venueout.JournalEntry, error) {
	entry := venueout.JournalEntry{SessionID: data["id"], Path: data["path"]}
	var err error
	if entry.Table, err = strconv.Atoi(data["table"]); err != nil {
		return entry, fmt.Errorf("table: %w", err)
	}
	if entry.StartedAt, err = time.Parse(time.RFC3339Nano, data["started_at"]); err != nil {
		return entry, fmt.Errorf("started_at: %w", err)
	}
	if entry.EndedAt, err = time.Parse(time.RFC3339Nano, data["ended_at"]); err != nil {
		return entry, fmt.Errorf("ended_at: %w", err)
	}
	if entry.Minutes, err = strconv.ParseInt(data["minutes"], 10, 64); err != nil {
		return entry, fmt.Errorf("minutes: %w", err)
	}
	if entry.Rate, err = strconv.ParseFloat(data["rate"], 64); err != nil {
		return entry, fmt.Errorf("rate: %w", err)
	}
	if entry.Cost, err = strconv.ParseFloat(data["cost"], 64); err != nil {
		return entry, fmt.Errorf("cost: %w", err)
	}
	return entry, nil
}
