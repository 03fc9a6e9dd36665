package repository

import (
	"context"
	"encoding/json"

	"github.com/brimesh123/search-engine/internal/dto"
	"github.com/brimesh123/search-engine/internal/infra"

	"github.com/redis/go-redis/v9"
)

// UploadHistoryKey is the Redis list holding the most recent upload summaries,
// newest first.
const UploadHistoryKey = "uploads:recent"

// UploadHistoryRepository keeps a bounded log of upload outcomes.
type UploadHistoryRepository interface {
	Record(ctx context.Context, s dto.UploadSummary) error
	Recent(ctx context.Context, n int) ([]dto.UploadSummary, error)
}

type redisUploadHistory struct {
	rdb  *redis.Client
	size int64
}

// NewUploadHistoryRepository returns a Redis-backed history capped at size
// entries, or a no-op history when rdb is nil.
func NewUploadHistoryRepository(rdb *redis.Client, size int) UploadHistoryRepository {
	if rdb == nil {
		return noopUploadHistory{}
	}
	if size <= 0 {
		size = 50
	}
	return &redisUploadHistory{rdb: rdb, size: int64(size)}
}

func (h *redisUploadHistory) Record(ctx context.Context, s dto.UploadSummary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = h.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, UploadHistoryKey, data)
		pipe.LTrim(ctx, UploadHistoryKey, 0, h.size-1)
		return nil
	})
	return err
}

func (h *redisUploadHistory) Recent(ctx context.Context, n int) ([]dto.UploadSummary, error) {
	if n <= 0 || int64(n) > h.size {
		n = int(h.size)
	}
	raw, err := h.rdb.LRange(ctx, UploadHistoryKey, 0, int64(n)-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]dto.UploadSummary, 0, len(raw))
	for _, entry := range raw {
		var s dto.UploadSummary
		if err := json.Unmarshal([]byte(entry), &s); err != nil {
			continue // skip entries written by an incompatible version
		}
		out = append(out, s)
	}
	return out, nil
}

type noopUploadHistory struct{}

func (noopUploadHistory) Record(context.Context, dto.UploadSummary) error { return nil }

func (noopUploadHistory) Recent(context.Context, int) ([]dto.UploadSummary, error) {
	return []dto.UploadSummary{}, nil
}

type guardedUploadHistory struct {
	inner   UploadHistoryRepository
	breaker *infra.Breaker
}

// WithBreaker routes history calls through b so a Redis outage fails fast.
func WithBreaker(inner UploadHistoryRepository, b *infra.Breaker) UploadHistoryRepository {
	return &guardedUploadHistory{inner: inner, breaker: b}
}

func (g *guardedUploadHistory) Record(ctx context.Context, s dto.UploadSummary) error {
	return g.breaker.Do(func() error { return g.inner.Record(ctx, s) })
}

func (g *guardedUploadHistory) Recent(ctx context.Context, n int) ([]dto.UploadSummary, error) {
	var out []dto.UploadSummary
	err := g.breaker.Do(func() error {
		var err error
		out, err = g.inner.Recent(ctx, n)
		return err
	})
	return out, err
}
