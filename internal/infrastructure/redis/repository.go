package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sp3dr4/wren/internal/domain"
)

const (
	sequenceKey = "url:seq"
	// claimField is written first with HSETNX; its presence reserves a code.
	claimField = "short_code"
)

// record is the hash layout of a URL under url:<code>.
type record struct {
	ID          int64  `redis:"id"`
	ShortCode   string `redis:"short_code"`
	OriginalURL string `redis:"original_url"`
	Clicks      int64  `redis:"clicks"`
	CreatedAt   string `redis:"created_at"`
	ExpiresAt   string `redis:"expires_at"`
}

// URLRepository persists URLs as Redis hashes. IDs come from an INCR
// sequence and url:id:<id> points back at the owning code.
type URLRepository struct {
	client *redis.Client
	logger *slog.Logger
}

func NewURLRepository(client *redis.Client, logger *slog.Logger) *URLRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &URLRepository{
		client: client,
		logger: logger,
	}
}

func (r *URLRepository) Create(ctx context.Context, url *domain.URL) (*domain.URL, error) {
	key := buildKey(url.ShortCode)

	claimed, err := r.client.HSetNX(ctx, key, claimField, url.ShortCode).Result()
	if err != nil {
		r.logger.Error("Failed to claim short code", "key", key, "error", err)
		return nil, fmt.Errorf("claim short code: %w", err)
	}
	if !claimed {
		return nil, domain.ErrShortCodeExists
	}

	id, err := r.client.Incr(ctx, sequenceKey).Result()
	if err != nil {
		r.release(key)
		return nil, fmt.Errorf("allocate id: %w", err)
	}

	created := url.Clone()
	created.ID = id
	created.Clicks = 0
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, toRecord(created))
		pipe.Set(ctx, buildIDKey(id), created.ShortCode, 0)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to store URL", "key", key, "error", err)
		r.release(key)
		return nil, fmt.Errorf("store url: %w", err)
	}

	return created, nil
}

func (r *URLRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URL, error) {
	key := buildKey(shortCode)

	res := r.client.HGetAll(ctx, key)
	fields, err := res.Result()
	if err != nil {
		r.logger.Error("Failed to read URL", "key", key, "error", err)
		return nil, fmt.Errorf("find url: %w", err)
	}
	// A hash without an id is a claim whose Create has not finished yet.
	if len(fields) == 0 || fields["id"] == "" {
		return nil, domain.ErrURLNotFound
	}

	var rec record
	if err := res.Scan(&rec); err != nil {
		return nil, fmt.Errorf("decode url: %w", err)
	}
	return fromRecord(rec)
}

func (r *URLRepository) IncrementClicks(ctx context.Context, id int64) error {
	code, err := r.client.Get(ctx, buildIDKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrURLNotFound
		}
		return fmt.Errorf("resolve id: %w", err)
	}

	if err := r.client.HIncrBy(ctx, buildKey(code), "clicks", 1).Err(); err != nil {
		r.logger.Error("Failed to increment clicks", "short_code", code, "error", err)
		return fmt.Errorf("increment clicks: %w", err)
	}
	return nil
}

func (r *URLRepository) Close() error {
	return r.client.Close()
}

func (r *URLRepository) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.logger.Error("Failed to ping Redis", "error", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// release drops a claimed code after a failed Create so it can be reused.
func (r *URLRepository) release(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("Failed to release short code claim", "key", key, "error", err)
	}
}

func buildKey(shortCode string) string {
	return fmt.Sprintf("url:%s", shortCode)
}

func buildIDKey(id int64) string {
	return "url:id:" + strconv.FormatInt(id, 10)
}

func toRecord(u *domain.URL) record {
	rec := record{
		ID:          u.ID,
		ShortCode:   u.ShortCode,
		OriginalURL: u.OriginalURL,
		Clicks:      u.Clicks,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if u.ExpiresAt != nil {
		rec.ExpiresAt = u.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}
	return rec
}

func fromRecord(rec record) (*domain.URL, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	u := &domain.URL{
		ID:          rec.ID,
		ShortCode:   rec.ShortCode,
		OriginalURL: rec.OriginalURL,
		Clicks:      rec.Clicks,
		CreatedAt:   createdAt,
	}
	if rec.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339Nano, rec.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("parse expires_at: %w", err)
		}
		u.ExpiresAt = &expiresAt
	}
	return u, nil
}
