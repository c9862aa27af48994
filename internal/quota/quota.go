package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/queensconnect/civic-navigate/internal/models"
	"github.com/queensconnect/civic-navigate/internal/storage"
)

// ErrQuotaExceeded is returned by Allow once the day's ceiling is reached.
var ErrQuotaExceeded = errors.New("daily quota exceeded")

// Guard enforces the hard per-day ceiling on classification requests,
// protecting the paid completion API from unbounded cost. All state lives
// in the usage counter row, shared across concurrent instances.
type Guard struct {
	storage storage.Storage
	limit   int
	logger  *zap.Logger
}

func NewGuard(store storage.Storage, limit int, logger *zap.Logger) *Guard {
	return &Guard{storage: store, limit: limit, logger: logger}
}

// DateKey derives the canonical YYYY-MM-DD counter key from a point in
// time. UTC, so every instance agrees on when a day rolls over.
func DateKey(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// Allow consults and advances today's counter. It returns nil when the
// request may proceed, ErrQuotaExceeded at the ceiling, and a wrapped
// storage error otherwise. Storage failures fail closed: a request never
// proceeds without the counter being consulted.
func (g *Guard) Allow(ctx context.Context, now time.Time) error {
	date := DateKey(now)

	count, err := g.storage.GetUsage(ctx, date)
	if err != nil {
		return fmt.Errorf("error reading usage counter: %w", err)
	}

	if count >= g.limit {
		g.logger.Warn("Daily quota exceeded",
			zap.String("date", date),
			zap.Int("count", count),
			zap.Int("limit", g.limit))
		return ErrQuotaExceeded
	}

	if _, err := g.storage.IncrementUsage(ctx, date); err != nil {
		return fmt.Errorf("error incrementing usage counter: %w", err)
	}

	return nil
}

// Usage reads today's counter without advancing it.
func (g *Guard) Usage(ctx context.Context, now time.Time) (models.UsageCounter, error) {
	date := DateKey(now)
	count, err := g.storage.GetUsage(ctx, date)
	if err != nil {
		return models.UsageCounter{}, fmt.Errorf("error reading usage counter: %w", err)
	}
	return models.UsageCounter{Date: date, Count: count}, nil
}

// Limit returns the configured daily ceiling.
func (g *Guard) Limit() int {
	return g.limit
}
