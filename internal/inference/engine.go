// Package inference runs the price model over feature vectors, one at a time
// or across every known location.
package inference

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"time"

	"tokyo-valuation-api/internal/apperrors"
	"tokyo-valuation-api/internal/features"
	"tokyo-valuation-api/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Predictor is the part of a regression model the engine needs.
type Predictor interface {
	Predict(x []float64) (float64, error)
}

// Engine evaluates one model. It holds no mutable state.
type Engine struct {
	model   Predictor
	builder *features.Builder
	workers int
	logger  zerolog.Logger
}

// NewEngine creates an Engine. workers bounds ranking parallelism; 0 means
// one worker per CPU.
func NewEngine(model Predictor, builder *features.Builder, workers int, logger zerolog.Logger) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{model: model, builder: builder, workers: workers, logger: logger}
}

// Estimate predicts a price in whole yen, truncating toward zero.
func (e *Engine) Estimate(v features.Vector) (int64, error) {
	y, err := e.model.Predict(v.Values())
	if err != nil {
		return 0, fmt.Errorf("inference: model prediction failed: %w", err)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if math.IsNaN(y) || math.IsInf(y, 0) || y >= math.MaxInt64+1 || y < math.MinInt64 {
		return 0, fmt.Errorf("inference: model returned non-finite price %v", y)
	}
	return int64(y), nil
}

// UnitPrice is price per square metre, truncated toward zero. size must be
// positive, which a Vector from the Builder guarantees.
func UnitPrice(price int64, size float64) int64 {
	return int64(float64(price) / size)
}

// RankAll values every location of table under the same size, age and walk
// time, sorts by price in order (ties by key ascending) and keeps the first
// limit entries. Cancelling ctx stops scheduling new locations; locations
// already being evaluated finish first.
func (e *Engine) RankAll(ctx context.Context, size float64, age, walkMinutes int, table models.LocationScoreTable, order models.Order, limit int) ([]models.RankingEntry, error) {
	if limit < 1 {
		return nil, apperrors.NewInvalidInputError("limit", fmt.Sprintf("must be at least 1, got %d", limit))
	}
	if order != models.Ascending && order != models.Descending {
		return nil, apperrors.NewInvalidInputError("order", fmt.Sprintf("unknown order %q", order))
	}
	base, err := e.builder.BuildWithAge(size, age, walkMinutes, 0)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	keys := table.Keys()
	entries := make([]models.RankingEntry, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, key := range keys {
		i, key := i, key
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := base.WithScore(table[key])
			if err != nil {
				return fmt.Errorf("inference: location %s: %w", key, err)
			}
			price, err := e.Estimate(v)
			if err != nil {
				return fmt.Errorf("inference: location %s: %w", key, err)
			}
			entries[i] = models.RankingEntry{
				LocationKey:    key,
				PredictedPrice: price,
				UnitPrice:      UnitPrice(price, size),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	Sort(entries, order)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	e.logger.Debug().
		Int("locations", len(keys)).
		Int("returned", len(entries)).
		Str("order", string(order)).
		Dur("duration", time.Since(start)).
		Msg("ranking completed")
	return entries, nil
}

// Sort orders entries by price in order, breaking ties by location key
// ascending so rankings are reproducible.
func Sort(entries []models.RankingEntry, order models.Order) {
	slices.SortFunc(entries, func(a, b models.RankingEntry) int {
		c := cmp.Compare(a.PredictedPrice, b.PredictedPrice)
		if order == models.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.LocationKey, b.LocationKey)
	})
}
