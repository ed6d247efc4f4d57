package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"tokyo-valuation-api/internal/apperrors"
	"tokyo-valuation-api/internal/artifact"
	"tokyo-valuation-api/internal/models"
	"tokyo-valuation-api/internal/regression"

	"github.com/rs/zerolog"
)

// ScoreTableRepository loads the location score table.
type ScoreTableRepository interface {
	LoadScoreTable(ctx context.Context) (models.LocationScoreTable, error)
}

// ChunkRepository reads the chunks of a split model artifact.
type ChunkRepository interface {
	LoadModelChunks(set artifact.ChunkSet) ([][]byte, error)
}

// ModelCache builds a model once per artifact identity.
type ModelCache interface {
	Load(identity string, load regression.ChunkLoader) (regression.Model, error)
}

// Artifacts are the startup inputs of a ValuationService.
type Artifacts struct {
	Scores ScoreTableRepository
	Chunks ChunkRepository
	Models ModelCache
	Set    artifact.ChunkSet
}

// Bootstrap loads the score table and the model. A missing artifact aborts
// startup. A corrupt model is reported once and yields a degraded service.
func Bootstrap(ctx context.Context, a Artifacts, opts Options, logger zerolog.Logger) (*ValuationService, error) {
	table, err := a.Scores.LoadScoreTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load score table: %w", err)
	}
	if len(table) == 0 {
		return nil, apperrors.NewMissingArtifactError("score table", 0, 0, nil)
	}
	if err := checkScores(table); err != nil {
		return nil, fmt.Errorf("service: invalid score table: %w", err)
	}

	model, err := a.Models.Load(a.Set.Identity(), func() ([][]byte, error) {
		return a.Chunks.LoadModelChunks(a.Set)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrCorruptArtifact) {
			logger.Error().Err(err).Str("model", a.Set.Name).Msg("model artifact is corrupt, valuations unavailable")
			return NewUnavailableValuationService(table, err, opts, logger), nil
		}
		return nil, fmt.Errorf("service: failed to load model: %w", err)
	}

	logger.Info().
		Str("model", a.Set.Name).
		Int("locations", len(table)).
		Int("reference_year", opts.ReferenceYear).
		Msg("valuation service ready")
	return NewValuationService(table, model, opts, logger), nil
}

// checkScores rejects a table holding NaN or infinite scores. Such a row
// would otherwise fail every ranking at request time.
func checkScores(table models.LocationScoreTable) error {
	for _, key := range table.Keys() {
		if score := table[key]; math.IsNaN(score) || math.IsInf(score, 0) {
			return apperrors.NewCorruptArtifactError("score table",
				fmt.Errorf("location %s has non-finite score %v", key, score))
		}
	}
	return nil
}
