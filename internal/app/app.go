// Package app assembles a ValuationService from configuration.
package app

import (
	"context"
	"fmt"

	"tokyo-valuation-api/internal/artifact"
	"tokyo-valuation-api/internal/config"
	"tokyo-valuation-api/internal/features"
	"tokyo-valuation-api/internal/regression"
	"tokyo-valuation-api/internal/repository"
	"tokyo-valuation-api/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ChunkSet returns the model artifact location described by cfg.
func ChunkSet(cfg config.Config) artifact.ChunkSet {
	return artifact.ChunkSet{
		Dir:   cfg.ModelDir,
		Name:  cfg.ModelName,
		Ext:   cfg.ModelChunkExt,
		Count: cfg.ModelChunkCount,
	}
}

// Options returns the service options described by cfg.
func Options(cfg config.Config) service.Options {
	return service.Options{
		ReferenceYear:     cfg.ModelReferenceYear,
		DefaultTown:       cfg.DefaultTown,
		AllowWardFallback: cfg.AllowWardFallback,
		RankingWorkers:    cfg.RankingWorkers,
		RankingCacheTTL:   cfg.RankingCacheTTL,
	}
}

// Open loads the score table from the configured source and the model from
// store. The returned close function releases the database pool, if any.
func Open(ctx context.Context, cfg config.Config, store *artifact.Store, logger zerolog.Logger) (*service.ValuationService, func(), error) {
	closeFn := func() {}

	var scores service.ScoreTableRepository
	switch cfg.ScoreTableSource {
	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			return nil, closeFn, fmt.Errorf("app: cannot connect to db: %w", err)
		}
		closeFn = pool.Close
		scores = repository.NewRepository(pool)
	default:
		scores = artifact.ScoreTableFile{Store: store, Path: cfg.ScoreTablePath}
	}

	svc, err := service.Bootstrap(ctx, service.Artifacts{
		Scores: scores,
		Chunks: store,
		Models: regression.NewReconstructor(regression.NewDecoder(features.Columns()), logger),
		Set:    ChunkSet(cfg),
	}, Options(cfg), logger)
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}
	return svc, closeFn, nil
}
