package service

import (
	"context"
	"fmt"
	"time"

	"tokyo-valuation-api/internal/apperrors"
	"tokyo-valuation-api/internal/features"
	"tokyo-valuation-api/internal/inference"
	"tokyo-valuation-api/internal/location"
	"tokyo-valuation-api/internal/metrics"
	"tokyo-valuation-api/internal/models"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// Options are the per-deployment settings of a ValuationService.
type Options struct {
	ReferenceYear     int
	DefaultTown       string
	AllowWardFallback bool
	RankingWorkers    int
	RankingCacheTTL   time.Duration
}

// ValuationService is the application state: one score table and one model,
// built once at startup and shared by every request.
type ValuationService struct {
	resolver *location.Resolver
	builder  *features.Builder
	engine   *inference.Engine
	rankings *gocache.Cache
	logger   zerolog.Logger

	// unavailable is set when the model could not be loaded; model-backed
	// operations then fail instead of guessing.
	unavailable error
}

// NewValuationService creates a service over a loaded table and model.
func NewValuationService(table models.LocationScoreTable, model inference.Predictor, opts Options, logger zerolog.Logger) *ValuationService {
	s := newService(table, opts, logger)
	s.engine = inference.NewEngine(model, s.builder, opts.RankingWorkers, logger)
	metrics.ModelAvailable.Set(1)
	return s
}

// NewUnavailableValuationService creates a degraded service that can still
// list locations but answers valuations with MODEL_UNAVAILABLE.
func NewUnavailableValuationService(table models.LocationScoreTable, cause error, opts Options, logger zerolog.Logger) *ValuationService {
	s := newService(table, opts, logger)
	s.unavailable = cause
	metrics.ModelAvailable.Set(0)
	return s
}

func newService(table models.LocationScoreTable, opts Options, logger zerolog.Logger) *ValuationService {
	ttl := opts.RankingCacheTTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &ValuationService{
		resolver: location.NewResolver(table, location.Options{
			DefaultTown:       opts.DefaultTown,
			AllowWardFallback: opts.AllowWardFallback,
		}, logger),
		builder:  features.NewBuilder(opts.ReferenceYear),
		rankings: gocache.New(ttl, 2*ttl),
		logger:   logger,
	}
}

// Health returns nil when valuations can be served.
func (s *ValuationService) Health(_ context.Context) error {
	if s.unavailable != nil {
		return apperrors.NewModelUnavailableError(s.unavailable)
	}
	return nil
}

// Wards lists the wards present in the score table.
func (s *ValuationService) Wards(_ context.Context) []string {
	return s.resolver.Wards()
}

// Towns lists the towns of a ward with the default pre-selection.
func (s *ValuationService) Towns(_ context.Context, ward string) (models.TownListing, error) {
	listing, err := s.resolver.Towns(ward)
	record("towns", err)
	if err != nil {
		return models.TownListing{}, fmt.Errorf("service: failed to list towns: %w", err)
	}
	return listing, nil
}

// Valuate resolves the location, builds the feature vector and estimates the price.
func (s *ValuationService) Valuate(_ context.Context, req models.ValuationRequest) (*models.ValuationResult, error) {
	result, err := s.valuate(req)
	record("valuation", err)
	if err != nil {
		return nil, fmt.Errorf("service: failed to valuate: %w", err)
	}
	return result, nil
}

func (s *ValuationService) valuate(req models.ValuationRequest) (*models.ValuationResult, error) {
	if s.unavailable != nil {
		return nil, apperrors.NewModelUnavailableError(s.unavailable)
	}

	var (
		key   string
		score float64
		err   error
	)
	switch {
	case req.TownKey != "" && req.Town != "":
		err = apperrors.NewInvalidInputError("town", "town and town_key are mutually exclusive")
	case req.TownKey != "":
		key, score, err = s.resolver.ResolveKey(req.TownKey)
	case req.Town != "":
		key, score, err = s.resolver.Resolve(req.Ward, req.Town)
	default:
		err = apperrors.NewInvalidInputError("town", "either town or town_key is required")
	}
	if err != nil {
		return nil, err
	}

	v, err := s.builder.Build(req.Size, req.BuiltYear, req.WalkMinutes, score)
	if err != nil {
		return nil, err
	}

	price, err := s.engine.Estimate(v)
	if err != nil {
		return nil, err
	}

	result := &models.ValuationResult{
		LocationKey:    key,
		LocationScore:  score,
		Size:           v.Size(),
		Age:            v.Age(),
		WalkMinutes:    v.WalkMinutes(),
		PredictedPrice: price,
		UnitPrice:      inference.UnitPrice(price, v.Size()),
		Implausible:    price <= 0,
	}
	if result.Implausible {
		s.logger.Warn().
			Str("location_key", key).
			Int64("predicted_price", price).
			Float64("size", req.Size).
			Int("built_year", req.BuiltYear).
			Msg("model returned a non-positive price")
	}
	return result, nil
}

// Rank values every location under one set of specs and returns the top
// req.Limit by price. Results are memoised per request.
func (s *ValuationService) Rank(ctx context.Context, req models.RankingRequest) ([]models.RankingEntry, error) {
	entries, err := s.rank(ctx, req)
	record("ranking", err)
	if err != nil {
		return nil, fmt.Errorf("service: failed to rank locations: %w", err)
	}
	return entries, nil
}

func (s *ValuationService) rank(ctx context.Context, req models.RankingRequest) ([]models.RankingEntry, error) {
	if s.unavailable != nil {
		return nil, apperrors.NewModelUnavailableError(s.unavailable)
	}

	cacheKey := fmt.Sprintf("%g|%d|%d|%s|%d", req.Size, req.BuiltYear, req.WalkMinutes, req.Order, req.Limit)
	if cached, ok := s.rankings.Get(cacheKey); ok {
		metrics.RankingCacheHits.Inc()
		return cloneEntries(cached.([]models.RankingEntry)), nil
	}

	age, err := s.builder.Age(req.BuiltYear)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	entries, err := s.engine.RankAll(ctx, req.Size, age, req.WalkMinutes, s.resolver.Table(), req.Order, req.Limit)
	if err != nil {
		return nil, err
	}
	metrics.RankingDuration.Observe(time.Since(start).Seconds())

	s.rankings.SetDefault(cacheKey, cloneEntries(entries))
	return entries, nil
}

// Yield returns the gross yield of renting at monthlyRent a unit priced at price.
func (s *ValuationService) Yield(_ context.Context, monthlyRent, price int64) (*models.YieldResult, error) {
	if monthlyRent <= 0 {
		err := apperrors.NewInvalidInputError("rent", fmt.Sprintf("must be positive, got %d", monthlyRent))
		record("yield", err)
		return nil, fmt.Errorf("service: failed to compute yield: %w", err)
	}
	if price <= 0 {
		err := apperrors.NewInvalidInputError("price", fmt.Sprintf("must be positive, got %d", price))
		record("yield", err)
		return nil, fmt.Errorf("service: failed to compute yield: %w", err)
	}
	record("yield", nil)
	return &models.YieldResult{
		MonthlyRent:    monthlyRent,
		PredictedPrice: price,
		YieldRate:      float64(monthlyRent*12) / float64(price) * 100,
	}, nil
}

func cloneEntries(entries []models.RankingEntry) []models.RankingEntry {
	return append([]models.RankingEntry(nil), entries...)
}

func record(operation string, err error) {
	code := "OK"
	if err != nil {
		code = string(apperrors.CodeOf(err))
		if code == "" {
			code = "INTERNAL"
		}
	}
	metrics.Requests.WithLabelValues(operation, code).Inc()
}
