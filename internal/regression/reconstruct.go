package regression

import (
	"bytes"
	"sync"
	"time"

	"tokyo-valuation-api/internal/apperrors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ChunkLoader returns the ordered chunks of one artifact.
type ChunkLoader func() ([][]byte, error)

// Reconstructor rebuilds models from chunked artifacts and memoises them by
// artifact identity. Concurrent first callers for one identity share a single
// build; later callers get the cached Model.
type Reconstructor struct {
	decode Decoder
	logger zerolog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	models map[string]Model
}

// NewReconstructor creates a Reconstructor that deserializes with decode.
func NewReconstructor(decode Decoder, logger zerolog.Logger) *Reconstructor {
	return &Reconstructor{
		decode: decode,
		logger: logger,
		models: make(map[string]Model),
	}
}

// Reconstruct concatenates chunks in the given order and deserializes the
// result. It does not memoise.
func (r *Reconstructor) Reconstruct(name string, chunks [][]byte) (Model, error) {
	data := bytes.Join(chunks, nil)
	m, err := r.decode(data)
	if err != nil {
		return nil, apperrors.NewCorruptArtifactError(name, err)
	}
	return m, nil
}

// Load returns the model for identity, building it with load on first use.
// Failed builds are not cached, so a caller may retry with another source.
func (r *Reconstructor) Load(identity string, load ChunkLoader) (Model, error) {
	if m, ok := r.cached(identity); ok {
		return m, nil
	}

	v, err, _ := r.group.Do(identity, func() (interface{}, error) {
		if m, ok := r.cached(identity); ok {
			return m, nil
		}

		start := time.Now()
		chunks, err := load()
		if err != nil {
			return nil, err
		}
		m, err := r.Reconstruct(identity, chunks)
		if err != nil {
			r.logger.Error().Err(err).Str("artifact", identity).Msg("model reconstruction failed")
			return nil, err
		}

		r.mu.Lock()
		r.models[identity] = m
		r.mu.Unlock()

		r.logger.Info().
			Str("artifact", identity).
			Int("chunks", len(chunks)).
			Dur("duration", time.Since(start)).
			Msg("model reconstructed")
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Model), nil
}

// Forget drops the cached model for identity.
func (r *Reconstructor) Forget(identity string) {
	r.mu.Lock()
	delete(r.models, identity)
	r.mu.Unlock()
}

func (r *Reconstructor) cached(identity string) (Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[identity]
	return m, ok
}
