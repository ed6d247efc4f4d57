// Package artifact reads the startup artifacts of a model generation: the
// location score table and the ordered chunk files of the serialized model.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"tokyo-valuation-api/internal/apperrors"
	"tokyo-valuation-api/internal/models"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ChunkSet names a split model artifact: <Name>_part<i>.<Ext> for i in [0, Count) under Dir.
type ChunkSet struct {
	Dir   string
	Name  string
	Ext   string
	Count int
}

// ChunkName returns the file name of chunk index.
func (c ChunkSet) ChunkName(index int) string {
	return fmt.Sprintf("%s_part%d.%s", c.Name, index, c.Ext)
}

// ChunkPath returns the path of chunk index.
func (c ChunkSet) ChunkPath(index int) string {
	return filepath.Join(c.Dir, c.ChunkName(index))
}

// Identity is a stable key for one artifact generation.
func (c ChunkSet) Identity() string {
	return fmt.Sprintf("%s#%d", filepath.Join(c.Dir, c.Name+"."+c.Ext), c.Count)
}

// Store reads artifacts from a filesystem.
type Store struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// NewStore creates a store over fsys.
func NewStore(fsys afero.Fs, logger zerolog.Logger) *Store {
	return &Store{fs: fsys, logger: logger}
}

// NewOSStore creates a store over the real filesystem.
func NewOSStore(logger zerolog.Logger) *Store {
	return NewStore(afero.NewOsFs(), logger)
}

// LoadScoreTable reads a JSON object of location key to score.
func (s *Store) LoadScoreTable(path string) (models.LocationScoreTable, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewMissingArtifactError(path, 0, 0, nil)
		}
		return nil, fmt.Errorf("artifact: failed to read score table %s: %w", path, err)
	}

	var table models.LocationScoreTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, apperrors.NewCorruptArtifactError(path, err)
	}
	if len(table) == 0 {
		return nil, apperrors.NewCorruptArtifactError(path, errors.New("score table is empty"))
	}

	s.logger.Info().Str("path", path).Int("locations", len(table)).Msg("score table loaded")
	return table, nil
}

// LoadModelChunks reads every chunk of set in ascending index order.
// All chunk files are checked before any is read, so a partial set reports
// exactly how many were expected and found.
func (s *Store) LoadModelChunks(set ChunkSet) ([][]byte, error) {
	if set.Count < 1 {
		return nil, fmt.Errorf("artifact: chunk count must be positive, got %d", set.Count)
	}

	var missing []string
	for i := 0; i < set.Count; i++ {
		ok, err := afero.Exists(s.fs, set.ChunkPath(i))
		if err != nil {
			return nil, fmt.Errorf("artifact: failed to stat %s: %w", set.ChunkPath(i), err)
		}
		if !ok {
			missing = append(missing, set.ChunkName(i))
		}
	}
	if len(missing) > 0 {
		found := set.Count - len(missing)
		s.logger.Error().
			Str("model", set.Name).
			Int("expected", set.Count).
			Int("found", found).
			Strs("missing", missing).
			Msg("model chunks missing")
		return nil, apperrors.NewMissingArtifactError(set.Name, set.Count, found, missing)
	}

	if extra, _ := afero.Exists(s.fs, set.ChunkPath(set.Count)); extra {
		s.logger.Warn().
			Str("model", set.Name).
			Str("chunk", set.ChunkName(set.Count)).
			Msg("chunk beyond the configured count is ignored")
	}

	chunks := make([][]byte, 0, set.Count)
	for i := 0; i < set.Count; i++ {
		data, err := afero.ReadFile(s.fs, set.ChunkPath(i))
		if err != nil {
			return nil, fmt.Errorf("artifact: failed to read %s: %w", set.ChunkPath(i), err)
		}
		chunks = append(chunks, data)
	}

	s.logger.Info().Str("model", set.Name).Int("chunks", len(chunks)).Msg("model chunks loaded")
	return chunks, nil
}

// ScoreTableFile is a score table source backed by one JSON file.
type ScoreTableFile struct {
	Store *Store
	Path  string
}

// LoadScoreTable reads the file at f.Path.
func (f ScoreTableFile) LoadScoreTable(_ context.Context) (models.LocationScoreTable, error) {
	return f.Store.LoadScoreTable(f.Path)
}
