package artifact

import (
	"fmt"

	"github.com/spf13/afero"
)

// SplitModel writes data as set.Count contiguous chunk files. Chunk sizes
// differ by at most one byte. It is the inverse of LoadModelChunks followed
// by concatenation.
func (s *Store) SplitModel(data []byte, set ChunkSet) error {
	if set.Count < 1 {
		return fmt.Errorf("artifact: chunk count must be positive, got %d", set.Count)
	}
	if len(data) < set.Count {
		return fmt.Errorf("artifact: %d bytes cannot be split into %d chunks", len(data), set.Count)
	}

	if err := s.fs.MkdirAll(set.Dir, 0o755); err != nil {
		return fmt.Errorf("artifact: failed to create %s: %w", set.Dir, err)
	}

	base, rem := len(data)/set.Count, len(data)%set.Count
	offset := 0
	for i := 0; i < set.Count; i++ {
		size := base
		if i < rem {
			size++
		}
		if err := afero.WriteFile(s.fs, set.ChunkPath(i), data[offset:offset+size], 0o644); err != nil {
			return fmt.Errorf("artifact: failed to write %s: %w", set.ChunkPath(i), err)
		}
		offset += size
	}

	s.logger.Info().Str("model", set.Name).Int("chunks", set.Count).Int("bytes", len(data)).Msg("model split")
	return nil
}
