package artifact

import (
	"bytes"
	"testing"

	"tokyo-valuation-api/internal/apperrors"
	"tokyo-valuation-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	return NewStore(fsys, zerolog.Nop()), fsys
}

func TestChunkSet_Naming(t *testing.T) {
	set := ChunkSet{Dir: "artifacts", Name: "tokyo_price_v1", Ext: "pkl", Count: 4}

	assert.Equal(t, "tokyo_price_v1_part0.pkl", set.ChunkName(0))
	assert.Equal(t, "artifacts/tokyo_price_v1_part3.pkl", set.ChunkPath(3))
	assert.Equal(t, "artifacts/tokyo_price_v1.pkl#4", set.Identity())
}

func TestStore_LoadScoreTable(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		write        bool
		expected     models.LocationScoreTable
		expectedCode apperrors.Code
	}{
		{
			name:     "valid table",
			content:  `{"新宿区西新宿": 1000000, "港区赤坂": 1800000.5}`,
			write:    true,
			expected: models.LocationScoreTable{"新宿区西新宿": 1000000, "港区赤坂": 1800000.5},
		},
		{
			name:         "missing file",
			write:        false,
			expectedCode: apperrors.CodeMissingArtifact,
		},
		{
			name:         "malformed json",
			content:      `{"新宿区西新宿": `,
			write:        true,
			expectedCode: apperrors.CodeCorruptArtifact,
		},
		{
			name:         "empty table",
			content:      `{}`,
			write:        true,
			expectedCode: apperrors.CodeCorruptArtifact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, fsys := newTestStore(t)
			if tt.write {
				require.NoError(t, afero.WriteFile(fsys, "artifacts/town_mapping.json", []byte(tt.content), 0o644))
			}

			table, err := store.LoadScoreTable("artifacts/town_mapping.json")
			if tt.expectedCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, apperrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, table)
		})
	}
}

func TestStore_LoadModelChunks(t *testing.T) {
	set := ChunkSet{Dir: "artifacts", Name: "tokyo_price_v1", Ext: "bin", Count: 4}

	t.Run("all chunks present are returned in index order", func(t *testing.T) {
		store, fsys := newTestStore(t)
		for i, part := range []string{"AB", "CD", "EF", "G"} {
			require.NoError(t, afero.WriteFile(fsys, set.ChunkPath(i), []byte(part), 0o644))
		}

		chunks, err := store.LoadModelChunks(set)
		require.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte("AB"), []byte("CD"), []byte("EF"), []byte("G")}, chunks)
	})

	t.Run("no chunks present", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, err := store.LoadModelChunks(set)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrMissingArtifact)
		assert.Contains(t, err.Error(), "expected 4 chunks, found 0")
	})

	t.Run("gap in the chunk set", func(t *testing.T) {
		store, fsys := newTestStore(t)
		for _, i := range []int{0, 1, 3} {
			require.NoError(t, afero.WriteFile(fsys, set.ChunkPath(i), []byte("x"), 0o644))
		}

		_, err := store.LoadModelChunks(set)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected 4 chunks, found 3")
		assert.Contains(t, err.Error(), "tokyo_price_v1_part2.bin")
	})

	t.Run("chunks beyond the count are ignored", func(t *testing.T) {
		store, fsys := newTestStore(t)
		small := ChunkSet{Dir: "artifacts", Name: "m", Ext: "bin", Count: 2}
		for i := 0; i < 3; i++ {
			require.NoError(t, afero.WriteFile(fsys, small.ChunkPath(i), []byte{byte('a' + i)}, 0o644))
		}

		chunks, err := store.LoadModelChunks(small)
		require.NoError(t, err)
		assert.Len(t, chunks, 2)
	})

	t.Run("non-positive count", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, err := store.LoadModelChunks(ChunkSet{Name: "m", Ext: "bin"})
		assert.Error(t, err)
	})
}

func TestStore_SplitModel(t *testing.T) {
	store, _ := newTestStore(t)
	data := []byte("0123456789")
	set := ChunkSet{Dir: "out", Name: "tokyo_price_v2", Ext: "bin", Count: 4}

	require.NoError(t, store.SplitModel(data, set))

	chunks, err := store.LoadModelChunks(set)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("012"), []byte("345"), []byte("67"), []byte("89")}, chunks)
	assert.Equal(t, data, bytes.Join(chunks, nil))
}

func TestStore_SplitModel_TooSmall(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.SplitModel([]byte("ab"), ChunkSet{Dir: "out", Name: "m", Ext: "bin", Count: 3})
	assert.Error(t, err)
}
