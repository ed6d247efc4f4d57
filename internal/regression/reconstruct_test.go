package regression

import (
	"bytes"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"tokyo-valuation-api/internal/apperrors"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constantModel struct{ y float64 }

func (c constantModel) Predict([]float64) (float64, error) { return c.y, nil }
func (c constantModel) Features() []string                 { return testColumns }

// abcdDecoder accepts exactly "ABCD".
func abcdDecoder(data []byte) (Model, error) {
	if !bytes.Equal(data, []byte("ABCD")) {
		return nil, errors.New("invalid artifact")
	}
	return constantModel{y: 1}, nil
}

func TestReconstructor_Reconstruct_ChunkOrder(t *testing.T) {
	r := NewReconstructor(abcdDecoder, zerolog.Nop())

	m, err := r.Reconstruct("stub", [][]byte{[]byte("AB"), []byte("CD")})
	require.NoError(t, err)
	assert.NotNil(t, m)

	_, err = r.Reconstruct("stub", [][]byte{[]byte("CD"), []byte("AB")})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCorruptArtifact)
}

func TestReconstructor_Reconstruct_Idempotent(t *testing.T) {
	forest := &Forest{Columns: testColumns, Trees: []Tree{sizeStump(3_000_000, 7_000_000), sizeStump(4_000_000, 8_000_000)}}
	data, err := Encode(forest, "v1")
	require.NoError(t, err)
	mid := len(data) / 2
	chunks := [][]byte{data[:mid], data[mid:]}

	r := NewReconstructor(NewDecoder(testColumns), zerolog.Nop())
	first, err := r.Reconstruct("forest", chunks)
	require.NoError(t, err)
	second, err := r.Reconstruct("forest", chunks)
	require.NoError(t, err)

	for _, x := range [][]float64{{30, 5, 3, 900_000}, {80, 40, 12, 1_500_000}} {
		a, err := first.Predict(x)
		require.NoError(t, err)
		b, err := second.Predict(x)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestReconstructor_Load_BuildsOnce(t *testing.T) {
	r := NewReconstructor(abcdDecoder, zerolog.Nop())

	var loads atomic.Int32
	release := make(chan struct{})
	loader := func() ([][]byte, error) {
		loads.Add(1)
		<-release
		return [][]byte{[]byte("AB"), []byte("CD")}, nil
	}

	const callers = 16
	var wg sync.WaitGroup
	results := make([]Model, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Load("tokyo_price_v1#4", loader)
		}(i)
	}
	// Give the callers time to pile up on the in-flight build.
	for loads.Load() == 0 {
		runtime.Gosched()
	}
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}

	m, err := r.Load("tokyo_price_v1#4", loader)
	require.NoError(t, err)
	assert.Equal(t, results[0], m)
	assert.Equal(t, int32(1), loads.Load())
}

func TestReconstructor_Load_FailureIsNotCached(t *testing.T) {
	r := NewReconstructor(abcdDecoder, zerolog.Nop())

	_, err := r.Load("m", func() ([][]byte, error) {
		return [][]byte{[]byte("CD"), []byte("AB")}, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCorruptArtifact)

	m, err := r.Load("m", func() ([][]byte, error) {
		return [][]byte{[]byte("AB"), []byte("CD")}, nil
	})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestReconstructor_Load_LoaderError(t *testing.T) {
	r := NewReconstructor(abcdDecoder, zerolog.Nop())
	missing := apperrors.NewMissingArtifactError("m", 4, 0, nil)

	_, err := r.Load("m", func() ([][]byte, error) { return nil, missing })
	assert.ErrorIs(t, err, apperrors.ErrMissingArtifact)
}

func TestReconstructor_Forget(t *testing.T) {
	r := NewReconstructor(abcdDecoder, zerolog.Nop())
	var loads int
	loader := func() ([][]byte, error) {
		loads++
		return [][]byte{[]byte("ABCD")}, nil
	}

	_, err := r.Load("m", loader)
	require.NoError(t, err)
	r.Forget("m")
	_, err = r.Load("m", loader)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}
