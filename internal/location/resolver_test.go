package location

import (
	"testing"

	"tokyo-valuation-api/internal/apperrors"
	"tokyo-valuation-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(table models.LocationScoreTable, opts Options) *Resolver {
	return NewResolver(table, opts, zerolog.Nop())
}

func shinjukuTable() models.LocationScoreTable {
	return models.LocationScoreTable{
		"新宿区西新宿":  1_000_000,
		"新宿区新宿":   1_100_000,
		"新宿区歌舞伎町": 900_000,
		"港区赤坂":    1_800_000,
		"千代田区丸の内": 2_500_000,
	}
}

func TestResolver_Resolve_SingleTown(t *testing.T) {
	r := newTestResolver(models.LocationScoreTable{"新宿区西新宿": 1_000_000}, Options{})

	assert.Equal(t, []string{"新宿区西新宿"}, r.Candidates("新宿区"))

	listing, err := r.Towns("新宿区")
	require.NoError(t, err)
	assert.Equal(t, []models.Town{{Display: "西新宿", Key: "新宿区西新宿"}}, listing.Towns)

	key, score, err := r.Resolve("新宿区", "西新宿")
	require.NoError(t, err)
	assert.Equal(t, "新宿区西新宿", key)
	assert.Equal(t, 1_000_000.0, score)
}

func TestResolver_Resolve_ConcatenatedKeyProperty(t *testing.T) {
	table := shinjukuTable()
	r := newTestResolver(table, Options{})

	for _, ward := range r.Wards() {
		listing, err := r.Towns(ward)
		require.NoError(t, err)
		for _, town := range listing.Towns {
			key, score, err := r.Resolve(ward, town.Display)
			require.NoError(t, err)
			assert.Equal(t, ward+town.Display, key)
			assert.Equal(t, table[ward+town.Display], score)
		}
	}
}

func TestResolver_Resolve_Errors(t *testing.T) {
	table := shinjukuTable()
	table["港区北区通"] = 700_000

	tests := []struct {
		name         string
		ward         string
		town         string
		expectedCode apperrors.Code
	}{
		{name: "ward with no locations", ward: "目黒区", town: "自由が丘", expectedCode: apperrors.CodeNoLocationAvailable},
		{name: "ward name inside another key is not a match", ward: "北区", town: "通", expectedCode: apperrors.CodeNoLocationAvailable},
		{name: "unknown town in ward", ward: "新宿区", town: "六本木", expectedCode: apperrors.CodeInvalidInput},
		{name: "town from another ward", ward: "新宿区", town: "赤坂", expectedCode: apperrors.CodeInvalidInput},
		{name: "empty town", ward: "新宿区", town: " ", expectedCode: apperrors.CodeInvalidInput},
		{name: "empty flat key", ward: "", town: "", expectedCode: apperrors.CodeInvalidInput},
		{name: "unknown flat key", ward: "", town: "港区六本木", expectedCode: apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(table, Options{AllowWardFallback: true})

			_, _, err := r.Resolve(tt.ward, tt.town)
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, apperrors.CodeOf(err))
		})
	}
}

func TestResolver_Resolve_NamingDrift(t *testing.T) {
	table := models.LocationScoreTable{
		"新宿区西新宿１丁目":    1_300_000,
		"渋谷区代々木(二丁目)": 1_200_000,
	}
	r := newTestResolver(table, Options{})

	tests := []struct {
		name     string
		ward     string
		town     string
		expected string
	}{
		{name: "half-width digit", ward: "新宿区", town: "西新宿1丁目", expected: "新宿区西新宿１丁目"},
		{name: "ward without suffix", ward: "新宿", town: "西新宿１丁目", expected: "新宿区西新宿１丁目"},
		{name: "full-width parentheses", ward: "渋谷区", town: "代々木（二丁目）", expected: "渋谷区代々木(二丁目)"},
		{name: "surrounding spaces", ward: " 渋谷区 ", town: " 代々木(二丁目) ", expected: "渋谷区代々木(二丁目)"},
		{name: "full key passed as town", ward: "渋谷区", town: "渋谷区代々木(二丁目)", expected: "渋谷区代々木(二丁目)"},
		{name: "flat key with prefecture", ward: "", town: "東京都新宿区西新宿1丁目", expected: "新宿区西新宿１丁目"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, score, err := r.Resolve(tt.ward, tt.town)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, key)
			assert.Equal(t, table[tt.expected], score)
		})
	}
}

func TestResolver_DisplayCollision(t *testing.T) {
	table := models.LocationScoreTable{
		"渋谷区本町(一丁目)":  1_000_000,
		"渋谷区本町（一丁目）": 1_050_000,
		"渋谷区恵比寿":     1_400_000,
	}
	r := newTestResolver(table, Options{})

	listing, err := r.Towns("渋谷区")
	require.NoError(t, err)
	require.Len(t, listing.Towns, 2)
	assert.Equal(t, models.Town{Display: "恵比寿", Key: "渋谷区恵比寿"}, listing.Towns[0])
	assert.Equal(t, models.Town{Display: "本町(一丁目)", Key: "渋谷区本町(一丁目)", Ambiguous: true}, listing.Towns[1])

	// An exact key still resolves.
	key, _, err := r.Resolve("渋谷区", "本町(一丁目)")
	require.NoError(t, err)
	assert.Equal(t, "渋谷区本町(一丁目)", key)

	// A drifted spelling matches both and must be disambiguated.
	_, _, err = r.Resolve("渋谷区", "本町 (一丁目)")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAmbiguousLocation)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"渋谷区本町(一丁目)", "渋谷区本町（一丁目）"}, appErr.Metadata["candidates"])

	_, _, err = r.ResolveKey("渋谷区本町 (一丁目)")
	assert.ErrorIs(t, err, apperrors.ErrAmbiguousLocation)
}

func TestResolver_Towns_DefaultSelection(t *testing.T) {
	tests := []struct {
		name        string
		defaultTown string
		ward        string
		expected    string
	}{
		{name: "single substring match", defaultTown: "西新宿", ward: "新宿区", expected: "西新宿"},
		{name: "several matches fall back to first", defaultTown: "新宿", ward: "新宿区", expected: "新宿"},
		{name: "no match falls back to first", defaultTown: "丸の内", ward: "新宿区", expected: "新宿"},
		{name: "no default configured", defaultTown: "", ward: "新宿区", expected: "新宿"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(shinjukuTable(), Options{DefaultTown: tt.defaultTown})

			listing, err := r.Towns(tt.ward)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, listing.Default)
			assert.False(t, listing.Fallback)

			town, fallback, err := r.DefaultTown(tt.ward)
			require.NoError(t, err)
			assert.False(t, fallback)
			assert.Equal(t, tt.expected, town.Display)
			assert.Equal(t, tt.ward+tt.expected, town.Key)
		})
	}
}

func TestResolver_Towns_EmptyWard(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		r := newTestResolver(shinjukuTable(), Options{})

		_, err := r.Towns("目黒区")
		assert.ErrorIs(t, err, apperrors.ErrNoLocationAvailable)

		_, _, err = r.DefaultTown("目黒区")
		assert.ErrorIs(t, err, apperrors.ErrNoLocationAvailable)
	})

	t.Run("fallback lists every location", func(t *testing.T) {
		r := newTestResolver(shinjukuTable(), Options{AllowWardFallback: true})

		listing, err := r.Towns("目黒区")
		require.NoError(t, err)
		assert.True(t, listing.Fallback)
		assert.Len(t, listing.Towns, 5)
		assert.Equal(t, "千代田区丸の内", listing.Default)

		_, fallback, err := r.DefaultTown("目黒区")
		require.NoError(t, err)
		assert.True(t, fallback)
	})

	t.Run("fallback on an empty table still fails", func(t *testing.T) {
		r := newTestResolver(models.LocationScoreTable{}, Options{AllowWardFallback: true})

		_, err := r.Towns("目黒区")
		assert.ErrorIs(t, err, apperrors.ErrNoLocationAvailable)
	})
}

func TestResolver_Wards(t *testing.T) {
	table := shinjukuTable()
	table["東京都港区六本木"] = 2_000_000
	table["横浜市中区"] = 500_000
	r := newTestResolver(table, Options{})

	assert.Equal(t, []string{"千代田区", "港区", "新宿区"}, r.Wards())
}

func TestResolver_KeyConsistency(t *testing.T) {
	table := models.LocationScoreTable{"新宿区西新宿１丁目": 1}
	r := newTestResolver(table, Options{})
	delete(table, "新宿区西新宿１丁目")

	_, _, err := r.ResolveKey("新宿区西新宿1丁目")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrKeyConsistency)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "代々木(二丁目)", Normalize("代々木（二丁目）"))
	assert.Equal(t, "西新宿1丁目", Normalize("西新宿１丁目"))
	assert.Equal(t, "新宿区西新宿", Normalize("東京都 新宿区　西新宿"))
	assert.Equal(t, "新宿区", NormalizeWard("新宿"))
	assert.Equal(t, "北区", NormalizeWard("北"))
	assert.Equal(t, "横浜市", NormalizeWard("横浜市"))
	assert.Equal(t, "港区", WardOf("東京都港区赤坂"))
	assert.Equal(t, "", WardOf("横浜市中区"))
}
