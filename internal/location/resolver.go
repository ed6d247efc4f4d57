// Package location resolves user-facing ward and town names to the full
// location keys of a score table.
package location

import (
	"strings"

	"tokyo-valuation-api/internal/apperrors"
	"tokyo-valuation-api/internal/models"

	"github.com/rs/zerolog"
)

// Options configures a Resolver.
type Options struct {
	// DefaultTown is a substring of the town pre-selected in a ward listing.
	DefaultTown string
	// AllowWardFallback lists every location when a ward filter matches
	// nothing, instead of failing with NoLocationAvailable.
	AllowWardFallback bool
}

// Resolver maps (ward, town) pairs and flat keys onto a LocationScoreTable.
// It is immutable after construction and safe for concurrent use.
type Resolver struct {
	table  models.LocationScoreTable
	keys   []string
	norm   map[string][]string
	opts   Options
	logger zerolog.Logger
}

// entry is one display name within a ward. key is the first-seen full key in
// lexicographic order; candidates holds every key that collapsed onto it.
type entry struct {
	display    string
	key        string
	candidates []string
}

func (e *entry) ambiguous() bool {
	return len(e.candidates) > 1
}

// NewResolver indexes table. Keys that normalize to the same text are kept
// together so a drifted lookup can report the ambiguity.
func NewResolver(table models.LocationScoreTable, opts Options, logger zerolog.Logger) *Resolver {
	r := &Resolver{
		table:  table,
		keys:   table.Keys(),
		norm:   make(map[string][]string, len(table)),
		opts:   opts,
		logger: logger,
	}
	for _, k := range r.keys {
		n := Normalize(k)
		if prev, ok := r.norm[n]; ok {
			logger.Warn().Str("location_key", k).Strs("collides_with", prev).Msg("location keys collide after normalization")
		}
		r.norm[n] = append(r.norm[n], k)
	}
	return r
}

// Table returns the score table the resolver was built from.
func (r *Resolver) Table() models.LocationScoreTable {
	return r.table
}

// Wards returns the wards that have at least one location, in official order.
func (r *Resolver) Wards() []string {
	present := make(map[string]bool)
	for _, k := range r.keys {
		if w := WardOf(k); w != "" {
			present[w] = true
		}
	}
	out := make([]string, 0, len(present))
	for _, w := range Wards {
		if present[w] {
			out = append(out, w)
		}
	}
	return out
}

// Candidates returns the keys starting with ward, in lexicographic order.
// An empty ward selects every key.
func (r *Resolver) Candidates(ward string) []string {
	ward = NormalizeWard(ward)
	if ward == "" {
		return append([]string(nil), r.keys...)
	}
	var out []string
	for _, k := range r.keys {
		if strings.HasPrefix(Normalize(k), ward) {
			out = append(out, k)
		}
	}
	return out
}

// displayEntries builds the display map for ward over keys, in key order.
func (r *Resolver) displayEntries(ward string, keys []string) (map[string]*entry, []*entry) {
	byDisplay := make(map[string]*entry, len(keys))
	ordered := make([]*entry, 0, len(keys))
	for _, k := range keys {
		d := display(ward, k)
		n := Normalize(d)
		if e, ok := byDisplay[n]; ok {
			e.candidates = append(e.candidates, k)
			continue
		}
		e := &entry{display: d, key: k, candidates: []string{k}}
		byDisplay[n] = e
		ordered = append(ordered, e)
	}
	return byDisplay, ordered
}

// display strips ward from key. Without a ward the full key is shown.
func display(ward, key string) string {
	if ward == "" {
		return key
	}
	if strings.HasPrefix(key, ward) {
		return strings.TrimPrefix(key, ward)
	}
	return strings.TrimPrefix(Normalize(key), ward)
}

// Towns lists the towns of ward with the default selection applied.
func (r *Resolver) Towns(ward string) (models.TownListing, error) {
	ward = NormalizeWard(ward)
	keys, fallback, err := r.filtered(ward)
	if err != nil {
		return models.TownListing{}, err
	}
	displayWard := ward
	if fallback {
		displayWard = ""
	}

	_, ordered := r.displayEntries(displayWard, keys)
	listing := models.TownListing{
		Ward:     ward,
		Fallback: fallback,
		Towns:    make([]models.Town, 0, len(ordered)),
	}
	for _, e := range ordered {
		listing.Towns = append(listing.Towns, models.Town{Display: e.display, Key: e.key, Ambiguous: e.ambiguous()})
	}
	listing.Default = r.pickDefault(ordered).display
	return listing, nil
}

// DefaultTown returns the town pre-selected for ward and whether the ward
// filter fell back to every location.
func (r *Resolver) DefaultTown(ward string) (models.Town, bool, error) {
	listing, err := r.Towns(ward)
	if err != nil {
		return models.Town{}, false, err
	}
	for _, t := range listing.Towns {
		if t.Display == listing.Default {
			return t, listing.Fallback, nil
		}
	}
	return models.Town{}, false, apperrors.NewNoLocationAvailableError(ward)
}

// filtered applies the ward filter and the fallback policy.
func (r *Resolver) filtered(ward string) ([]string, bool, error) {
	keys := r.Candidates(ward)
	if len(keys) > 0 {
		return keys, false, nil
	}
	if !r.opts.AllowWardFallback || len(r.keys) == 0 {
		return nil, false, apperrors.NewNoLocationAvailableError(ward)
	}
	r.logger.Warn().Str("ward", ward).Int("locations", len(r.keys)).Msg("ward matched no location, listing all locations")
	return r.Candidates(""), true, nil
}

// pickDefault selects the single entry containing the configured default
// town, otherwise the first entry. ordered must not be empty.
func (r *Resolver) pickDefault(ordered []*entry) *entry {
	if want := Normalize(r.opts.DefaultTown); want != "" {
		var match *entry
		matches := 0
		for _, e := range ordered {
			if strings.Contains(Normalize(e.display), want) {
				match = e
				matches++
			}
		}
		if matches == 1 {
			return match
		}
	}
	return ordered[0]
}

// Resolve maps a ward and a town display name to a full key and its score.
// Without a ward, town is treated as a full key.
func (r *Resolver) Resolve(ward, town string) (string, float64, error) {
	ward = NormalizeWard(ward)
	if ward == "" {
		return r.ResolveKey(town)
	}
	if strings.TrimSpace(town) == "" {
		return "", 0, apperrors.NewInvalidInputError("town", "town is required")
	}

	if _, ok := r.table[ward+town]; ok {
		return r.lookup(ward + town)
	}

	keys := r.Candidates(ward)
	if len(keys) == 0 {
		return "", 0, apperrors.NewNoLocationAvailableError(ward)
	}

	byDisplay, _ := r.displayEntries(ward, keys)
	n := strings.TrimPrefix(Normalize(town), ward)
	e, ok := byDisplay[n]
	if !ok {
		return "", 0, apperrors.NewInvalidInputError("town", "unknown town "+town+" in "+ward)
	}
	if e.ambiguous() {
		return "", 0, apperrors.NewAmbiguousLocationError(e.display, e.candidates)
	}
	return r.lookup(e.key)
}

// ResolveKey maps a flat location key, tolerating width and prefecture drift.
func (r *Resolver) ResolveKey(key string) (string, float64, error) {
	if strings.TrimSpace(key) == "" {
		return "", 0, apperrors.NewInvalidInputError("town_key", "location key is required")
	}
	if _, ok := r.table[key]; ok {
		return r.lookup(key)
	}
	matches := r.norm[Normalize(key)]
	switch len(matches) {
	case 0:
		return "", 0, apperrors.NewInvalidInputError("town_key", "unknown location "+key)
	case 1:
		return r.lookup(matches[0])
	default:
		return "", 0, apperrors.NewAmbiguousLocationError(key, matches)
	}
}

func (r *Resolver) lookup(key string) (string, float64, error) {
	score, ok := r.table[key]
	if !ok {
		r.logger.Error().Str("location_key", key).Msg("resolved key missing from score table")
		return "", 0, apperrors.NewKeyConsistencyError(key)
	}
	return key, score, nil
}
