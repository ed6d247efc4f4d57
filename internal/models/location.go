package models

import "sort"

// LocationScoreTable maps a full location key (ward + town, e.g. "新宿区西新宿")
// to the area's average unit price index. It is loaded once at startup and
// never mutated afterwards.
type LocationScoreTable map[string]float64

// Keys returns every location key in lexicographic order.
func (t LocationScoreTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Score returns the score for key and whether it exists.
func (t LocationScoreTable) Score(key string) (float64, bool) {
	s, ok := t[key]
	return s, ok
}

// TownScore is one row of the score table as stored in PostgreSQL.
type TownScore struct {
	LocationKey string  `json:"location_key"`
	Score       float64 `json:"score"`
}

// Town is a selectable town inside a ward.
type Town struct {
	Display   string `json:"display"`
	Key       string `json:"key"`
	Ambiguous bool   `json:"ambiguous"`
}

// TownListing is the ward-filtered town selection offered to a caller.
type TownListing struct {
	Ward    string `json:"ward"`
	Default string `json:"default"`
	// Fallback is true when the ward matched nothing and the full key set is listed instead.
	Fallback bool   `json:"fallback"`
	Towns    []Town `json:"towns"`
}
