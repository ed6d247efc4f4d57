package models

import (
	"fmt"
	"strings"
)

// ValuationRequest carries the raw inputs of a single valuation.
// Either Town (with an optional Ward) or TownKey must be set.
type ValuationRequest struct {
	Ward        string  `json:"ward,omitempty" form:"ward"`
	Town        string  `json:"town,omitempty" form:"town"`
	TownKey     string  `json:"town_key,omitempty" form:"town_key"`
	Size        float64 `json:"size" form:"size"`
	BuiltYear   int     `json:"built_year" form:"built_year"`
	WalkMinutes int     `json:"walk_minutes" form:"walk"`
}

// ValuationResult is a point estimate plus the inputs it was derived from.
type ValuationResult struct {
	LocationKey    string  `json:"location_key"`
	LocationScore  float64 `json:"location_score"`
	Size           float64 `json:"size"`
	Age            int     `json:"age"`
	WalkMinutes    int     `json:"walk_minutes"`
	PredictedPrice int64   `json:"predicted_price"`
	UnitPrice      int64   `json:"unit_price"`
	// Implausible marks a non-positive prediction, returned unclamped.
	Implausible bool `json:"implausible"`
}

// RankingRequest asks for every known location valued under one set of specs.
type RankingRequest struct {
	Size        float64 `json:"size" form:"size"`
	BuiltYear   int     `json:"built_year" form:"built_year"`
	WalkMinutes int     `json:"walk_minutes" form:"walk"`
	Order       Order   `json:"order" form:"order"`
	Limit       int     `json:"limit" form:"limit"`
}

// RankingEntry is one row of a ranking.
type RankingEntry struct {
	LocationKey    string `json:"location_key"`
	PredictedPrice int64  `json:"predicted_price"`
	UnitPrice      int64  `json:"unit_price"`
}

// Order is the sort direction of a ranking by price.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// ParseOrder accepts "asc"/"ascending" and "desc"/"descending", case-insensitively.
// An empty string means Descending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	}
	return "", fmt.Errorf("unknown order %q", s)
}

// YieldResult is the gross rental yield of a property at a given price.
type YieldResult struct {
	MonthlyRent    int64   `json:"monthly_rent"`
	PredictedPrice int64   `json:"predicted_price"`
	YieldRate      float64 `json:"yield_rate"`
}
