// Package features builds model input vectors. It is the only place the
// column order {size, age, walk, town_score} is defined; the trained model
// silently mispredicts if that order changes without retraining.
package features

import (
	"fmt"
	"math"

	"tokyo-valuation-api/internal/apperrors"
)

// Input ranges accepted from callers.
const (
	MaxSize        = 1000.0
	MinBuiltYear   = 1900
	MaxWalkMinutes = 120
)

const (
	colSize = iota
	colAge
	colWalk
	colScore
	width
)

var columns = [width]string{
	colSize:  "size",
	colAge:   "age",
	colWalk:  "walk",
	colScore: "town_score",
}

// Columns returns the trained feature schema in order.
func Columns() []string {
	c := columns
	return c[:]
}

// Vector is a validated feature vector. Its zero value is not valid input
// for a model; obtain one from a Builder.
type Vector struct {
	values [width]float64
}

// Values returns a copy of the vector in column order.
func (v Vector) Values() []float64 {
	c := v.values
	return c[:]
}

func (v Vector) Size() float64 { return v.values[colSize] }

func (v Vector) Age() int { return int(v.values[colAge]) }

func (v Vector) WalkMinutes() int { return int(v.values[colWalk]) }

func (v Vector) Score() float64 { return v.values[colScore] }

// WithScore returns a copy of v for another location.
func (v Vector) WithScore(score float64) (Vector, error) {
	if err := checkScore(score); err != nil {
		return Vector{}, err
	}
	v.values[colScore] = score
	return v, nil
}

// Builder derives age from a fixed reference year. The reference year belongs
// to a model generation and changes only with retraining.
type Builder struct {
	referenceYear int
}

// NewBuilder creates a Builder for models trained against referenceYear.
func NewBuilder(referenceYear int) *Builder {
	return &Builder{referenceYear: referenceYear}
}

func (b *Builder) ReferenceYear() int {
	return b.referenceYear
}

// Age returns referenceYear - builtYear.
func (b *Builder) Age(builtYear int) (int, error) {
	if builtYear < MinBuiltYear || builtYear > b.referenceYear {
		return 0, apperrors.NewInvalidInputError("built_year",
			fmt.Sprintf("must be between %d and %d, got %d", MinBuiltYear, b.referenceYear, builtYear))
	}
	return b.referenceYear - builtYear, nil
}

// Build returns [size, age, walk, score].
func (b *Builder) Build(size float64, builtYear, walkMinutes int, score float64) (Vector, error) {
	age, err := b.Age(builtYear)
	if err != nil {
		return Vector{}, err
	}
	return b.BuildWithAge(size, age, walkMinutes, score)
}

// BuildWithAge is Build for callers that already hold a derived age.
func (b *Builder) BuildWithAge(size float64, age, walkMinutes int, score float64) (Vector, error) {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 || size > MaxSize {
		return Vector{}, apperrors.NewInvalidInputError("size",
			fmt.Sprintf("must be greater than 0 and at most %g, got %g", MaxSize, size))
	}
	if age < 0 || age > b.referenceYear-MinBuiltYear {
		return Vector{}, apperrors.NewInvalidInputError("age", fmt.Sprintf("out of range: %d", age))
	}
	if walkMinutes < 0 || walkMinutes > MaxWalkMinutes {
		return Vector{}, apperrors.NewInvalidInputError("walk_minutes",
			fmt.Sprintf("must be between 0 and %d, got %d", MaxWalkMinutes, walkMinutes))
	}
	if err := checkScore(score); err != nil {
		return Vector{}, err
	}

	var v Vector
	v.values[colSize] = size
	v.values[colAge] = float64(age)
	v.values[colWalk] = float64(walkMinutes)
	v.values[colScore] = score
	return v, nil
}

func checkScore(score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return apperrors.NewInvalidInputError("location_score", "must be a finite number")
	}
	return nil
}
