// Package regression holds the price models served by this system and the
// machinery to rebuild them from a chunked, serialized artifact.
package regression

import (
	"fmt"
)

// Model predicts a price from one feature vector. Implementations must be
// safe for concurrent use and must not mutate state on Predict.
type Model interface {
	Predict(x []float64) (float64, error)
	// Features is the column order the model was trained with.
	Features() []string
}

// Node is one node of a decision tree. Left == -1 marks a leaf.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a flat array of nodes rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t Tree) predict(x []float64) (float64, error) {
	i := 0
	// A valid tree reaches a leaf in at most len(Nodes) steps.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		n := t.Nodes[i]
		if n.Left == -1 {
			return n.Value, nil
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return 0, fmt.Errorf("regression: tree does not terminate")
}

func (t Tree) validate(width int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Left == -1 {
			continue
		}
		if n.Feature < 0 || n.Feature >= width {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}

// Forest is a random forest regressor: the mean of its trees.
type Forest struct {
	Columns []string
	Trees   []Tree
}

func (f *Forest) Features() []string { return f.Columns }

func (f *Forest) Predict(x []float64) (float64, error) {
	if len(x) != len(f.Columns) {
		return 0, fmt.Errorf("regression: expected %d features, got %d", len(f.Columns), len(x))
	}
	var sum float64
	for _, t := range f.Trees {
		v, err := t.predict(x)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(f.Trees)), nil
}

// Linear is an ordinary least squares model.
type Linear struct {
	Columns      []string
	Intercept    float64
	Coefficients []float64
}

func (l *Linear) Features() []string { return l.Columns }

func (l *Linear) Predict(x []float64) (float64, error) {
	if len(x) != len(l.Coefficients) {
		return 0, fmt.Errorf("regression: expected %d features, got %d", len(l.Coefficients), len(x))
	}
	y := l.Intercept
	for i, c := range l.Coefficients {
		y += c * x[i]
	}
	return y, nil
}
