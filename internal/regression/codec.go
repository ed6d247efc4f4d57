package regression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

const (
	KindRandomForest = "random_forest"
	KindLinear       = "linear"
)

// Decoder turns a reassembled artifact into a Model.
type Decoder func(data []byte) (Model, error)

// document is the serialized form of a model.
type document struct {
	Kind         string    `json:"kind"`
	Version      string    `json:"version,omitempty"`
	Features     []string  `json:"features"`
	Trees        []Tree    `json:"trees,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
}

// NewDecoder returns a Decoder for gzip-compressed JSON model documents.
// The decoded model must declare exactly the features in schema, in order.
func NewDecoder(schema []string) Decoder {
	return func(data []byte) (Model, error) {
		return decode(data, schema)
	}
}

func decode(data []byte, schema []string) (Model, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()

	// Reading to EOF verifies the trailing CRC32 and length.
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode model document: %w", err)
	}

	if !slices.Equal(doc.Features, schema) {
		return nil, fmt.Errorf("feature schema mismatch: model has %v, expected %v", doc.Features, schema)
	}

	switch doc.Kind {
	case KindRandomForest:
		if len(doc.Trees) == 0 {
			return nil, errors.New("random forest has no trees")
		}
		for i, t := range doc.Trees {
			if err := t.validate(len(schema)); err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
		}
		return &Forest{Columns: doc.Features, Trees: doc.Trees}, nil
	case KindLinear:
		if len(doc.Coefficients) != len(schema) {
			return nil, fmt.Errorf("linear model has %d coefficients, expected %d", len(doc.Coefficients), len(schema))
		}
		return &Linear{Columns: doc.Features, Intercept: doc.Intercept, Coefficients: doc.Coefficients}, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", doc.Kind)
	}
}

// Encode serializes a Forest or Linear model in the format NewDecoder reads.
func Encode(m Model, version string) ([]byte, error) {
	doc := document{Version: version, Features: m.Features()}
	switch v := m.(type) {
	case *Forest:
		doc.Kind = KindRandomForest
		doc.Trees = v.Trees
	case *Linear:
		doc.Kind = KindLinear
		doc.Intercept = v.Intercept
		doc.Coefficients = v.Coefficients
	default:
		return nil, fmt.Errorf("regression: cannot encode %T", m)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("regression: failed to marshal model: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("regression: failed to compress model: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("regression: failed to compress model: %w", err)
	}
	return buf.Bytes(), nil
}
