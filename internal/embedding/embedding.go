package embedding

import (
	"context"
	"errors"
)

// Mode tells the provider how the embedded text is going to be used.
type Mode string

const (
	ModeQuery    Mode = "query"
	ModeDocument Mode = "document"
)

var ErrEmptyResponse = errors.New("embedding provider returned no vectors")

// Embedder maps texts to vectors of a fixed, provider-defined dimensionality.
// Implementations fail closed: any provider problem is returned as an error.
type Embedder interface {
	Embed(ctx context.Context, texts []string, mode Mode) ([][]float64, error)
	Provider() string
	Model() string
}

// CheckBatch verifies that a provider answered with one non-empty vector per
// text and that all vectors share the same dimensionality.
func CheckBatch(texts []string, vectors [][]float64) error {
	if len(vectors) == 0 && len(texts) > 0 {
		return ErrEmptyResponse
	}
	if len(vectors) != len(texts) {
		return &BatchError{Expected: len(texts), Got: len(vectors)}
	}

	dim := -1
	for idx, vec := range vectors {
		if len(vec) == 0 {
			return &BatchError{Expected: len(texts), Got: len(vectors), Index: idx, Reason: "empty vector"}
		}
		if dim == -1 {
			dim = len(vec)
			continue
		}
		if len(vec) != dim {
			return &BatchError{Expected: len(texts), Got: len(vectors), Index: idx, Reason: "dimension differs within batch"}
		}
	}
	return nil
}
