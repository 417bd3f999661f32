// Package ngram builds deterministic local embeddings from hashed character
// trigrams. It needs no network and no model files.
package ngram

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
)

const n = 3

// ErrEmptyText is returned for text that yields no n-grams.
var ErrEmptyText = errors.New("ngram: empty text")

// Embedder hashes the boundary-padded character trigrams of a token into a
// fixed number of buckets and L2-normalizes the counts.
type Embedder struct {
	dims int
}

// New creates an Embedder producing vectors of length dims.
func New(dims int) *Embedder {
	if dims < 1 {
		dims = 1
	}
	return &Embedder{dims: dims}
}

// Dimensions returns the vector length.
func (e *Embedder) Dimensions() int { return e.dims }

// Embed returns the trigram vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrEmptyText
	}

	padded := "^" + text + "$"
	vec := make([]float32, e.dims)
	h := fnv.New32a()

	for i := 0; i+n <= len(padded); i++ {
		h.Reset()
		h.Write([]byte(padded[i : i+n]))
		vec[int(h.Sum32()%uint32(e.dims))]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}

	return vec, nil
}
