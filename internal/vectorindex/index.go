// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorindex stores document embeddings and answers nearest
// neighbour queries by cosine distance. Entries are keyed by ID; writing an
// existing ID replaces the entry. Entries are never removed implicitly.
package vectorindex

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pdiddy/sustain-research/pkg/types"
)

// ErrDimensionMismatch is returned when a query vector and a stored vector
// have different lengths, usually because the embedder changed between runs.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// VectorIndex is a keyed store of embedded documents.
type VectorIndex interface {
	// Upsert inserts entries or replaces those with an existing ID.
	Upsert(ctx context.Context, entries []types.IndexEntry) error

	// Query returns the k entries closest to vec, nearest first.
	Query(ctx context.Context, vec []float32, k int) ([]types.Hit, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	Close() error
}

// CosineDistance returns 1 minus the cosine similarity of a and b. A zero
// vector is treated as orthogonal to everything.
func CosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// rank scores every candidate against vec and keeps the k nearest. Equal
// distances are ordered by ID so results are stable.
func rank(vec []float32, candidates []types.IndexEntry, k int) ([]types.Hit, error) {
	hits := make([]types.Hit, 0, len(candidates))
	for _, e := range candidates {
		if len(e.Embedding) != len(vec) {
			return nil, fmt.Errorf("entry %s has %d dimensions, query has %d: %w",
				e.ID, len(e.Embedding), len(vec), ErrDimensionMismatch)
		}
		hits = append(hits, types.Hit{IndexEntry: e, Distance: CosineDistance(vec, e.Embedding)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})
	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// encodeVector packs v as little-endian float32 values.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// decodeVector is the inverse of encodeVector.
func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
