package embeddings

import (
	"context"
	"errors"
	"fmt"
)

// ErrRequestFailed covers every way a call to the embedding service can fail:
// transport errors, non-2xx responses and bodies that cannot be used.
var ErrRequestFailed = errors.New("embedding service request failed")

// Similarity holds the metrics returned for a word pair.
type Similarity struct {
	CosineSimilarity  float64 `json:"cosine_similarity"`
	EuclideanDistance float64 `json:"euclidean_distance"`
}

// WordScore is one ranked entry of a neighbor or arithmetic result.
type WordScore struct {
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`
}

// Visualization is the raw 2-D projection returned by the service.
// Coordinates and Words are parallel arrays.
type Visualization struct {
	Coordinates [][]float64 `json:"coordinates"`
	Words       []string    `json:"words"`
}

// Point is a single labelled coordinate of a projection.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Word string  `json:"word"`
}

// Service is the contract of the embedding backend.
type Service interface {
	Similarity(ctx context.Context, word1, word2 string) (Similarity, error)
	// NearestNeighbors ranks the words closest to word. n <= 0 leaves the
	// count to the service.
	NearestNeighbors(ctx context.Context, word string, n int) ([]WordScore, error)
	// WordArithmetic computes positive - negative.
	WordArithmetic(ctx context.Context, positive, negative string) ([]WordScore, error)
	Visualize(ctx context.Context, words []string) (Visualization, error)
}

// StatusError reports a non-2xx response. Detail is the service's error
// message when it sent one.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("embedding service returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("embedding service returned %d", e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Points zips coordinates with their labels. Arrays of different length and
// coordinates with fewer than two components are rejected rather than
// mislabelled.
func (v Visualization) Points() ([]Point, error) {
	if len(v.Coordinates) != len(v.Words) {
		return nil, fmt.Errorf("%w: %d coordinates for %d words", ErrRequestFailed, len(v.Coordinates), len(v.Words))
	}
	points := make([]Point, len(v.Coordinates))
	for i, coord := range v.Coordinates {
		if len(coord) < 2 {
			return nil, fmt.Errorf("%w: coordinate %d has %d components", ErrRequestFailed, i, len(coord))
		}
		points[i] = Point{X: coord[0], Y: coord[1], Word: v.Words[i]}
	}
	return points, nil
}
