// Package wrangler holds the UI state of the Embedding Wrangler page and the
// four request flows that mutate it.
package wrangler

import "embedding-wrangler/internal/embeddings"

// State is everything one page shows. Each flow owns one result slot; the
// input words and the error banner are shared.
type State struct {
	Word1 string `json:"word1"`
	Word2 string `json:"word2"`

	Comparison *embeddings.Similarity `json:"comparison,omitempty"`
	Neighbors  []embeddings.WordScore `json:"neighbors,omitempty"`
	Arithmetic []embeddings.WordScore `json:"arithmetic,omitempty"`
	Points     []embeddings.Point     `json:"points,omitempty"`

	Error string `json:"error,omitempty"`
}

// Update applies the outcome of one flow to a State.
type Update func(*State)

// Then chains u and next into one Update.
func (u Update) Then(next Update) Update {
	return func(st *State) {
		u(st)
		next(st)
	}
}

// Clone returns a deep copy of st.
func (st State) Clone() State {
	out := st
	if st.Comparison != nil {
		c := *st.Comparison
		out.Comparison = &c
	}
	out.Neighbors = append([]embeddings.WordScore(nil), st.Neighbors...)
	out.Arithmetic = append([]embeddings.WordScore(nil), st.Arithmetic...)
	out.Points = append([]embeddings.Point(nil), st.Points...)
	return out
}

// VisualizationWords is the word list sent by the visualizer: both entered
// words followed by at most three of the latest neighbors.
func (st State) VisualizationWords() []string {
	words := []string{st.Word1, st.Word2}
	for i, n := range st.Neighbors {
		if i == maxVisualizedNeighbors {
			break
		}
		words = append(words, n.Word)
	}
	return words
}

const maxVisualizedNeighbors = 3
