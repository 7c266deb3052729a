package wrangler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"embedding-wrangler/internal/embeddings"
)

// Banner messages. The page never shows the underlying error.
const (
	MsgSimilarityFailed = "Failed to fetch similarity"
	MsgNeighborsFailed  = "Failed to fetch neighbors"
	MsgArithmeticFailed = "Failed to perform word arithmetic"
	MsgVisualizeFailed  = "Failed to visualize embeddings"

	MsgNeedBothWords = "Please enter both words"
	MsgNeedWord      = "Please enter a word"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type wordPair struct {
	Word1 string `validate:"required"`
	Word2 string `validate:"required"`
}

type singleWord struct {
	Word string `validate:"required"`
}

// Wrangler runs the page's flows against an embedding service. Each flow makes
// at most one request and returns the Update to apply; it never touches
// shared state itself, so callers decide how updates are serialized.
type Wrangler struct {
	svc embeddings.Service
	log *slog.Logger
}

func New(svc embeddings.Service, log *slog.Logger) *Wrangler {
	if log == nil {
		log = slog.Default()
	}
	return &Wrangler{svc: svc, log: log}
}

// Compare fetches similarity metrics for the two words.
func (w *Wrangler) Compare(ctx context.Context, word1, word2 string) Update {
	word1, word2 = clean(word1), clean(word2)
	setWords := setPair(word1, word2)
	if err := validate.Struct(wordPair{Word1: word1, Word2: word2}); err != nil {
		return setWords.Then(fail(MsgNeedBothWords))
	}

	res, err := w.svc.Similarity(ctx, word1, word2)
	if err != nil {
		w.log.Warn("similarity request failed", "word1", word1, "word2", word2, "err", err)
		return setWords.Then(fail(MsgSimilarityFailed))
	}
	return setWords.Then(func(st *State) {
		st.Comparison = &res
		st.Error = ""
	})
}

// FindNeighbors replaces the neighbor list with the service's ranking for word.
// n <= 0 leaves the count to the service, which is what the page does.
func (w *Wrangler) FindNeighbors(ctx context.Context, word string, n int) Update {
	word = clean(word)
	setWord := func(st *State) { st.Word1 = word }
	if err := validate.Struct(singleWord{Word: word}); err != nil {
		return Update(setWord).Then(fail(MsgNeedWord))
	}

	res, err := w.svc.NearestNeighbors(ctx, word, n)
	if err != nil {
		w.log.Warn("neighbors request failed", "word", word, "err", err)
		return Update(setWord).Then(fail(MsgNeighborsFailed))
	}
	return Update(setWord).Then(func(st *State) {
		st.Neighbors = res
		st.Error = ""
	})
}

// Arithmetic solves positive - negative.
func (w *Wrangler) Arithmetic(ctx context.Context, positive, negative string) Update {
	positive, negative = clean(positive), clean(negative)
	setWords := setPair(positive, negative)
	if err := validate.Struct(wordPair{Word1: positive, Word2: negative}); err != nil {
		return setWords.Then(fail(MsgNeedBothWords))
	}

	res, err := w.svc.WordArithmetic(ctx, positive, negative)
	if err != nil {
		w.log.Warn("arithmetic request failed", "positive", positive, "negative", negative, "err", err)
		return setWords.Then(fail(MsgArithmeticFailed))
	}
	return setWords.Then(func(st *State) {
		st.Arithmetic = res
		st.Error = ""
	})
}

// Visualize projects the two entered words and the top entries of neighbors,
// the neighbor list currently on the page.
func (w *Wrangler) Visualize(ctx context.Context, word1, word2 string, neighbors []embeddings.WordScore) Update {
	word1, word2 = clean(word1), clean(word2)
	setWords := setPair(word1, word2)
	if err := validate.Struct(wordPair{Word1: word1, Word2: word2}); err != nil {
		return setWords.Then(fail(MsgNeedBothWords))
	}

	words := State{Word1: word1, Word2: word2, Neighbors: neighbors}.VisualizationWords()
	vis, err := w.svc.Visualize(ctx, words)
	if err != nil {
		w.log.Warn("visualize request failed", "words", words, "err", err)
		return setWords.Then(fail(MsgVisualizeFailed))
	}
	points, err := vis.Points()
	if err != nil {
		w.log.Warn("visualize response unusable", "words", words, "err", err)
		return setWords.Then(fail(MsgVisualizeFailed))
	}
	return setWords.Then(func(st *State) {
		st.Points = points
		st.Error = ""
	})
}

func setPair(word1, word2 string) Update {
	return func(st *State) {
		st.Word1 = word1
		st.Word2 = word2
	}
}

func fail(msg string) Update {
	return func(st *State) { st.Error = msg }
}

func clean(s string) string {
	return strings.TrimSpace(s)
}
