package embeddings

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockService is a mock implementation of Service using testify/mock.
type MockService struct {
	mock.Mock
}

func (m *MockService) Similarity(ctx context.Context, word1, word2 string) (Similarity, error) {
	args := m.Called(ctx, word1, word2)
	return args.Get(0).(Similarity), args.Error(1)
}

func (m *MockService) NearestNeighbors(ctx context.Context, word string, n int) ([]WordScore, error) {
	args := m.Called(ctx, word, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WordScore), args.Error(1)
}

func (m *MockService) WordArithmetic(ctx context.Context, positive, negative string) ([]WordScore, error) {
	args := m.Called(ctx, positive, negative)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WordScore), args.Error(1)
}

func (m *MockService) Visualize(ctx context.Context, words []string) (Visualization, error) {
	args := m.Called(ctx, words)
	return args.Get(0).(Visualization), args.Error(1)
}
