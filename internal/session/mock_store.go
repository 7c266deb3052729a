package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"embedding-wrangler/internal/wrangler"
)

// MockStore is a mock implementation of the Store interface for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context, id string) (wrangler.State, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(wrangler.State), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, id string, fn wrangler.Update) (wrangler.State, error) {
	args := m.Called(ctx, id, fn)
	return args.Get(0).(wrangler.State), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
