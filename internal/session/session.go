package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"embedding-wrangler/internal/wrangler"
)

// ErrInvalidID is returned for ids that were not issued by NewID.
var ErrInvalidID = errors.New("invalid session id")

// Store keeps the transient UI state of each browser session.
type Store interface {
	// Load returns the state for id, or a zero State if none is stored.
	Load(ctx context.Context, id string) (wrangler.State, error)

	// Update applies fn to the stored state atomically and returns the result.
	Update(ctx context.Context, id string, fn wrangler.Update) (wrangler.State, error)

	// Close releases any connection held by the store.
	Close() error
}

// NewID issues a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
