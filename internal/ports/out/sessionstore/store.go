package sessionstore

import (
	"context"
	"errors"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
)

// ErrNotFound indicates no live session exists for the id.
var ErrNotFound = errors.New("session not found")

// Store holds live terminal sessions for the lifetime of the console process.
// Nothing in a session is persisted beyond that.
type Store[T any] interface {
	Get(ctx context.Context, id domain.SessionID) (T, error)
	Put(ctx context.Context, id domain.SessionID, v T) error
	Delete(ctx context.Context, id domain.SessionID) error
}
