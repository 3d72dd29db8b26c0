package cart

import (
	"context"
	"errors"
)

// ErrCorrupted marks persisted cart data that can no longer be decoded. The
// store treats it as an empty cart rather than failing; the broken snapshot is
// overwritten on the next mutation.
var ErrCorrupted = errors.New("persisted cart data is corrupted")

// Storage persists the full item sequence of one cart. Load returns an empty
// slice (not an error) when nothing was stored yet; Save replaces the whole
// snapshot so that a reload immediately after any mutation reflects it.
type Storage interface {
	Load(ctx context.Context, cartID string) ([]LineItem, error)
	Save(ctx context.Context, cartID string, items []LineItem) error
}
