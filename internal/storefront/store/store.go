// Package store defines the persisted session state contract: a durable,
// string-keyed, string-valued map scoped to this device. It is what lets a
// checkout or an auth session survive a process restart. There are no
// transactional guarantees across keys; resume logic must tolerate partial
// writes.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// Well-known session keys. The checkout controller owns the order keys, the
// auth scheduler owns the token keys; nothing else writes them.
const (
	KeyOrderID           = "orderId"
	KeyOrderInProgress   = "orderInProgress"
	KeyStartTime         = "startTime"
	KeyProgress          = "progress"
	KeyAuthTokens        = "authTokens"
	KeyAuthTokensRefresh = "authTokensRefresh"
	KeyEmail             = "email"
)

// Store is the device-local durable key-value store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteAll removes every given key. Idempotent: repeating the call in
	// any order leaves the store equivalently empty.
	DeleteAll(ctx context.Context, keys ...string) error

	Close() error
}
