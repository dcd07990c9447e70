// Package storage defines the key-value persistence abstraction backing the
// session subsystem, with bbolt, redis and in-memory implementations in
// subpackages.
package storage

import (
	"context"

	"github.com/pkg/errors"
)

// Logical record keys. Each holds a single JSON-serialized record; writing a
// key overwrites any prior record, so at most one of each exists at a time.
const (
	KeySession        = "userSession"
	KeyCurrentUser    = "currentUser"
	KeyRememberedUser = "rememberedUser"
)

// ErrNotFound is returned by KV.Get for absent keys.
var ErrNotFound = errors.New("key not found")

// KV is a single-writer, single-reader store per browsing context.
// If multiple processes share one, last-write-wins is the accepted
// consistency model; implementations do no cross-writer coordination.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
