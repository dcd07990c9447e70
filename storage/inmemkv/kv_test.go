package inmemkv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LithiumValproate/Freshman-3rd/storage"
)

func Test_KV_roundtrip(t *testing.T) {
	kv := Open()
	ctx := context.Background()

	_, err := kv.Get(ctx, storage.KeyCurrentUser)
	assert.Equal(t, storage.ErrNotFound, err)

	if err = kv.Set(ctx, storage.KeyCurrentUser, []byte("alice")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, err := kv.Get(ctx, storage.KeyCurrentUser)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	assert.Equal(t, []byte("alice"), got)

	if err = kv.Delete(ctx, storage.KeyCurrentUser); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	_, err = kv.Get(ctx, storage.KeyCurrentUser)
	assert.Equal(t, storage.ErrNotFound, err)

	assert.NoError(t, kv.Delete(ctx, storage.KeyCurrentUser))
}

func Test_KV_copiesValues(t *testing.T) {
	kv := Open()
	ctx := context.Background()

	val := []byte("alice")
	if err := kv.Set(ctx, storage.KeyCurrentUser, val); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	val[0] = 'X' // mutating the caller's slice must not reach the store

	got, err := kv.Get(ctx, storage.KeyCurrentUser)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	assert.Equal(t, []byte("alice"), got)

	got[0] = 'Y' // nor must mutating a returned slice
	got, err = kv.Get(ctx, storage.KeyCurrentUser)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	assert.Equal(t, []byte("alice"), got)
}
