// Package inmemkv holds records in process memory. It backs the transient
// current-user marker, whose lifetime is the browsing context: the records
// die with the process, which is the point.
package inmemkv

import (
	"context"
	"sync"

	"github.com/LithiumValproate/Freshman-3rd/storage"
)

type KV struct {
	mutex sync.RWMutex
	t     map[string][]byte
}

var _ storage.KV = (*KV)(nil)

func Open() *KV {
	return &KV{t: make(map[string][]byte)}
}

func (kv *KV) Get(_ context.Context, key string) ([]byte, error) {
	kv.mutex.RLock()
	defer kv.mutex.RUnlock()

	v, ok := kv.t[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (kv *KV) Set(_ context.Context, key string, value []byte) error {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	kv.t[key] = append([]byte(nil), value...)
	return nil
}

func (kv *KV) Delete(_ context.Context, key string) error {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	delete(kv.t, key)
	return nil
}

func (kv *KV) Close() error {
	return nil
}
