// Package redikv persists records in redis, as an alternative to the local
// bbolt file for deployments where the portal host is not the storage host.
package redikv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/storage"
)

const keyPrefix = "webstore:"

type KV struct {
	client *redis.Client
}

var _ storage.KV = (*KV)(nil)

func Open(conf *core.Config) (*KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrapf(err, "pinging redis at %s", conf.Redis.Addr)
	}
	return New(client), nil
}

func New(client *redis.Client) *KV {
	return &KV{client: client}
}

func (kv *KV) key(key string) string {
	return keyPrefix + key
}

func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := kv.client.Get(ctx, kv.key(key)).Bytes()
	if err == redis.Nil {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting %s", key)
	}
	return val, nil
}

// Set stores the record without a redis TTL: record expiry is enforced lazily
// at query time by the session layer, never by the store.
func (kv *KV) Set(ctx context.Context, key string, value []byte) error {
	return errors.Wrapf(kv.client.Set(ctx, kv.key(key), value, 0).Err(), "setting %s", key)
}

func (kv *KV) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(kv.client.Del(ctx, kv.key(key)).Err(), "deleting %s", key)
}

func (kv *KV) Close() error {
	return kv.client.Close()
}
