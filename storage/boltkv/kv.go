// Package boltkv persists records in a local bbolt file. It is the default
// backend for the long-lived records (session, remembered identity).
package boltkv

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/storage"
)

const bucketName = "records"

type KV struct {
	db     *bolt.DB
	bucket []byte
}

var _ storage.KV = (*KV)(nil)

// Open initializes the bbolt file and ensures the records bucket exists.
func Open(conf *core.Config) (*KV, error) {
	path := conf.Storage.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating storage dir for %s", path)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	if err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating records bucket")
	}

	return &KV{db: db, bucket: []byte(bucketName)}, nil
}

func (kv *KV) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := kv.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(kv.bucket).Get([]byte(key))
		if v == nil {
			return storage.ErrNotFound
		}
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (kv *KV) Set(_ context.Context, key string, value []byte) error {
	return kv.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kv.bucket).Put([]byte(key), value)
	})
}

func (kv *KV) Delete(_ context.Context, key string) error {
	return kv.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kv.bucket).Delete([]byte(key))
	})
}

func (kv *KV) Close() error {
	return kv.db.Close()
}
