// Package bbolt provides a bbolt backed storage backend.
package bbolt

import (
	"bytes"
	"context"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/saradhi4688/qrngenv/storage"
	"github.com/saradhi4688/qrngenv/utils"
)

var bucketName = []byte{0}

// BBolt database.
type BBolt struct {
	name string
	db   *bbolt.DB
}

func init() {
	_ = storage.Register("bbolt", NewBBolt)
}

// NewBBolt opens a bbolt database at location.
func NewBBolt(name, location string) (storage.Interface, error) {
	dbFile := filepath.Join(location, "db.bbolt")
	db, err := bbolt.Open(dbFile, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	// Create bucket, if it does not exist.
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &BBolt{
		name: name,
		db:   db,
	}, nil
}

// Get returns the value stored under the given key.
func (b *BBolt) Get(key string) ([]byte, error) {
	var value []byte

	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return storage.ErrNotFound
		}
		// Duplicate, as the value is only valid within the transaction.
		value = utils.DuplicateBytes(v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Put stores the value under the given key.
func (b *BBolt) Put(key string, value []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	})
}

// Delete removes the entry with the given key.
func (b *BBolt) Delete(key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

// IteratePrefix calls fn for every entry whose key starts with prefix.
func (b *BBolt) IteratePrefix(prefix string, fn func(key string, value []byte) error) error {
	prefixBytes := []byte(prefix)

	return b.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for key, value := c.Seek(prefixBytes); key != nil && bytes.HasPrefix(key, prefixBytes); key, value = c.Next() {
			err := fn(string(key), utils.DuplicateBytes(value))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Maintain runs a maintenance operation on the database.
func (b *BBolt) Maintain(_ context.Context) error {
	return nil
}

// Shutdown shuts down the database.
func (b *BBolt) Shutdown() error {
	return b.db.Close()
}
