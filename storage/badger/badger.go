// Package badger provides a badger backed storage backend.
package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger"

	"github.com/saradhi4688/qrngenv/log"
	"github.com/saradhi4688/qrngenv/storage"
)

// Badger database.
type Badger struct {
	name string
	db   *badger.DB
}

func init() {
	_ = storage.Register("badger", NewBadger)
}

// NewBadger opens a badger database at location.
func NewBadger(name, location string) (storage.Interface, error) {
	opts := badger.DefaultOptions(location)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if errors.Is(err, badger.ErrTruncateNeeded) {
		// clean up after crash
		log.Warningf("storage/badger: truncating corrupted value log of database %s, some data may be lost", name)
		opts.Truncate = true
		db, err = badger.Open(opts)
	}
	if err != nil {
		return nil, err
	}

	return &Badger{
		name: name,
		db:   db,
	}, nil
}

// Get returns the value stored under the given key.
func (b *Badger) Get(key string) ([]byte, error) {
	var value []byte

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	return value, nil
}

// Put stores the value under the given key.
func (b *Badger) Put(key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Delete removes the entry with the given key.
func (b *Badger) Delete(key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// IteratePrefix calls fn for every entry whose key starts with prefix.
func (b *Badger) IteratePrefix(prefix string, fn func(key string, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			err = fn(string(item.Key()), value)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Maintain runs garbage collection on the value log.
func (b *Badger) Maintain(_ context.Context) error {
	err := b.db.RunValueLogGC(0.7)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return err
	}
	return nil
}

// Shutdown shuts down the database.
func (b *Badger) Shutdown() error {
	return b.db.Close()
}
