// Package hashmap provides a simple in-memory storage backend.
package hashmap

import (
	"context"
	"strings"
	"sync"

	"github.com/saradhi4688/qrngenv/storage"
	"github.com/saradhi4688/qrngenv/utils"
)

// HashMap database.
type HashMap struct {
	name   string
	db     map[string][]byte
	dbLock sync.RWMutex
}

func init() {
	_ = storage.Register("hashmap", NewHashMap)
}

// NewHashMap creates an in-memory database. The location is ignored.
func NewHashMap(name, location string) (storage.Interface, error) {
	return &HashMap{
		name: name,
		db:   make(map[string][]byte),
	}, nil
}

// Get returns the value stored under the given key.
func (hm *HashMap) Get(key string) ([]byte, error) {
	hm.dbLock.RLock()
	defer hm.dbLock.RUnlock()

	value, ok := hm.db[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return utils.DuplicateBytes(value), nil
}

// Put stores the value under the given key.
func (hm *HashMap) Put(key string, value []byte) error {
	hm.dbLock.Lock()
	defer hm.dbLock.Unlock()

	hm.db[key] = utils.DuplicateBytes(value)
	return nil
}

// Delete removes the entry with the given key.
func (hm *HashMap) Delete(key string) error {
	hm.dbLock.Lock()
	defer hm.dbLock.Unlock()

	delete(hm.db, key)
	return nil
}

// IteratePrefix calls fn for every entry whose key starts with prefix.
func (hm *HashMap) IteratePrefix(prefix string, fn func(key string, value []byte) error) error {
	hm.dbLock.RLock()
	defer hm.dbLock.RUnlock()

	for key, value := range hm.db {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		err := fn(key, utils.DuplicateBytes(value))
		if err != nil {
			return err
		}
	}
	return nil
}

// Maintain runs a maintenance operation on the database.
func (hm *HashMap) Maintain(_ context.Context) error {
	return nil
}

// Shutdown shuts down the database.
func (hm *HashMap) Shutdown() error {
	return nil
}
