// Package storage provides a simple key-value store with pluggable backends.
//
// Backends register themselves via Register, usually from an init function,
// and are selected at start through the storage/backend config option. The
// main program has to import the backend packages it wants to offer.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Interface defines the methods a storage backend must implement.
// Values returned by Get and IteratePrefix are owned by the caller,
// backends must not retain or reuse them. Iteration order is backend
// specific.
type Interface interface {
	// Get returns the value stored under the given key.
	// It returns ErrNotFound if the key does not exist.
	Get(key string) ([]byte, error)

	// Put stores the value under the given key, overwriting any
	// existing value.
	Put(key string, value []byte) error

	// Delete removes the entry with the given key. Deleting a
	// missing key is not an error.
	Delete(key string) error

	// IteratePrefix calls fn for every entry whose key starts with
	// prefix. If fn returns an error, iteration stops and the error
	// is returned.
	IteratePrefix(prefix string, fn func(key string, value []byte) error) error

	// Maintain runs a maintenance operation on the backend.
	Maintain(ctx context.Context) error

	// Shutdown shuts down the backend.
	Shutdown() error
}

// A Factory creates a new database of its backend type.
type Factory func(name, location string) (Interface, error)

var (
	backends     = make(map[string]Factory)
	backendsLock sync.Mutex
)

// Register registers a backend type with the registry.
func Register(backendType string, factory Factory) error {
	backendsLock.Lock()
	defer backendsLock.Unlock()

	_, ok := backends[backendType]
	if ok {
		return fmt.Errorf("backend type %q already registered", backendType)
	}

	backends[backendType] = factory
	return nil
}

// StartDatabase starts a new database with the given name and backend type
// at location.
func StartDatabase(name, backendType, location string) (Interface, error) {
	backendsLock.Lock()
	defer backendsLock.Unlock()

	factory, ok := backends[backendType]
	if !ok {
		return nil, fmt.Errorf("backend type %q not registered", backendType)
	}

	return factory(name, location)
}
