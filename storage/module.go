package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/saradhi4688/qrngenv/config"
	"github.com/saradhi4688/qrngenv/dataroot"
	"github.com/saradhi4688/qrngenv/log"
	"github.com/saradhi4688/qrngenv/modules"
	"github.com/saradhi4688/qrngenv/utils"
)

// CfgBackendKey is the config key of the storage backend selection.
const CfgBackendKey = "storage/backend"

const (
	databasesSubDir = "databases"
	mainDBName      = "main"

	maintenanceInterval = 1 * time.Hour
)

var (
	module *modules.Module

	backendOption config.StringOption

	db     Interface
	dbLock sync.RWMutex

	maintenanceLimiter = utils.NewCallLimiter(10 * time.Second)
)

func init() {
	module = modules.Register("storage", prep, start, stop, "config")
}

func prep() error {
	err := config.Register(&config.Option{
		Name:            "Storage Backend",
		Key:             CfgBackendKey,
		Description:     "Database backend used for persisted results. Requires restart to take effect.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		RequiresRestart: true,
		DefaultValue:    "bbolt",
		ValidationRegex: "^(bbolt|badger|hashmap)$",
	})
	if err != nil {
		return err
	}
	backendOption = config.Concurrent.GetAsString(CfgBackendKey, "bbolt")

	return nil
}

func start() error {
	backendType := backendOption()

	location, err := getLocation(mainDBName, backendType)
	if err != nil {
		return err
	}

	newDB, err := StartDatabase(mainDBName, backendType, location)
	if err != nil {
		return fmt.Errorf("failed to start database %s (backend %s): %w", mainDBName, backendType, err)
	}

	dbLock.Lock()
	db = newDB
	dbLock.Unlock()

	log.Infof("storage: started database %s with backend %s", mainDBName, backendType)

	module.StartServiceWorker("maintenance worker", 0, maintenanceWorker)
	return nil
}

func stop() error {
	dbLock.Lock()
	defer dbLock.Unlock()

	if db == nil {
		return nil
	}

	err := db.Shutdown()
	db = nil
	return err
}

// getLocation returns the database location for the given name and backend
// type. Every backend gets its own directory, so that switching backends does
// not load foreign data files.
func getLocation(name, backendType string) (string, error) {
	location := filepath.Join(dataroot.Root().Path, databasesSubDir, name, backendType)

	err := utils.EnsureDirectory(location, 0o700)
	if err != nil {
		return "", fmt.Errorf("location %s invalid: %w", location, err)
	}
	return location, nil
}

func getDatabase() (Interface, error) {
	dbLock.RLock()
	defer dbLock.RUnlock()

	if db == nil {
		return nil, errNotStarted
	}
	return db, nil
}

// Get returns the value stored under the given key.
func Get(key string) ([]byte, error) {
	backend, err := getDatabase()
	if err != nil {
		return nil, err
	}
	return backend.Get(key)
}

// Put stores the value under the given key.
func Put(key string, value []byte) error {
	backend, err := getDatabase()
	if err != nil {
		return err
	}
	return backend.Put(key, value)
}

// Delete removes the entry with the given key.
func Delete(key string) error {
	backend, err := getDatabase()
	if err != nil {
		return err
	}
	return backend.Delete(key)
}

// IteratePrefix calls fn for every entry whose key starts with prefix.
func IteratePrefix(prefix string, fn func(key string, value []byte) error) error {
	backend, err := getDatabase()
	if err != nil {
		return err
	}
	return backend.IteratePrefix(prefix, fn)
}

// TriggerMaintenance runs a maintenance operation on the active backend.
// Concurrent calls are bundled into a single run.
func TriggerMaintenance() error {
	var err error
	maintenanceLimiter.Do(func() {
		err = module.RunWorker("maintenance", maintain)
	})
	return err
}

func maintain(ctx context.Context) error {
	backend, err := getDatabase()
	if err != nil {
		return err
	}
	return backend.Maintain(ctx)
}

func maintenanceWorker(ctx context.Context) error {
	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := TriggerMaintenance()
			if err != nil {
				log.Warningf("storage: maintenance failed: %s", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
