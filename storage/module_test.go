package storage_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/saradhi4688/qrngenv/dataroot"
	"github.com/saradhi4688/qrngenv/modules"
	"github.com/saradhi4688/qrngenv/storage"
	_ "github.com/saradhi4688/qrngenv/storage/bbolt"
	_ "github.com/saradhi4688/qrngenv/storage/hashmap"
)

var testDataDir string

func TestMain(m *testing.M) {
	// setup
	tmpDir, err := os.MkdirTemp("", "qrngenv-testing-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create tmp dir: %s\n", err)
		os.Exit(1)
	}
	testDataDir = tmpDir
	err = dataroot.Initialize(tmpDir, 0o755)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize data root: %s\n", err)
		os.Exit(1)
	}

	// start modules
	err = modules.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start modules: %s\n", err)
		os.Exit(1)
	}

	exitCode := m.Run()

	// teardown
	_ = modules.Shutdown()
	_ = os.RemoveAll(tmpDir)
	os.Exit(exitCode)
}

func TestPackageAPI(t *testing.T) {
	// get missing
	_, err := storage.Get("result/missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// put and get
	err = storage.Put("result/a", []byte("alpha"))
	if err != nil {
		t.Fatal(err)
	}
	value, err := storage.Get("result/a")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(value, []byte("alpha")) {
		t.Fatalf("unexpected value: %q", value)
	}

	// iterate prefix
	err = storage.Put("result/b", []byte("beta"))
	if err == nil {
		err = storage.Put("other/c", []byte("gamma"))
	}
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	err = storage.IteratePrefix("result/", func(key string, value []byte) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "result/a" || keys[1] != "result/b" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	// delete
	err = storage.Delete("result/a")
	if err != nil {
		t.Fatal(err)
	}
	_, err = storage.Get("result/a")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDefaultBackendOnDisk(t *testing.T) {
	// default backend is bbolt, check that it created its database file
	dbFile := filepath.Join(testDataDir, "databases", "main", "bbolt", "db.bbolt")
	_, err := os.Stat(dbFile)
	if err != nil {
		t.Fatalf("expected database file at %s: %s", dbFile, err)
	}
}

func TestStartDatabase(t *testing.T) {
	_, err := storage.StartDatabase("custom", "unknown", t.TempDir())
	if err == nil {
		t.Fatal("expected error for unregistered backend type")
	}

	db, err := storage.StartDatabase("custom", "hashmap", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	err = db.Put("a", []byte("b"))
	if err != nil {
		t.Fatal(err)
	}
	err = db.Shutdown()
	if err != nil {
		t.Fatal(err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	err := storage.Register("hashmap", func(name, location string) (storage.Interface, error) {
		return nil, nil
	})
	if err == nil {
		t.Fatal("expected error for duplicate backend type")
	}
}

func TestTriggerMaintenance(t *testing.T) {
	err := storage.TriggerMaintenance()
	if err != nil {
		t.Fatal(err)
	}
}
