package bbolt

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/saradhi4688/qrngenv/storage"
)

func TestBBolt(t *testing.T) {
	db, err := NewBBolt("test", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// get missing
	_, err = db.Get("result/missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// put and get
	err = db.Put("result/a", []byte("alpha"))
	if err != nil {
		t.Fatal(err)
	}
	value, err := db.Get("result/a")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(value, []byte("alpha")) {
		t.Fatalf("unexpected value: %q", value)
	}

	// the returned slice is owned by the caller
	value[0] = 'X'
	value, err = db.Get("result/a")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(value, []byte("alpha")) {
		t.Fatalf("stored value was mutated: %q", value)
	}

	// overwrite
	err = db.Put("result/a", []byte("alpha2"))
	if err != nil {
		t.Fatal(err)
	}
	value, err = db.Get("result/a")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(value, []byte("alpha2")) {
		t.Fatalf("unexpected value after overwrite: %q", value)
	}

	// iterate prefix
	err = db.Put("result/b", []byte("beta"))
	if err == nil {
		err = db.Put("other/c", []byte("gamma"))
	}
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	err = db.IteratePrefix("result/", func(key string, value []byte) error {
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

	// iteration error is propagated
	errAbort := errors.New("abort")
	err = db.IteratePrefix("result/", func(key string, value []byte) error {
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("expected abort error, got %v", err)
	}

	// delete
	err = db.Delete("result/a")
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Get("result/a")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// deleting a missing key is not an error
	err = db.Delete("result/a")
	if err != nil {
		t.Fatal(err)
	}

	// maintain
	err = db.Maintain(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// shutdown
	err = db.Shutdown()
	if err != nil {
		t.Fatal(err)
	}
}

func TestBBoltPersistence(t *testing.T) {
	location := t.TempDir()

	db, err := NewBBolt("test", location)
	if err != nil {
		t.Fatal(err)
	}
	err = db.Put("result/a", []byte("alpha"))
	if err != nil {
		t.Fatal(err)
	}
	err = db.Shutdown()
	if err != nil {
		t.Fatal(err)
	}

	// reopen and check that the entry survived
	db, err = NewBBolt("test", location)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = db.Shutdown()
	}()

	value, err := db.Get("result/a")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(value, []byte("alpha")) {
		t.Fatalf("unexpected value after reopen: %q", value)
	}
}
