package hashmap

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/saradhi4688/qrngenv/storage"
)

func TestHashMap(t *testing.T) {
	db, err := NewHashMap("test", "")
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

	// the stored value is detached from the caller's slice
	original := []byte("beta")
	err = db.Put("result/b", original)
	if err != nil {
		t.Fatal(err)
	}
	original[0] = 'X'
	value, err = db.Get("result/b")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(value, []byte("beta")) {
		t.Fatalf("stored value shares memory with caller: %q", value)
	}

	// iterate prefix
	err = db.Put("other/c", []byte("gamma"))
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

	// maintain and shutdown
	err = db.Maintain(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	err = db.Shutdown()
	if err != nil {
		t.Fatal(err)
	}
}
