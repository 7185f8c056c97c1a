package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"

	"github.com/saradhi4688/qrngenv/api"
	"github.com/saradhi4688/qrngenv/config"
	"github.com/saradhi4688/qrngenv/dataroot"
	"github.com/saradhi4688/qrngenv/generator"
	"github.com/saradhi4688/qrngenv/modules"
	"github.com/saradhi4688/qrngenv/provider"
	_ "github.com/saradhi4688/qrngenv/storage/bbolt"
)

func TestMain(m *testing.M) {
	// setup
	tmpDir, err := os.MkdirTemp("", "qrngenv-testing-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create tmp dir: %s\n", err)
		os.Exit(1)
	}
	err = dataroot.Initialize(tmpDir, 0o755)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize data root: %s\n", err)
		os.Exit(1)
	}
	// The test server may not occupy a fixed port.
	api.SetDefaultAPIListenAddress("127.0.0.1:0")

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

func testResult() *generator.Result {
	mean := 3.5
	std := 2.2913
	minValue := uint16(0)
	maxValue := uint16(7)

	return &generator.Result{
		Numbers:    []uint16{0, 1, 2, 3, 4, 5, 6, 7},
		NumBits:    3,
		NumSamples: 8,
		Source:     generator.SourceLocal,
		Stats: generator.Statistics{
			Mean:  &mean,
			Std:   &std,
			Min:   &minValue,
			Max:   &maxValue,
			Count: 8,
		},
		Entropy:   3,
		Generated: time.Now().UTC(),
	}
}

func setFormat(t *testing.T, format string) {
	t.Helper()

	err := config.SetConfigOption(CfgFormatKey, format)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = config.SetConfigOption(CfgFormatKey, nil)
	})
}

// Time precision differs between the serialization formats, so timestamps
// are compared at second granularity.
func sameTime(a, b time.Time) bool {
	return a.Unix() == b.Unix()
}

func TestNoLastResult(t *testing.T) {
	_, err := SaveLast("nothing yet")
	if !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "cbor", "msgpack"} {
		t.Run(format, func(t *testing.T) {
			setFormat(t, format)

			result := testResult()
			entry, err := Save("roundtrip-"+format, result)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := uuid.FromString(entry.ID); err != nil {
				t.Fatalf("entry id %q is not a uuid: %s", entry.ID, err)
			}

			got, err := Get(entry.ID)
			if err != nil {
				t.Fatal(err)
			}

			if got.ID != entry.ID {
				t.Errorf("id mismatch: %q != %q", got.ID, entry.ID)
			}
			if got.Name != "roundtrip-"+format {
				t.Errorf("unexpected name: %q", got.Name)
			}
			if !sameTime(got.Saved, entry.Saved) {
				t.Errorf("saved time mismatch: %s != %s", got.Saved, entry.Saved)
			}

			if !reflect.DeepEqual(got.Result.Numbers, result.Numbers) {
				t.Errorf("numbers mismatch: %v", got.Result.Numbers)
			}
			if got.Result.NumBits != result.NumBits || got.Result.NumSamples != result.NumSamples {
				t.Errorf("parameter mismatch: %d/%d", got.Result.NumBits, got.Result.NumSamples)
			}
			if got.Result.Source != generator.SourceLocal {
				t.Errorf("unexpected source: %q", got.Result.Source)
			}
			if got.Result.Entropy != result.Entropy {
				t.Errorf("entropy mismatch: %f", got.Result.Entropy)
			}
			if got.Result.Stats.Count != 8 ||
				got.Result.Stats.Mean == nil || *got.Result.Stats.Mean != *result.Stats.Mean ||
				got.Result.Stats.Std == nil || *got.Result.Stats.Std != *result.Stats.Std ||
				got.Result.Stats.Min == nil || *got.Result.Stats.Min != 0 ||
				got.Result.Stats.Max == nil || *got.Result.Stats.Max != 7 {
				t.Errorf("stats mismatch: %+v", got.Result.Stats)
			}
			if !sameTime(got.Result.Generated, result.Generated) {
				t.Errorf("generated time mismatch: %s != %s", got.Result.Generated, result.Generated)
			}
		})
	}
}

func TestDefaultName(t *testing.T) {
	entry, err := Save("", testResult())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(entry.Name, "result-") {
		t.Fatalf("unexpected generated name: %q", entry.Name)
	}
}

func TestSaveLast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		length, _ := strconv.Atoi(r.URL.Query().Get("length"))
		data := make([]int, length)
		for i := range data {
			data[i] = i % 256
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"type":    r.URL.Query().Get("type"),
			"length":  length,
			"data":    data,
			"success": true,
		})
	}))
	defer server.Close()

	err := config.SetConfigOption(provider.CfgAPIURLKey, server.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = config.SetConfigOption(provider.CfgAPIURLKey, nil)
	}()

	result, err := generator.Generate(context.Background(), 8, 10)
	if err != nil {
		t.Fatal(err)
	}

	entry, err := SaveLast("latest")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Name != "latest" {
		t.Errorf("unexpected name: %q", entry.Name)
	}
	if !reflect.DeepEqual(entry.Result.Numbers, result.Numbers) {
		t.Errorf("saved numbers do not match the last result")
	}

	got, err := Get(entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Result.Numbers, result.Numbers) {
		t.Errorf("stored numbers do not match the last result")
	}
}

func TestGetMissing(t *testing.T) {
	id, err := uuid.NewV4()
	if err != nil {
		t.Fatal(err)
	}
	_, err = Get(id.String())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = Get("not-a-uuid")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}

func TestListAndDelete(t *testing.T) {
	setFormat(t, "json")

	var ids []string
	for _, name := range []string{"list-a", "list-b", "list-c"} {
		entry, err := Save(name, testResult())
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, entry.ID)
		time.Sleep(5 * time.Millisecond)
	}

	entries, err := List()
	if err != nil {
		t.Fatal(err)
	}
	// newest first, other tests may have saved entries too
	positions := make(map[string]int)
	for i, entry := range entries {
		positions[entry.ID] = i
	}
	for _, id := range ids {
		if _, ok := positions[id]; !ok {
			t.Fatalf("entry %s missing from listing", id)
		}
	}
	if !(positions[ids[2]] < positions[ids[1]] && positions[ids[1]] < positions[ids[0]]) {
		t.Errorf("listing is not newest first: %v", positions)
	}

	// delete the middle entry
	err = Delete(ids[1])
	if err != nil {
		t.Fatal(err)
	}
	_, err = Get(ids[1])
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	err = Delete(ids[1])
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
	err = Delete("not-a-uuid")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}
