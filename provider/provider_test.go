package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/saradhi4688/qrngenv/config"
)

type anuResponse struct {
	Type    string `json:"type"`
	Length  int    `json:"length"`
	Data    []int  `json:"data"`
	Success bool   `json:"success"`
}

func writeUnits(t testing.TB, w http.ResponseWriter, n, maxValue int) {
	t.Helper()

	data := make([]int, n)
	for i := range data {
		data[i] = i % (maxValue + 1)
	}
	body, err := json.Marshal(anuResponse{Type: "uint8", Length: n, Data: data, Success: true})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.Write(body)
}

func startTestClient(t testing.TB, serverURL string) *Client {
	t.Helper()

	if err := registerConfig(); err != nil {
		t.Fatal(err)
	}
	for key, value := range map[string]interface{}{
		CfgAPIURLKey:            serverURL,
		"provider/retryBackoff": 1,
		"provider/chunkPause":   1,
	} {
		if err := config.SetConfigOption(key, value); err != nil {
			t.Fatal(err)
		}
	}

	return NewClient()
}

func TestFetchChunking(t *testing.T) {
	var (
		lock    sync.Mutex
		lengths []int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		length, err := strconv.Atoi(r.URL.Query().Get("length"))
		if err != nil {
			t.Errorf("bad length param: %s", err)
		}
		if unitType := r.URL.Query().Get("type"); unitType != "uint8" {
			t.Errorf("unexpected type param: %s", unitType)
		}
		if r.Header.Get("x-api-key") != "" {
			t.Error("unexpected x-api-key header")
		}

		lock.Lock()
		lengths = append(lengths, length)
		lock.Unlock()

		writeUnits(t, w, length, 255)
	}))
	defer server.Close()

	client := startTestClient(t, server.URL)
	units, err := client.Fetch(context.Background(), 2500, 8)
	if err != nil {
		t.Fatal(err)
	}

	if len(units) != 2500 {
		t.Fatalf("expected 2500 units, got %d", len(units))
	}
	for i, unit := range units {
		if unit > 255 {
			t.Fatalf("unit %d out of range: %d", i, unit)
		}
	}

	expected := []int{1024, 1024, 452}
	if len(lengths) != len(expected) {
		t.Fatalf("expected %d chunk calls, got %d: %v", len(expected), len(lengths), lengths)
	}
	for i, length := range lengths {
		if length != expected[i] {
			t.Errorf("chunk call %d: expected length %d, got %d", i, expected[i], length)
		}
	}
}

func TestFetchUint16(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unitType := r.URL.Query().Get("type"); unitType != "uint16" {
			t.Errorf("unexpected type param: %s", unitType)
		}
		n, _ := strconv.Atoi(r.URL.Query().Get("length"))
		writeUnits(t, w, n, 65535)
	}))
	defer server.Close()

	client := startTestClient(t, server.URL)
	units, err := client.Fetch(context.Background(), 300, 16)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 300 {
		t.Fatalf("expected 300 units, got %d", len(units))
	}
}

func TestFetchRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
			return
		}
		writeUnits(t, w, 16, 255)
	}))
	defer server.Close()

	client := startTestClient(t, server.URL)
	units, err := client.Fetch(context.Background(), 16, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 16 {
		t.Fatalf("expected 16 units, got %d", len(units))
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 calls, got %d", got)
	}
}

func TestFetchFailures(t *testing.T) {
	for _, tc := range []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "refused",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"type":"uint8","length":0,"data":[],"success":false}`))
			},
			wantErr: ErrRefused,
		},
		{
			name: "forbidden",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "missing api key", http.StatusForbidden)
			},
			wantErr: ErrBadStatus,
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>not json</html>"))
			},
			wantErr: ErrBadPayload,
		},
		{
			name: "missing data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success":true}`))
			},
			wantErr: ErrBadPayload,
		},
		{
			name: "empty data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[],"success":true}`))
			},
			wantErr: ErrBadPayload,
		},
		{
			name: "out of range",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[12,300,7],"success":true}`))
			},
			wantErr: ErrBadPayload,
		},
		{
			name: "non-integer unit",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[12,3.7],"success":true}`))
			},
			wantErr: ErrBadPayload,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client := startTestClient(t, server.URL)
			units, err := client.Fetch(context.Background(), 8, 8)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if units != nil {
				t.Errorf("expected no units on failure, got %d", len(units))
			}
		})
	}
}

func TestFetchAPIKey(t *testing.T) {
	var (
		lock   sync.Mutex
		gotKey string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lock.Lock()
		gotKey = r.Header.Get("x-api-key")
		lock.Unlock()
		writeUnits(t, w, 4, 255)
	}))
	defer server.Close()

	client := startTestClient(t, server.URL)
	if err := config.SetConfigOption("provider/apiKey", "test-key-123"); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = config.SetConfigOption("provider/apiKey", "")
	}()

	if _, err := client.Fetch(context.Background(), 4, 8); err != nil {
		t.Fatal(err)
	}
	if gotKey != "test-key-123" {
		t.Errorf("expected api key to be sent, got %q", gotKey)
	}
}

func TestFetchPause(t *testing.T) {
	var (
		lock  sync.Mutex
		times []time.Time
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lock.Lock()
		times = append(times, time.Now())
		lock.Unlock()
		n, _ := strconv.Atoi(r.URL.Query().Get("length"))
		writeUnits(t, w, n, 255)
	}))
	defer server.Close()

	client := startTestClient(t, server.URL)
	if err := config.SetConfigOption("provider/chunkPause", 50); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = config.SetConfigOption("provider/chunkPause", 1)
	}()

	if _, err := client.Fetch(context.Background(), 2048, 8); err != nil {
		t.Fatal(err)
	}

	if len(times) != 2 {
		t.Fatalf("expected 2 chunk calls, got %d", len(times))
	}
	if gap := times[1].Sub(times[0]); gap < 40*time.Millisecond {
		t.Errorf("expected at least 40ms between chunk calls, got %s", gap)
	}
}

func TestFetchTruncatesOversizedChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Always over-deliver, regardless of the requested length.
		writeUnits(t, w, 32, 255)
	}))
	defer server.Close()

	client := startTestClient(t, server.URL)
	units, err := client.Fetch(context.Background(), 10, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 10 {
		t.Fatalf("expected 10 units, got %d", len(units))
	}
}

func TestFetchInvalidInput(t *testing.T) {
	client := startTestClient(t, "http://localhost:1")

	if _, err := client.Fetch(context.Background(), 0, 8); err == nil {
		t.Error("expected error for zero count")
	}
	if _, err := client.Fetch(context.Background(), 8, 12); err == nil {
		t.Error("expected error for unsupported unit width")
	}
	if _, err := Fetch(context.Background(), 8, 8); !errors.Is(err, errNotStarted) {
		t.Error("expected not started error from module fetch")
	}
}
