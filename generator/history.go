package generator

import (
	"sync"
	"time"

	"github.com/bluele/gcache"
	"golang.org/x/exp/slices"

	"github.com/saradhi4688/qrngenv/log"
)

// defaultHistorySize bounds the in-memory generation history.
const defaultHistorySize = 100

// HistoryEntry is the recorded metadata of one generation, without the
// generated numbers themselves.
type HistoryEntry struct {
	Generated  time.Time  `json:"generated"`
	NumBits    int        `json:"num_bits"`
	NumSamples int        `json:"num_samples"`
	Source     Source     `json:"source"`
	Stats      Statistics `json:"statistics"`
	Entropy    float64    `json:"entropy"`
}

var (
	historyLock sync.Mutex
	historyID   uint64
	history     = gcache.New(defaultHistorySize).LRU().Build()
)

// initHistory replaces the history ring with an empty one of the given size.
func initHistory(size int) {
	historyLock.Lock()
	defer historyLock.Unlock()

	history = gcache.New(size).LRU().Build()
}

func addHistory(result *Result) {
	historyLock.Lock()
	id := historyID
	historyID++
	ring := history
	historyLock.Unlock()

	err := ring.Set(id, HistoryEntry{
		Generated:  result.Generated,
		NumBits:    result.NumBits,
		NumSamples: result.NumSamples,
		Source:     result.Source,
		Stats:      result.Stats,
		Entropy:    result.Entropy,
	})
	if err != nil {
		log.Warningf("generator: failed to record history entry: %s", err)
	}
}

// History returns the recorded generation metadata, newest first.
func History() []HistoryEntry {
	historyLock.Lock()
	ring := history
	historyLock.Unlock()

	type keyedEntry struct {
		id    uint64
		entry HistoryEntry
	}

	all := ring.GetALL(false)
	list := make([]keyedEntry, 0, len(all))
	for key, value := range all {
		id, ok := key.(uint64)
		if !ok {
			continue
		}
		entry, ok := value.(HistoryEntry)
		if !ok {
			continue
		}
		list = append(list, keyedEntry{id: id, entry: entry})
	}

	slices.SortFunc(list, func(a, b keyedEntry) int {
		switch {
		case a.id > b.id:
			return -1
		case a.id < b.id:
			return 1
		default:
			return 0
		}
	})

	entries := make([]HistoryEntry, len(list))
	for i, keyed := range list {
		entries[i] = keyed.entry
	}
	return entries
}

// ClearHistory drops all recorded generation metadata.
func ClearHistory() {
	historyLock.Lock()
	ring := history
	historyLock.Unlock()

	ring.Purge()
}
