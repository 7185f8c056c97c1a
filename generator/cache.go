package generator

import (
	"sync"

	"github.com/mitchellh/copystructure"

	"github.com/saradhi4688/qrngenv/log"
)

var (
	lastLock   sync.RWMutex
	lastResult *Result
)

// setLast replaces the cached last result as a whole. Only fully committed
// results may be handed in.
func setLast(result *Result) {
	lastLock.Lock()
	defer lastLock.Unlock()
	lastResult = result
}

// GetLast returns a deep copy of the most recently committed result, so
// callers can never alter the cached entry. The second return value is false
// while nothing has been generated since process start.
func GetLast() (*Result, bool) {
	lastLock.RLock()
	defer lastLock.RUnlock()

	if lastResult == nil {
		return nil, false
	}

	copied, err := copystructure.Copy(lastResult)
	if err != nil {
		log.Errorf("generator: failed to copy cached result: %s", err)
		return nil, false
	}
	return copied.(*Result), true
}
