package utils

import (
	"sync"
	"sync/atomic"
	"time"
)

// CallLimiter bundles concurrent calls and optionally limits how fast a function is called.
type CallLimiter struct {
	pause time.Duration

	inLock   sync.Mutex
	lastExec time.Time

	waiters atomic.Int32
}

// NewCallLimiter returns a new CallLimiter.
// Use pause to define a minimum pause between executions.
func NewCallLimiter(pause time.Duration) *CallLimiter {
	return &CallLimiter{
		pause: pause,
	}
}

// Do executes the given function.
// All concurrent calls to Do are bundled and return when f() finishes.
// Waits until the minimum pause is over before executing f() again.
func (limiter *CallLimiter) Do(f func()) {
	// Register as waiter.
	limiter.waiters.Add(1)

	// Wait for our turn.
	limiter.inLock.Lock()
	defer limiter.inLock.Unlock()
	// Unregister before releasing the lock, so that the next waiter
	// sees an accurate count.
	defer limiter.waiters.Add(-1)

	// Only the last waiter in line executes, everyone else just waited
	// for the current execution to finish.
	if limiter.waiters.Load() > 1 {
		return
	}

	// Enforce the minimum pause between executions.
	sinceLastExec := time.Since(limiter.lastExec)
	if sinceLastExec < limiter.pause {
		time.Sleep(limiter.pause - sinceLastExec)
	}

	f()
	limiter.lastExec = time.Now()
}
