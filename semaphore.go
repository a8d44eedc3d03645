package bayesnet

import (
	"runtime"
	"sync"
)

// countingSemaphore bounds the number of concurrent CPT-estimation and
// per-sample inference workers to a process-wide cap, mirroring the single
// global CountingSemaphore instance of the reference implementation.
type countingSemaphore struct {
	permits chan struct{}
}

func newCountingSemaphore(capacity int) *countingSemaphore {
	if capacity < 1 {
		capacity = 1
	}
	return &countingSemaphore{permits: make(chan struct{}, capacity)}
}

func (s *countingSemaphore) acquire() { s.permits <- struct{}{} }

func (s *countingSemaphore) release() { <-s.permits }

var (
	globalSemaphore     *countingSemaphore
	globalSemaphoreOnce sync.Once
)

// sharedSemaphore returns the lazily-initialized, process-wide worker
// semaphore with capacity max(1, GOMAXPROCS-1).
func sharedSemaphore() *countingSemaphore {
	globalSemaphoreOnce.Do(func() {
		globalSemaphore = newCountingSemaphore(runtime.GOMAXPROCS(0) - 1)
	})
	return globalSemaphore
}
