// Package workers runs data-parallel loops over index ranges.
package workers

import (
	"runtime"
	"sync"
)

// Count returns n when it is positive and GOMAXPROCS otherwise.
func Count(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// ForEachChunk splits [0, n) into at most workers contiguous, disjoint ranges
// and calls fn once per range on its own goroutine. It returns after every
// call has finished. A single range runs on the calling goroutine.
func ForEachChunk(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}

	workers = Count(workers)
	if workers > n {
		workers = n
	}
	if workers == 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
