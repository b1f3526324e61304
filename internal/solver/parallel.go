package solver

import "sync"

// parallelRows splits the half-open row range [lo,hi) across worker
// goroutines. Workers write disjoint row bands, so no synchronization
// beyond the final join is needed; callers must only read buffers that
// no worker writes.
func (s *Solver) parallelRows(lo, hi int, fn func(lo, hi int)) {
	n := hi - lo
	if n <= 0 {
		return
	}
	workers := s.workers
	if workers > n {
		workers = n
	}
	// Tiny grids are not worth the goroutine overhead.
	if workers <= 1 || n < 64 {
		fn(lo, hi)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := lo; start < hi; start += chunk {
		end := start + chunk
		if end > hi {
			end = hi
		}
		wg.Add(1)
		go func(a, b int) {
			defer wg.Done()
			fn(a, b)
		}(start, end)
	}
	wg.Wait()
}
