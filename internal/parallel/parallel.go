// Package parallel splits index ranges across a bounded set of goroutines.
// Every unit writes only to its own range, so results match a sequential run.
package parallel

import (
	"runtime"
	"sync"
)

// Workers normalises a requested worker count: 0 or less means NumCPU.
func Workers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Ranges calls fn(lo, hi) over contiguous chunks covering [0, n).
// With one worker (or a tiny n) fn runs inline on the caller's goroutine.
func Ranges(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers = Workers(workers)
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
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// Each runs fn(i) for i in [0, n) with at most workers goroutines in flight.
func Each(n, workers int, fn func(i int)) {
	workers = Workers(workers)
	if workers == 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release
			fn(idx)
		}(i)
	}
	wg.Wait()
}
