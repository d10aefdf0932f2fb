package parallel

import (
	"sync/atomic"
	"testing"
)

func TestRanges_CoversEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 7, 64} {
		hits := make([]int32, 101)
		Ranges(len(hits), workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("workers=%d: index %d visited %d times", workers, i, h)
			}
		}
	}
}

func TestRanges_Empty(t *testing.T) {
	called := false
	Ranges(0, 4, func(lo, hi int) { called = true })
	if called {
		t.Error("fn called for empty range")
	}
}

func TestEach(t *testing.T) {
	var sum atomic.Int64
	Each(50, 4, func(i int) { sum.Add(int64(i)) })
	if got := sum.Load(); got != 1225 {
		t.Errorf("sum: got %d, want 1225", got)
	}
}
