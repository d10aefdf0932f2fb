package segment

import "container/heap"

type floodItem struct {
	elev uint8
	seq  int
	idx  int
}

// floodQueue orders pixels by elevation, then by insertion order.
type floodQueue []floodItem

func (q floodQueue) Len() int { return len(q) }
func (q floodQueue) Less(i, j int) bool {
	if q[i].elev != q[j].elev {
		return q[i].elev < q[j].elev
	}
	return q[i].seq < q[j].seq
}
func (q floodQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *floodQueue) Push(x any)   { *q = append(*q, x.(floodItem)) }
func (q *floodQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// Flood grows one region per seed over elev with 4-connectivity. Seed i gets
// label i+1. A pixel reached by two different labels becomes a boundary
// (label 0) and does not spread further; pixels no flood reaches stay 0.
func Flood(elev []uint8, w, h int, seeds []int) []int {
	labels := make([]int, w*h)
	queued := make([]bool, w*h)
	q := &floodQueue{}
	seq := 0

	var nb [4]int
	neighbors := func(i int) []int {
		x, y := i%w, i/w
		n := nb[:0]
		if y > 0 {
			n = append(n, i-w)
		}
		if x > 0 {
			n = append(n, i-1)
		}
		if x < w-1 {
			n = append(n, i+1)
		}
		if y < h-1 {
			n = append(n, i+w)
		}
		return n
	}
	enqueue := func(i int) {
		for _, n := range neighbors(i) {
			if queued[n] {
				continue
			}
			queued[n] = true
			heap.Push(q, floodItem{elev: elev[n], seq: seq, idx: n})
			seq++
		}
	}

	for i, s := range seeds {
		labels[s] = i + 1
		queued[s] = true
	}
	for _, s := range seeds {
		enqueue(s)
	}

	for q.Len() > 0 {
		it := heap.Pop(q).(floodItem)
		label := 0
		conflict := false
		for _, n := range neighbors(it.idx) {
			l := labels[n]
			if l == 0 {
				continue
			}
			if label == 0 {
				label = l
			} else if l != label {
				conflict = true
				break
			}
		}
		if conflict || label == 0 {
			continue
		}
		labels[it.idx] = label
		enqueue(it.idx)
	}
	return labels
}
