package astar

import "container/heap"

// heapItem is one entry of the indexed binary min-heap, ordered by f.
type heapItem struct {
	vertex int
	f      float64
	slot   int // current position within the backing slice; kept in sync by Swap
}

// itemHeap is the container/heap.Interface implementation backing
// indexedHeap. Unlike the lazy-duplicate priority queues elsewhere in this
// module's retained graph toolkit, every vertex appears at most once here;
// improving a key is a genuine decrease-key via Fix, not a second push.
type itemHeap []*heapItem

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].slot = i
	h[j].slot = j
}
func (h *itemHeap) Push(x interface{}) {
	it := x.(*heapItem)
	it.slot = len(*h)
	*h = append(*h, it)
}
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// indexedHeap is a binary min-heap over vertex indices keyed by a float64
// priority, augmented with a side index from vertex -> heap item so that an
// improved key can be applied with a true O(log n) decrease-key.
type indexedHeap struct {
	h     itemHeap
	index map[int]*heapItem
}

func newIndexedHeap(capacityHint int) *indexedHeap {
	return &indexedHeap{
		h:     make(itemHeap, 0, capacityHint),
		index: make(map[int]*heapItem, capacityHint),
	}
}

func (ih *indexedHeap) len() int { return len(ih.h) }

func (ih *indexedHeap) contains(vertex int) bool {
	_, ok := ih.index[vertex]
	return ok
}

func (ih *indexedHeap) push(vertex int, f float64) {
	it := &heapItem{vertex: vertex, f: f}
	ih.index[vertex] = it
	heap.Push(&ih.h, it)
}

// decreaseKey lowers the priority of an already-present vertex and restores
// the heap invariant in O(log n) via Fix, rather than inserting a stale
// duplicate entry.
func (ih *indexedHeap) decreaseKey(vertex int, f float64) {
	it, ok := ih.index[vertex]
	if !ok || f >= it.f {
		return
	}
	it.f = f
	heap.Fix(&ih.h, it.slot)
}

func (ih *indexedHeap) popMin() (int, float64) {
	it := heap.Pop(&ih.h).(*heapItem)
	delete(ih.index, it.vertex)
	return it.vertex, it.f
}
