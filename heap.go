package huff

import "container/heap"

// A nodeHeap is a min-heap of tree nodes ordered by weight.
// Nodes of equal weight come out in the order they were pushed in,
// which makes the merge order of the tree builder deterministic.
type nodeHeap struct {
	items []heapItem
	seq   int
}

type heapItem struct {
	n   *node
	seq int
}

func (h *nodeHeap) Len() int { return len(h.items) }

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.n.weight != b.n.weight {
		return a.n.weight < b.n.weight
	}
	return a.seq < b.seq
}

func (h *nodeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *nodeHeap) Push(x any) { h.items = append(h.items, x.(heapItem)) }

func (h *nodeHeap) Pop() any {
	old := h.items
	n := len(old)
	it := old[n-1]
	h.items = old[:n-1]
	return it
}

func (h *nodeHeap) push(n *node) {
	heap.Push(h, heapItem{n: n, seq: h.seq})
	h.seq++
}

func (h *nodeHeap) pop() *node {
	return heap.Pop(h).(heapItem).n
}
