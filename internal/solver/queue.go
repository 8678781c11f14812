// Package solver implements the constraint solver: simplification of a
// unification constraint into zero or more categorized constraints,
// pattern-unification solving, and a priority-queue-driven main loop.
// Grounded directly on original_source/src/hubris/typeck/solver.rs, with
// its several explicit panics replaced by returned errors or (where
// spec.md §9 resolves the open question) a defined sound behavior.
package solver

import (
	"container/heap"

	"github.com/hubris-lang/hubris/internal/constraint"
)

// pqItem is one entry in the solver's priority queue: lower Category.Rank()
// pops first, ties broken FIFO by Seq (original Rust uses a BinaryHeap
// over a derived Ord; container/heap's min-heap plus an explicit sequence
// number gives the same FIFO tie-break deterministically).
type pqItem struct {
	cc constraint.Categorized
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	ri, rj := pq[i].cc.Category.Rank(), pq[j].cc.Category.Rank()
	if ri != rj {
		return ri < rj
	}
	return pq[i].cc.Seq < pq[j].cc.Seq
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

var _ heap.Interface = (*priorityQueue)(nil)
