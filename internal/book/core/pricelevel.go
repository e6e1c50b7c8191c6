package core

import "container/heap"

// queueEntry ties a time-priority slot to an order id. Entries are not
// removed when their order is canceled; a stale entry is discarded on pop
// once its id no longer appears in the live map (lazy tombstone deletion,
// so cancel stays O(1) instead of compacting the heap).
type queueEntry struct {
	seq uint64
	id  OrderID
}

type entryHeap []queueEntry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].seq < h[j].seq }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(queueEntry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// priceLevel holds every resting order at one price on one side. The live
// map is the source of truth for remaining quantity; total caches the sum
// of live quantities and must match it at every call boundary.
type priceLevel struct {
	queue entryHeap
	live  map[OrderID]*Order
	total Qty
	seq   uint64 // insertion counter, the time-priority tie-break
}

func newPriceLevel() *priceLevel {
	return &priceLevel{live: map[OrderID]*Order{}}
}

// insert enqueues the order at the back of time priority.
func (l *priceLevel) insert(o Order) {
	cp := o
	l.live[o.ID] = &cp
	l.seq++
	heap.Push(&l.queue, queueEntry{seq: l.seq, id: o.ID})
	l.total += o.Qty
}

// remove drops the order from the live map and the aggregate. Its queue
// entry stays behind as a tombstone.
func (l *priceLevel) remove(id OrderID) (Qty, bool) {
	o, ok := l.live[id]
	if !ok {
		return 0, false
	}
	delete(l.live, id)
	l.total -= o.Qty
	return o.Qty, true
}

func (l *priceLevel) totalQty() Qty {
	return l.total
}

func (l *priceLevel) empty() bool {
	return l.total == 0
}

// drainToQty consumes resting quantity in time priority until target is met
// or the level runs out. The last order touched may be split: the returned
// piece carries the consumed quantity and the remainder keeps its original
// queue position, so a later drain still serves it before younger orders.
func (l *priceLevel) drainToQty(target Qty) ([]Order, Qty) {
	var (
		fills  []Order
		filled Qty
	)

	for filled < target && l.queue.Len() > 0 {
		entry := heap.Pop(&l.queue).(queueEntry)
		o, ok := l.live[entry.id]
		if !ok {
			// tombstone of a canceled order
			continue
		}

		room := target - filled
		if o.Qty <= room {
			// whole order consumed
			fills = append(fills, *o)
			filled += o.Qty
			l.total -= o.Qty
			delete(l.live, entry.id)
			continue
		}

		// partial fill: hand out room, keep the remainder resting
		piece := *o
		piece.Qty = room
		fills = append(fills, piece)
		filled += room
		o.Qty -= room
		l.total -= room
		heap.Push(&l.queue, entry)
		break
	}

	return fills, filled
}
