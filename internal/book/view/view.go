package view

import (
	"sort"
	"sync"

	"github.com/zappabad/limitbook/internal/book/core"
)

// Level represents aggregate quantity at a price level.
type Level struct {
	Price core.Price
	Qty   core.Qty
}

type orderState struct {
	side  core.Side
	price core.Price
	qty   core.Qty
}

// BookView maintains a read-only view of the book state, fed by service
// events. It is thread-safe and returns copies (not internal references).
type BookView struct {
	mu     sync.RWMutex
	orders map[core.OrderID]orderState
	asks   map[core.Price]core.Qty
	bids   map[core.Price]core.Qty
	tape   *FillTape
}

// NewBookView creates a new BookView with the given fill tape capacity.
func NewBookView(tapeCapacity int) *BookView {
	return &BookView{
		orders: map[core.OrderID]orderState{},
		asks:   map[core.Price]core.Qty{},
		bids:   map[core.Price]core.Qty{},
		tape:   NewFillTape(tapeCapacity),
	}
}

func (v *BookView) depthFor(side core.Side) map[core.Price]core.Qty {
	if side == core.SideAsk {
		return v.asks
	}
	return v.bids
}

// Apply processes an event and updates the view accordingly.
func (v *BookView) Apply(ev core.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch e := ev.(type) {
	case core.OrderRestedEvent:
		v.orders[e.OrderID] = orderState{side: e.Side, price: e.Price, qty: e.Qty}
		v.depthFor(e.Side)[e.Price] += e.Qty

	case core.OrderCanceledEvent:
		st, ok := v.orders[e.OrderID]
		if !ok {
			// incomplete or out-of-order event stream
			return
		}
		v.reduce(st.side, st.price, st.qty)
		delete(v.orders, e.OrderID)

	case core.FillEvent:
		st, ok := v.orders[e.OrderID]
		if !ok {
			return
		}
		v.reduce(st.side, st.price, e.Qty)
		if e.Full {
			delete(v.orders, e.OrderID)
		} else {
			st.qty -= e.Qty
			v.orders[e.OrderID] = st
		}
		v.tape.Append(e)
	}
}

func (v *BookView) reduce(side core.Side, price core.Price, qty core.Qty) {
	depth := v.depthFor(side)
	depth[price] -= qty
	if depth[price] <= 0 {
		delete(depth, price)
	}
}

// Depth returns aggregate quantity at each price level, best first, using
// the book's own ranking (asks highest first, bids lowest first).
// Returns a copy (not internal references).
func (v *BookView) Depth(side core.Side) []Level {
	v.mu.RLock()
	defer v.mu.RUnlock()

	src := v.depthFor(side)
	out := make([]Level, 0, len(src))
	for p, q := range src {
		out = append(out, Level{Price: p, Qty: q})
	}

	sort.Slice(out, func(i, j int) bool {
		if side == core.SideAsk {
			return out[i].Price > out[j].Price
		}
		return out[i].Price < out[j].Price
	})
	return out
}

// FillsLast returns the last n fills in chronological order.
// Returns a copy (not internal references).
func (v *BookView) FillsLast(n int) []core.FillEvent {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tape.Last(n)
}
