package view

import (
	"sync"

	"github.com/zappabad/limitbook/internal/book/core"
	bookservice "github.com/zappabad/limitbook/internal/book/service"
	"github.com/zappabad/limitbook/internal/market"
)

// Quote holds the current best bid/ask and last fill info for an instrument.
// Best prices follow the book's own ranking.
type Quote struct {
	AskPrice core.Price
	AskQty   core.Qty
	AskOK    bool
	BidPrice core.Price
	BidQty   core.Qty
	BidOK    bool

	LastPrice core.Price
	LastQty   core.Qty
	LastTime  int64
	HasLast   bool
}

// MarketSnapshot is a point-in-time snapshot of all instruments.
type MarketSnapshot struct {
	ByInstrument map[market.InstrumentID]Quote
}

// MarketView maintains the aggregate state across all instruments.
type MarketView struct {
	mu       sync.RWMutex
	lastFill map[market.InstrumentID]core.FillEvent
}

// NewMarketView creates a new MarketView.
func NewMarketView() *MarketView {
	return &MarketView{
		lastFill: make(map[market.InstrumentID]core.FillEvent),
	}
}

// Apply updates the view with an event from one instrument's book.
func (v *MarketView) Apply(iid market.InstrumentID, ev core.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if fill, ok := ev.(core.FillEvent); ok {
		v.lastFill[iid] = fill
	}
}

// SnapshotWithBooks returns a snapshot including best bid/ask pulled from
// each book's view.
func (v *MarketView) SnapshotWithBooks(books map[market.InstrumentID]*bookservice.Service) MarketSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	snap := MarketSnapshot{
		ByInstrument: make(map[market.InstrumentID]Quote, len(books)),
	}

	for iid, book := range books {
		var q Quote

		if asks := book.Depth(core.SideAsk); len(asks) > 0 {
			q.AskPrice = asks[0].Price
			q.AskQty = asks[0].Qty
			q.AskOK = true
		}
		if bids := book.Depth(core.SideBid); len(bids) > 0 {
			q.BidPrice = bids[0].Price
			q.BidQty = bids[0].Qty
			q.BidOK = true
		}
		if fill, ok := v.lastFill[iid]; ok {
			q.LastPrice = fill.Price
			q.LastQty = fill.Qty
			q.LastTime = fill.Time
			q.HasLast = true
		}

		snap.ByInstrument[iid] = q
	}

	return snap
}
