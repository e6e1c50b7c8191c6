package view

import (
	"github.com/zappabad/limitbook/internal/book/core"
	"github.com/zappabad/limitbook/internal/market"
)

// MarketEvent wraps a book event with its associated instrument.
type MarketEvent struct {
	Instrument market.InstrumentID
	Event      core.Event
}
