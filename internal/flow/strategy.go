package flow

import (
	"context"

	"github.com/zappabad/limitbook/internal/book/core"
	bookview "github.com/zappabad/limitbook/internal/book/view"
	"github.com/zappabad/limitbook/internal/market"
	marketview "github.com/zappabad/limitbook/internal/market/view"
)

// MarketReader provides read-only access to market data.
type MarketReader interface {
	Snapshot() marketview.MarketSnapshot
	Depth(iid market.InstrumentID, side core.Side) ([]bookview.Level, error)
	Instruments() []market.Instrument
}

// Strategy is the interface for order-flow strategies.
type Strategy interface {
	// Step is called on each tick and returns the intents to execute.
	Step(ctx context.Context, now int64, mr MarketReader) []Intent
}
