package flow

import (
	"context"
	"math/rand"

	"github.com/zappabad/limitbook/internal/book/core"
)

// RandomStrategy places orders around a reference price and occasionally
// cancels or drains. A seeded source makes runs reproducible.
type RandomStrategy struct {
	rng      *rand.Rand
	refPrice core.Price
	spread   core.Price
	maxQty   core.Qty
}

// NewRandomStrategy creates a RandomStrategy around the given reference price.
func NewRandomStrategy(seed int64, refPrice core.Price) *RandomStrategy {
	return &RandomStrategy{
		rng:      rand.New(rand.NewSource(seed)),
		refPrice: refPrice,
		spread:   5,
		maxQty:   50,
	}
}

// Step implements Strategy.
func (s *RandomStrategy) Step(ctx context.Context, now int64, mr MarketReader) []Intent {
	instruments := mr.Instruments()
	if len(instruments) == 0 {
		return nil
	}

	ins := instruments[s.rng.Intn(len(instruments))]
	iid := ins.InstrumentID()

	side := core.SideAsk
	if s.rng.Intn(2) == 0 {
		side = core.SideBid
	}

	roll := s.rng.Intn(10)
	switch {
	case roll < 7:
		offset := core.Price(s.rng.Int63n(int64(2*s.spread+1))) - s.spread
		price := s.refPrice + offset
		if price < 1 {
			price = 1
		}
		return []Intent{{
			Instrument: iid,
			Kind:       IntentInsert,
			Side:       side,
			Price:      price,
			Qty:        core.Qty(s.rng.Int63n(int64(s.maxQty))) + 1,
		}}
	case roll < 9:
		return []Intent{{
			Instrument: iid,
			Kind:       IntentCancel,
		}}
	default:
		levels, err := mr.Depth(iid, side)
		if err != nil || len(levels) == 0 {
			return nil
		}
		best := levels[0]
		qty := core.Qty(s.rng.Int63n(int64(best.Qty))) + 1
		return []Intent{{
			Instrument: iid,
			Kind:       IntentDrain,
			Side:       side,
			Price:      best.Price,
			Qty:        qty,
		}}
	}
}
