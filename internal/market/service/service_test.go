package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/limitbook/internal/book/core"
	"github.com/zappabad/limitbook/internal/market"
)

func testInstruments() []market.Instrument {
	return []market.Instrument{
		{ID: 1, Name: "ALPHA", Decimals: 2},
		{ID: 2, Name: "BETA", Decimals: 2},
	}
}

func TestMarketServiceRoutesInserts(t *testing.T) {
	s := NewMarketService(testInstruments(), DefaultConfig())
	defer s.Close()
	ctx := context.Background()

	r1, err := s.Insert(ctx, 1, core.SideAsk, 69, 420)
	require.NoError(t, err)
	assert.Equal(t, core.OrderID(1), r1.OrderID)

	r2, err := s.Insert(ctx, 2, core.SideAsk, 70, 10)
	require.NoError(t, err)
	assert.Equal(t, core.OrderID(1), r2.OrderID, "each book has its own sequencer")

	qty, found, err := s.TotalQty(ctx, 1, 69, core.SideAsk)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, core.Qty(420), qty)

	_, found, err = s.TotalQty(ctx, 2, 69, core.SideAsk)
	require.NoError(t, err)
	assert.False(t, found, "books must not share state")
}

func TestMarketServiceUnknownInstrument(t *testing.T) {
	s := NewMarketService(testInstruments(), DefaultConfig())
	defer s.Close()
	ctx := context.Background()

	_, err := s.Insert(ctx, 99, core.SideBid, 69, 420)
	assert.ErrorIs(t, err, ErrUnknownInstrument)

	_, err = s.Cancel(ctx, 99, 1)
	assert.ErrorIs(t, err, ErrUnknownInstrument)

	_, err = s.Drain(ctx, 99, core.SideAsk, 69, 1)
	assert.ErrorIs(t, err, ErrUnknownInstrument)

	_, _, err = s.BestPrice(ctx, 99, core.SideAsk)
	assert.ErrorIs(t, err, ErrUnknownInstrument)

	_, err = s.Depth(99, core.SideAsk)
	assert.ErrorIs(t, err, ErrUnknownInstrument)

	_, err = s.FillsLast(99, 5)
	assert.ErrorIs(t, err, ErrUnknownInstrument)
}

func TestMarketServiceCancelAndDrain(t *testing.T) {
	s := NewMarketService(testInstruments(), DefaultConfig())
	defer s.Close()
	ctx := context.Background()

	r, err := s.Insert(ctx, 1, core.SideBid, 69, 420)
	require.NoError(t, err)

	cr, err := s.Cancel(ctx, 1, r.OrderID)
	require.NoError(t, err)
	assert.Equal(t, core.Qty(420), cr.CanceledQty)

	_, err = s.Insert(ctx, 1, core.SideBid, 69, 420)
	require.NoError(t, err)

	dr, err := s.Drain(ctx, 1, core.SideBid, 69, 418)
	require.NoError(t, err)
	require.True(t, dr.Found)
	assert.Equal(t, core.Qty(418), dr.FilledQty)

	qty, found, err := s.TotalQty(ctx, 1, 69, core.SideBid)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, core.Qty(2), qty)
}

func TestMarketServiceSnapshot(t *testing.T) {
	s := NewMarketService(testInstruments(), DefaultConfig())
	defer s.Close()
	ctx := context.Background()

	_, err := s.Insert(ctx, 1, core.SideAsk, 70, 5)
	require.NoError(t, err)
	_, err = s.Insert(ctx, 1, core.SideBid, 68, 7)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		q, ok := snap.ByInstrument[1]
		return ok && q.AskOK && q.BidOK
	}, time.Second, 5*time.Millisecond)

	snap := s.Snapshot()
	q := snap.ByInstrument[1]
	assert.Equal(t, core.Price(70), q.AskPrice)
	assert.Equal(t, core.Qty(5), q.AskQty)
	assert.Equal(t, core.Price(68), q.BidPrice)
	assert.Equal(t, core.Qty(7), q.BidQty)

	empty := snap.ByInstrument[2]
	assert.False(t, empty.AskOK)
	assert.False(t, empty.BidOK)
}

func TestMarketServiceForwardsEvents(t *testing.T) {
	s := NewMarketService(testInstruments(), DefaultConfig())
	defer s.Close()
	ctx := context.Background()

	_, err := s.Insert(ctx, 2, core.SideAsk, 69, 420)
	require.NoError(t, err)

	select {
	case me := <-s.Events():
		assert.Equal(t, market.InstrumentID(2), me.Instrument)
		rested, ok := me.Event.(core.OrderRestedEvent)
		require.True(t, ok)
		assert.Equal(t, core.Qty(420), rested.Qty)
	case <-time.After(time.Second):
		t.Fatal("no market event forwarded")
	}
}

func TestMarketServiceInstruments(t *testing.T) {
	s := NewMarketService(testInstruments(), DefaultConfig())
	defer s.Close()

	instruments := s.Instruments()
	assert.Len(t, instruments, 2)
}
