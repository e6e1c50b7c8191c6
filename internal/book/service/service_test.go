package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/limitbook/internal/book/core"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := NewService(DefaultConfig(), core.NewSequencer())
	t.Cleanup(s.Close)
	return s
}

func TestServiceInsertMintsIDs(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r1, err := s.Insert(ctx, core.SideAsk, 69, 420)
	require.NoError(t, err)
	r2, err := s.Insert(ctx, core.SideAsk, 69, 420)
	require.NoError(t, err)

	assert.Equal(t, core.OrderID(1), r1.OrderID)
	assert.Equal(t, core.OrderID(2), r2.OrderID)
}

func TestServiceInsertValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, core.SideAsk, 0, 420)
	assert.ErrorIs(t, err, ErrInvalidOrder)
	_, err = s.Insert(ctx, core.SideAsk, 69, 0)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestServiceCancel(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r, err := s.Insert(ctx, core.SideBid, 100, 10)
	require.NoError(t, err)

	report, err := s.Cancel(ctx, r.OrderID)
	require.NoError(t, err)
	assert.Equal(t, core.Qty(10), report.CanceledQty)

	_, err = s.Cancel(ctx, r.OrderID)
	assert.ErrorIs(t, err, core.ErrUnknownID)
}

func TestServiceDrain(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, core.SideAsk, 69, 420)
	require.NoError(t, err)

	report, err := s.Drain(ctx, core.SideAsk, 69, 418)
	require.NoError(t, err)
	require.True(t, report.Found)
	require.Len(t, report.Fills, 1)
	assert.Equal(t, core.Qty(418), report.FilledQty)

	qty, ok, err := s.TotalQty(ctx, 69, core.SideAsk)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, core.Qty(2), qty)
}

func TestServiceDrainUnknownPrice(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	report, err := s.Drain(ctx, core.SideAsk, 69, 1)

	require.NoError(t, err)
	assert.False(t, report.Found)
}

func TestServiceBestPrice(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, ok, err := s.BestPrice(ctx, core.SideAsk)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Insert(ctx, core.SideAsk, 69, 420)
	require.NoError(t, err)
	_, err = s.Insert(ctx, core.SideAsk, 70, 420)
	require.NoError(t, err)

	best, ok, err := s.BestPrice(ctx, core.SideAsk)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, core.Price(70), best)
}

func TestServiceViewFollowsEvents(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, core.SideBid, 100, 10)
	require.NoError(t, err)
	_, err = s.Insert(ctx, core.SideBid, 101, 5)
	require.NoError(t, err)
	_, err = s.Drain(ctx, core.SideBid, 100, 4)
	require.NoError(t, err)

	// view updates are asynchronous
	require.Eventually(t, func() bool {
		depth := s.Depth(core.SideBid)
		return len(depth) == 2 && depth[0].Price == 100 && depth[0].Qty == 6
	}, time.Second, 5*time.Millisecond)

	fills := s.FillsLast(10)
	require.Len(t, fills, 1)
	assert.Equal(t, core.Qty(4), fills[0].Qty)
	assert.False(t, fills[0].Full)
}

func TestServiceExternalEvents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DropExternalEvents = false
	s := NewService(cfg, core.NewSequencer())
	defer s.Close()
	ctx := context.Background()

	_, err := s.Insert(ctx, core.SideAsk, 69, 420)
	require.NoError(t, err)

	select {
	case ev := <-s.Events():
		rested, ok := ev.(core.OrderRestedEvent)
		require.True(t, ok)
		assert.Equal(t, core.OrderID(1), rested.OrderID)
		assert.Equal(t, core.Qty(420), rested.Qty)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestServiceClosedContext(t *testing.T) {
	s := NewService(DefaultConfig(), core.NewSequencer())
	s.Close()

	_, err := s.Insert(context.Background(), core.SideAsk, 69, 420)
	assert.ErrorIs(t, err, context.Canceled)
}
