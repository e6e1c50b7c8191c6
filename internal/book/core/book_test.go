package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookInsert(t *testing.T) {
	b := NewBook()

	id, err := b.Insert(Order{ID: 1, Price: 69, Side: SideAsk, Qty: 420})

	require.NoError(t, err)
	assert.Equal(t, OrderID(1), id)
	assert.Equal(t, 1, b.Len())
}

func TestBookInsertDuplicateID(t *testing.T) {
	b := NewBook()
	_, err := b.Insert(Order{ID: 1, Price: 69, Side: SideAsk, Qty: 420})
	require.NoError(t, err)

	// same id on the other side is still a duplicate
	_, err = b.Insert(Order{ID: 1, Price: 69, Side: SideBid, Qty: 420})

	assert.ErrorIs(t, err, ErrDuplicateOrderID)
	// book unchanged from after the first insert
	assert.Equal(t, 1, b.Len())
	_, ok := b.BestPrice(SideBid)
	assert.False(t, ok)
	qty, ok := b.TotalQty(69, SideAsk)
	require.True(t, ok)
	assert.Equal(t, Qty(420), qty)
}

func TestBookRemove(t *testing.T) {
	b := NewBook()
	_, err := b.Insert(Order{ID: 1, Price: 69, Side: SideAsk, Qty: 420})
	require.NoError(t, err)

	require.NoError(t, b.Remove(1))

	assert.Equal(t, 0, b.Len())
	assert.ErrorIs(t, b.Remove(1), ErrUnknownID)
}

func TestBookRemoveUnknownID(t *testing.T) {
	b := NewBook()

	assert.ErrorIs(t, b.Remove(69), ErrUnknownID)
}

func TestBookCancelMidBook(t *testing.T) {
	b := NewBook()
	for i, qty := range []Qty{5, 7, 11} {
		_, err := b.Insert(Order{ID: OrderID(i + 1), Price: 100, Side: SideBid, Qty: qty})
		require.NoError(t, err)
	}

	require.NoError(t, b.Remove(2))

	qty, ok := b.TotalQty(100, SideBid)
	require.True(t, ok)
	assert.Equal(t, Qty(16), qty)

	// the canceled id never shows up in a later drain
	fills, filled, ok := b.DrainToQty(100, SideBid, 16)
	require.True(t, ok)
	assert.Equal(t, Qty(16), filled)
	for _, f := range fills {
		assert.NotEqual(t, OrderID(2), f.ID)
	}
}

func TestBookBestPriceDelegation(t *testing.T) {
	b := NewBook()
	_, err := b.Insert(Order{ID: 1, Price: 69, Side: SideAsk, Qty: 420})
	require.NoError(t, err)
	_, err = b.Insert(Order{ID: 2, Price: 70, Side: SideAsk, Qty: 420})
	require.NoError(t, err)
	_, err = b.Insert(Order{ID: 3, Price: 69, Side: SideBid, Qty: 420})
	require.NoError(t, err)
	_, err = b.Insert(Order{ID: 4, Price: 70, Side: SideBid, Qty: 420})
	require.NoError(t, err)

	best, ok := b.BestPrice(SideAsk)
	require.True(t, ok)
	assert.Equal(t, Price(70), best)

	best, ok = b.BestPrice(SideBid)
	require.True(t, ok)
	assert.Equal(t, Price(69), best)
}

func TestBookDrainClearsGlobalIndex(t *testing.T) {
	b := NewBook()
	_, err := b.Insert(Order{ID: 1, Price: 69, Side: SideAsk, Qty: 420})
	require.NoError(t, err)
	_, err = b.Insert(Order{ID: 2, Price: 69, Side: SideAsk, Qty: 420})
	require.NoError(t, err)

	fills, filled, ok := b.DrainToQty(69, SideAsk, 423)

	require.True(t, ok)
	require.Len(t, fills, 2)
	assert.Equal(t, Qty(423), filled)

	// order 1 fully consumed: its id is free again
	assert.ErrorIs(t, b.Remove(1), ErrUnknownID)
	// order 2 split: the remainder is still cancelable
	require.NoError(t, b.Remove(2))
	assert.Equal(t, 0, b.Len())
}

func TestBookDrainEmptiesPriceForGood(t *testing.T) {
	b := NewBook()
	_, err := b.Insert(Order{ID: 1, Price: 69, Side: SideAsk, Qty: 420})
	require.NoError(t, err)

	fills, filled, ok := b.DrainToQty(69, SideAsk, 420)

	require.True(t, ok)
	require.Len(t, fills, 1)
	assert.Equal(t, Qty(420), filled)
	_, ok = b.BestPrice(SideAsk)
	assert.False(t, ok, "best price must never return a drained-out level")
	_, _, ok = b.DrainToQty(69, SideAsk, 1)
	assert.False(t, ok)
}

func TestBookDrainUnknownPrice(t *testing.T) {
	b := NewBook()

	_, _, ok := b.DrainToQty(69, SideAsk, 420)

	assert.False(t, ok)
}

func TestSideOpposite(t *testing.T) {
	assert.Equal(t, SideBid, SideAsk.Opposite())
	assert.Equal(t, SideAsk, SideBid.Opposite())
	assert.Equal(t, SideAsk, SideAsk.Opposite().Opposite())
}

func TestSequencerNeverRepeats(t *testing.T) {
	seq := NewSequencer()

	seen := map[OrderID]bool{}
	for i := 0; i < 1000; i++ {
		id := seq.Next()
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.True(t, seen[1], "ids start at 1")
}
