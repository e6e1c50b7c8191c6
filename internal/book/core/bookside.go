package core

import "github.com/google/btree"

const priceIndexDegree = 32

// bookSide holds the price levels for one side plus the sorted price index
// answering best-price lookups. A price is in the index iff its level has
// resting quantity; emptied levels are pruned to bound memory.
type bookSide struct {
	side   Side
	levels map[Price]*priceLevel
	orders map[OrderID]Order // cancel routing; level copies own remaining qty
	prices *btree.BTreeG[Price]
}

func newBookSide(side Side) *bookSide {
	return &bookSide{
		side:   side,
		levels: map[Price]*priceLevel{},
		orders: map[OrderID]Order{},
		prices: btree.NewG(priceIndexDegree, btree.LessFunc[Price](side.ranks)),
	}
}

// insert routes the order to its price level, creating and indexing the
// level on first use of that price.
func (bs *bookSide) insert(o Order) {
	l, ok := bs.levels[o.Price]
	if !ok {
		l = newPriceLevel()
		bs.levels[o.Price] = l
		bs.prices.ReplaceOrInsert(o.Price)
	}
	l.insert(o)
	bs.orders[o.ID] = o
}

// remove cancels the order with the given id, pruning the price level if it
// goes empty.
func (bs *bookSide) remove(id OrderID) error {
	o, ok := bs.orders[id]
	if !ok {
		return ErrUnknownID
	}
	l, ok := bs.levels[o.Price]
	if !ok {
		return ErrUnknownID
	}
	if _, ok := l.remove(id); !ok {
		return ErrUnknownID
	}
	delete(bs.orders, id)
	if l.empty() {
		bs.dropLevel(o.Price)
	}
	return nil
}

func (bs *bookSide) dropLevel(p Price) {
	delete(bs.levels, p)
	bs.prices.Delete(p)
}

// bestPrice returns the front of the side's price ranking.
func (bs *bookSide) bestPrice() (Price, bool) {
	return bs.prices.Min()
}

func (bs *bookSide) totalQtyAt(p Price) (Qty, bool) {
	l, ok := bs.levels[p]
	if !ok {
		return 0, false
	}
	return l.totalQty(), true
}

// drainToQty delegates to the level at p and reconciles the side's own
// indexes: fully consumed ids leave the order index, and the price leaves
// the ranking the moment the level empties. The bool is false when no
// level rests at p.
func (bs *bookSide) drainToQty(p Price, target Qty) ([]Order, Qty, bool) {
	l, ok := bs.levels[p]
	if !ok {
		return nil, 0, false
	}
	fills, filled := l.drainToQty(target)
	for _, f := range fills {
		if _, live := l.live[f.ID]; !live {
			delete(bs.orders, f.ID)
		}
	}
	if l.empty() {
		bs.dropLevel(p)
	}
	return fills, filled, true
}

func (bs *bookSide) contains(id OrderID) bool {
	_, ok := bs.orders[id]
	return ok
}
