package core

// Book is the resting-order store for a single instrument: all unmatched
// orders grouped by side and price, with price-time priority inside each
// level. It exposes the primitives a matching loop needs (best price,
// quantity at a price, drain to quantity) and nothing else — it never
// crosses the two sides against each other itself.
//
// A Book has no goroutines, channels, locks, or clock reads and is not
// safe for concurrent mutation; callers serialize access (see book/service).
type Book struct {
	asks   *bookSide
	bids   *bookSide
	orders map[OrderID]Order // which side owns an id, without scanning
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{
		asks:   newBookSide(SideAsk),
		bids:   newBookSide(SideBid),
		orders: map[OrderID]Order{},
	}
}

func (b *Book) sideFor(s Side) *bookSide {
	if s == SideAsk {
		return b.asks
	}
	return b.bids
}

// Insert adds a resting order under its caller-supplied id. It returns
// ErrDuplicateOrderID without touching any state when the id is already
// active.
func (b *Book) Insert(o Order) (OrderID, error) {
	if _, exists := b.orders[o.ID]; exists {
		return 0, ErrDuplicateOrderID
	}
	b.sideFor(o.Side).insert(o)
	b.orders[o.ID] = o
	return o.ID, nil
}

// Remove cancels the resting order with the given id. It returns
// ErrUnknownID, leaving all state untouched, when the id is not active.
func (b *Book) Remove(id OrderID) error {
	o, ok := b.orders[id]
	if !ok {
		return ErrUnknownID
	}
	if err := b.sideFor(o.Side).remove(id); err != nil {
		return err
	}
	delete(b.orders, id)
	return nil
}

// BestPrice returns the price at the front of the side's ranking, or false
// when the side has no resting quantity.
func (b *Book) BestPrice(s Side) (Price, bool) {
	return b.sideFor(s).bestPrice()
}

// TotalQty returns the aggregate resting quantity at the given price and
// side, or false when nothing rests there.
func (b *Book) TotalQty(p Price, s Side) (Qty, bool) {
	return b.sideFor(s).totalQtyAt(p)
}

// DrainToQty consumes resting quantity at the given price and side, in time
// priority, up to target. It returns the filled pieces (the last one may be
// a split of a still-resting order) and the quantity actually filled, which
// is less than target when the level ran out — that is exhaustion, not an
// error. The bool is false when no level rests at that price.
func (b *Book) DrainToQty(p Price, s Side, target Qty) ([]Order, Qty, bool) {
	side := b.sideFor(s)
	fills, filled, ok := side.drainToQty(p, target)
	if !ok {
		return nil, 0, false
	}
	for _, f := range fills {
		if !side.contains(f.ID) {
			delete(b.orders, f.ID)
		}
	}
	return fills, filled, true
}

// Get returns the resting order with the given id at its current remaining
// quantity, or false when the id is not active.
func (b *Book) Get(id OrderID) (Order, bool) {
	o, ok := b.orders[id]
	if !ok {
		return Order{}, false
	}
	if l, ok := b.sideFor(o.Side).levels[o.Price]; ok {
		if live, ok := l.live[id]; ok {
			return *live, true
		}
	}
	return Order{}, false
}

// Len returns the number of resting orders across both sides.
func (b *Book) Len() int {
	return len(b.orders)
}
