package core

import "strconv"

// Side represents the book side an order rests on.
type Side uint8

const (
	SideAsk Side = iota
	SideBid
)

func (s Side) String() string {
	switch s {
	case SideAsk:
		return "ASK"
	case SideBid:
		return "BID"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the contra side.
func (s Side) Opposite() Side {
	if s == SideAsk {
		return SideBid
	}
	return SideAsk
}

// ranks reports whether price a is served before price b on side s.
// Asks serve the highest price first, bids the lowest.
func (s Side) ranks(a, b Price) bool {
	if s == SideAsk {
		return a > b
	}
	return a < b
}

// Price represents a price in integer ticks.
type Price int64

func (p Price) String() string { return strconv.FormatInt(int64(p), 10) }

// Qty represents order quantity.
type Qty int64

func (q Qty) String() string { return strconv.FormatInt(int64(q), 10) }

// OrderID uniquely identifies an order within one book.
type OrderID int64

// Order is a resting limit order. ID, Price and Side are fixed for the
// order's lifetime; Qty only ever shrinks, via partial drains. An order
// whose quantity reaches zero is removed from the book, never kept.
type Order struct {
	ID    OrderID
	Price Price
	Side  Side
	Qty   Qty
}
