package core

// Event is the interface for all book events. The Book itself returns plain
// results; the service layer turns those results into events for the view
// and external subscribers.
type Event interface {
	isEvent()
}

// OrderRestedEvent is emitted when an order rests on the book.
type OrderRestedEvent struct {
	OrderID OrderID
	Side    Side
	Price   Price
	Qty     Qty
	Time    int64
}

func (OrderRestedEvent) isEvent() {}

// OrderCanceledEvent is emitted when a resting order is canceled.
type OrderCanceledEvent struct {
	OrderID     OrderID
	Side        Side
	Price       Price
	CanceledQty Qty
	Time        int64
}

func (OrderCanceledEvent) isEvent() {}

// FillEvent is emitted once per drained piece. Full marks pieces that
// consumed their order entirely; a non-Full piece left a remainder resting
// at its original queue position.
type FillEvent struct {
	OrderID OrderID
	Side    Side
	Price   Price
	Qty     Qty
	Full    bool
	Time    int64
}

func (FillEvent) isEvent() {}
