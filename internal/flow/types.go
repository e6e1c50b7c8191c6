package flow

import (
	"github.com/zappabad/limitbook/internal/book/core"
	"github.com/zappabad/limitbook/internal/market"
)

// IntentKind indicates the kind of action a strategy wants to take.
type IntentKind int

const (
	IntentInsert IntentKind = iota
	IntentCancel
	IntentDrain
)

// Intent represents a strategy's intention to act on a book. For
// IntentCancel the runner picks one of its own resting orders; the
// strategy never learns order ids.
type Intent struct {
	Instrument market.InstrumentID
	Kind       IntentKind
	Side       core.Side
	Price      core.Price
	Qty        core.Qty
}

// EventType indicates the type of flow event.
type EventType int

const (
	EventActed EventType = iota
	EventError
)

// Event represents an action or error from a flow runner.
type Event struct {
	Time    int64
	Type    EventType
	Intent  *Intent
	Message string
}
