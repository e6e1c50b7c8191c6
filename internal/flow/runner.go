package flow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zappabad/limitbook/internal/book/core"
	bookservice "github.com/zappabad/limitbook/internal/book/service"
	"github.com/zappabad/limitbook/internal/market"
)

// OrderSender provides the ability to send orders to the market.
type OrderSender interface {
	Insert(ctx context.Context, iid market.InstrumentID, side core.Side, price core.Price, qty core.Qty) (bookservice.InsertReport, error)
	Cancel(ctx context.Context, iid market.InstrumentID, orderID core.OrderID) (bookservice.CancelReport, error)
	Drain(ctx context.Context, iid market.InstrumentID, side core.Side, price core.Price, target core.Qty) (bookservice.DrainReport, error)
}

type restingOrder struct {
	instrument market.InstrumentID
	id         core.OrderID
}

// Runner executes a flow strategy on a timer. It remembers the orders it
// placed so cancel intents can target one of its own.
type Runner struct {
	cfg      Config
	strategy Strategy
	mr       MarketReader
	sender   OrderSender

	resting []restingOrder

	events        chan Event
	droppedEvents atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRunner creates a new Runner.
func NewRunner(cfg Config, strat Strategy, mr MarketReader, sender OrderSender) *Runner {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultConfig().EventBuffer
	}
	if cfg.MaxResting <= 0 {
		cfg.MaxResting = DefaultConfig().MaxResting
	}

	r := &Runner{
		cfg:      cfg,
		strategy: strat,
		mr:       mr,
		sender:   sender,
		events:   make(chan Event, cfg.EventBuffer),
		closed:   make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

func (r *Runner) run() {
	defer r.wg.Done()
	defer close(r.events)

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.closed:
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Runner) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.TickInterval)
	defer cancel()

	now := time.Now().UnixNano()

	intents := r.strategy.Step(ctx, now, r.mr)
	for _, intent := range intents {
		r.executeIntent(ctx, now, intent)
	}
}

func (r *Runner) executeIntent(ctx context.Context, now int64, intent Intent) {
	var err error

	switch intent.Kind {
	case IntentInsert:
		if len(r.resting) >= r.cfg.MaxResting {
			return
		}
		var rep bookservice.InsertReport
		rep, err = r.sender.Insert(ctx, intent.Instrument, intent.Side, intent.Price, intent.Qty)
		if err == nil {
			r.resting = append(r.resting, restingOrder{instrument: intent.Instrument, id: rep.OrderID})
		}
	case IntentCancel:
		if len(r.resting) == 0 {
			return
		}
		target := r.resting[0]
		r.resting = r.resting[1:]
		_, err = r.sender.Cancel(ctx, target.instrument, target.id)
		if errors.Is(err, core.ErrUnknownID) {
			// already drained away
			err = nil
		}
	case IntentDrain:
		_, err = r.sender.Drain(ctx, intent.Instrument, intent.Side, intent.Price, intent.Qty)
	}

	if err != nil {
		r.emitEvent(Event{
			Time:    now,
			Type:    EventError,
			Message: err.Error(),
		})
		return
	}

	r.emitEvent(Event{
		Time:   now,
		Type:   EventActed,
		Intent: &intent,
	})
}

func (r *Runner) emitEvent(ev Event) {
	if r.cfg.DropEvents {
		select {
		case r.events <- ev:
		default:
			r.droppedEvents.Add(1)
		}
	} else {
		select {
		case r.events <- ev:
		case <-r.closed:
		}
	}
}

// Events returns the flow events channel.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// DroppedEvents returns the count of dropped events.
func (r *Runner) DroppedEvents() int64 {
	return r.droppedEvents.Load()
}

// Close shuts down the runner.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		close(r.closed)
	})
	r.wg.Wait()
}
