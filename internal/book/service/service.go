package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zappabad/limitbook/internal/book/core"
	"github.com/zappabad/limitbook/internal/book/view"
)

// ErrInvalidOrder rejects commands with non-positive price, quantity or id
// before they reach the book.
var ErrInvalidOrder = errors.New("invalid order")

// command types
type cmdType int

const (
	cmdInsert cmdType = iota
	cmdCancel
	cmdDrain
	cmdBestPrice
	cmdTotalQty
)

type command struct {
	typ    cmdType
	side   core.Side
	price  core.Price
	qty    core.Qty
	id     core.OrderID // for cancel
	respCh chan<- response
}

type response struct {
	insertReport InsertReport
	cancelReport CancelReport
	drainReport  DrainReport
	price        core.Price
	qty          core.Qty
	ok           bool
	err          error
}

// InsertReport is returned after inserting an order.
type InsertReport struct {
	OrderID core.OrderID
}

// CancelReport is returned after canceling an order.
type CancelReport struct {
	OrderID     core.OrderID
	CanceledQty core.Qty
}

// DrainReport is returned after draining a price level. Found is false when
// no level rested at the requested price. FilledQty below the requested
// target means the level ran out, which is exhaustion, not an error.
type DrainReport struct {
	Found     bool
	Fills     []core.Order
	FilledQty core.Qty
}

// Service owns one book and its view, providing serialized, thread-safe
// access: a single goroutine owns the core and processes commands in
// arrival order. Ids are minted from the injected Sequencer.
type Service struct {
	cfg  Config
	book *core.Book
	seq  *core.Sequencer
	view *view.BookView

	cmdCh          chan command
	internalEvents chan core.Event
	externalEvents chan core.Event

	droppedExternal atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewService creates a new book Service around the given Sequencer.
func NewService(cfg Config, seq *core.Sequencer) *Service {
	if cfg.CommandBuffer <= 0 {
		cfg.CommandBuffer = DefaultConfig().CommandBuffer
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultConfig().EventBuffer
	}
	if cfg.FillTapeSize <= 0 {
		cfg.FillTapeSize = DefaultConfig().FillTapeSize
	}
	if cfg.ExternalEventBuffer <= 0 {
		cfg.ExternalEventBuffer = DefaultConfig().ExternalEventBuffer
	}
	if seq == nil {
		seq = core.NewSequencer()
	}

	s := &Service{
		cfg:            cfg,
		book:           core.NewBook(),
		seq:            seq,
		view:           view.NewBookView(cfg.FillTapeSize),
		cmdCh:          make(chan command, cfg.CommandBuffer),
		internalEvents: make(chan core.Event, cfg.EventBuffer),
		externalEvents: make(chan core.Event, cfg.ExternalEventBuffer),
		closed:         make(chan struct{}),
	}

	s.wg.Add(1)
	go s.runCommandProcessor()

	s.wg.Add(1)
	go s.runEventDispatcher()

	return s
}

func (s *Service) runCommandProcessor() {
	defer s.wg.Done()

	for {
		select {
		case <-s.closed:
			return
		case cmd := <-s.cmdCh:
			s.processCommand(cmd)
		}
	}
}

func (s *Service) processCommand(cmd command) {
	var resp response
	now := time.Now().UnixNano()

	switch cmd.typ {
	case cmdInsert:
		o := core.Order{
			ID:    s.seq.Next(),
			Price: cmd.price,
			Side:  cmd.side,
			Qty:   cmd.qty,
		}
		id, err := s.book.Insert(o)
		resp = response{insertReport: InsertReport{OrderID: id}, err: err}
		if err == nil {
			s.emitEvent(core.OrderRestedEvent{
				OrderID: id, Side: o.Side, Price: o.Price, Qty: o.Qty, Time: now,
			})
		}

	case cmdCancel:
		o, found := s.book.Get(cmd.id)
		err := s.book.Remove(cmd.id)
		resp = response{cancelReport: CancelReport{OrderID: cmd.id}, err: err}
		if err == nil && found {
			resp.cancelReport.CanceledQty = o.Qty
			s.emitEvent(core.OrderCanceledEvent{
				OrderID: o.ID, Side: o.Side, Price: o.Price, CanceledQty: o.Qty, Time: now,
			})
		}

	case cmdDrain:
		fills, filled, found := s.book.DrainToQty(cmd.price, cmd.side, cmd.qty)
		resp = response{drainReport: DrainReport{Found: found, Fills: fills, FilledQty: filled}}
		for _, f := range fills {
			_, stillResting := s.book.Get(f.ID)
			s.emitEvent(core.FillEvent{
				OrderID: f.ID, Side: f.Side, Price: f.Price, Qty: f.Qty,
				Full: !stillResting, Time: now,
			})
		}

	case cmdBestPrice:
		resp.price, resp.ok = s.book.BestPrice(cmd.side)

	case cmdTotalQty:
		resp.qty, resp.ok = s.book.TotalQty(cmd.price, cmd.side)
	}

	if cmd.respCh != nil {
		cmd.respCh <- resp
	}
}

func (s *Service) emitEvent(ev core.Event) {
	select {
	case s.internalEvents <- ev:
	case <-s.closed:
	}
}

func (s *Service) runEventDispatcher() {
	defer s.wg.Done()
	defer close(s.externalEvents)

	for {
		select {
		case <-s.closed:
			return
		case ev := <-s.internalEvents:
			// Always update view (authoritative)
			s.view.Apply(ev)

			if s.cfg.DropExternalEvents {
				select {
				case s.externalEvents <- ev:
				default:
					s.droppedExternal.Add(1)
				}
			} else {
				select {
				case s.externalEvents <- ev:
				case <-s.closed:
					return
				}
			}
		}
	}
}

func (s *Service) send(ctx context.Context, cmd command, respCh chan response) (response, error) {
	select {
	case <-s.closed:
		return response{}, context.Canceled
	case <-ctx.Done():
		return response{}, ctx.Err()
	case s.cmdCh <- cmd:
	}

	select {
	case <-s.closed:
		return response{}, context.Canceled
	case <-ctx.Done():
		return response{}, ctx.Err()
	case resp := <-respCh:
		return resp, nil
	}
}

// Insert places a new resting order and returns its minted id.
func (s *Service) Insert(ctx context.Context, side core.Side, price core.Price, qty core.Qty) (InsertReport, error) {
	if price <= 0 || qty <= 0 {
		return InsertReport{}, ErrInvalidOrder
	}
	respCh := make(chan response, 1)
	resp, err := s.send(ctx, command{typ: cmdInsert, side: side, price: price, qty: qty, respCh: respCh}, respCh)
	if err != nil {
		return InsertReport{}, err
	}
	return resp.insertReport, resp.err
}

// Cancel removes a resting order.
func (s *Service) Cancel(ctx context.Context, id core.OrderID) (CancelReport, error) {
	if id <= 0 {
		return CancelReport{}, ErrInvalidOrder
	}
	respCh := make(chan response, 1)
	resp, err := s.send(ctx, command{typ: cmdCancel, id: id, respCh: respCh}, respCh)
	if err != nil {
		return CancelReport{}, err
	}
	return resp.cancelReport, resp.err
}

// Drain consumes up to target quantity at the given price and side.
func (s *Service) Drain(ctx context.Context, side core.Side, price core.Price, target core.Qty) (DrainReport, error) {
	if price <= 0 || target <= 0 {
		return DrainReport{}, ErrInvalidOrder
	}
	respCh := make(chan response, 1)
	resp, err := s.send(ctx, command{typ: cmdDrain, side: side, price: price, qty: target, respCh: respCh}, respCh)
	if err != nil {
		return DrainReport{}, err
	}
	return resp.drainReport, resp.err
}

// BestPrice returns the side's best price, serialized with mutations.
func (s *Service) BestPrice(ctx context.Context, side core.Side) (core.Price, bool, error) {
	respCh := make(chan response, 1)
	resp, err := s.send(ctx, command{typ: cmdBestPrice, side: side, respCh: respCh}, respCh)
	if err != nil {
		return 0, false, err
	}
	return resp.price, resp.ok, nil
}

// TotalQty returns the aggregate quantity resting at a price.
func (s *Service) TotalQty(ctx context.Context, price core.Price, side core.Side) (core.Qty, bool, error) {
	respCh := make(chan response, 1)
	resp, err := s.send(ctx, command{typ: cmdTotalQty, price: price, side: side, respCh: respCh}, respCh)
	if err != nil {
		return 0, false, err
	}
	return resp.qty, resp.ok, nil
}

// Depth returns aggregate levels for a side (from view).
func (s *Service) Depth(side core.Side) []view.Level {
	return s.view.Depth(side)
}

// FillsLast returns the last n fills (from view).
func (s *Service) FillsLast(n int) []core.FillEvent {
	return s.view.FillsLast(n)
}

// Events returns the external events channel for subscribers.
func (s *Service) Events() <-chan core.Event {
	return s.externalEvents
}

// DroppedExternalEvents returns the count of dropped external events.
func (s *Service) DroppedExternalEvents() int64 {
	return s.droppedExternal.Load()
}

// Close shuts down the service and waits for goroutines to finish.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}
