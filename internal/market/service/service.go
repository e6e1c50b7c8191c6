package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/zappabad/limitbook/internal/book/core"
	bookservice "github.com/zappabad/limitbook/internal/book/service"
	bookview "github.com/zappabad/limitbook/internal/book/view"
	"github.com/zappabad/limitbook/internal/market"
	marketview "github.com/zappabad/limitbook/internal/market/view"
)

var ErrUnknownInstrument = errors.New("unknown instrument")

// MarketService manages one book per catalog instrument and provides
// aggregated market data. Each book gets its own Sequencer, so id
// allocation is never shared across instruments.
type MarketService struct {
	cfg         Config
	instruments map[market.InstrumentID]market.Instrument
	books       map[market.InstrumentID]*bookservice.Service
	mview       *marketview.MarketView

	externalEvents chan marketview.MarketEvent
	droppedEvents  atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewMarketService creates a new MarketService with the given instruments.
func NewMarketService(instruments []market.Instrument, cfg Config) *MarketService {
	if cfg.MarketEventBuffer <= 0 {
		cfg.MarketEventBuffer = DefaultConfig().MarketEventBuffer
	}

	s := &MarketService{
		cfg:            cfg,
		instruments:    make(map[market.InstrumentID]market.Instrument, len(instruments)),
		books:          make(map[market.InstrumentID]*bookservice.Service, len(instruments)),
		mview:          marketview.NewMarketView(),
		externalEvents: make(chan marketview.MarketEvent, cfg.MarketEventBuffer),
		closed:         make(chan struct{}),
	}

	for _, ins := range instruments {
		iid := ins.InstrumentID()
		s.instruments[iid] = ins
		s.books[iid] = bookservice.NewService(cfg.Book, core.NewSequencer())
	}

	for iid, book := range s.books {
		s.wg.Add(1)
		go s.runBookEventForwarder(iid, book)
	}

	return s
}

func (s *MarketService) runBookEventForwarder(iid market.InstrumentID, book *bookservice.Service) {
	defer s.wg.Done()

	events := book.Events()
	for {
		select {
		case <-s.closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			s.mview.Apply(iid, ev)

			me := marketview.MarketEvent{
				Instrument: iid,
				Event:      ev,
			}

			if s.cfg.DropMarketEvents {
				select {
				case s.externalEvents <- me:
				default:
					s.droppedEvents.Add(1)
				}
			} else {
				select {
				case s.externalEvents <- me:
				case <-s.closed:
					return
				}
			}
		}
	}
}

// Insert places a limit order into the instrument's book.
func (s *MarketService) Insert(ctx context.Context, iid market.InstrumentID, side core.Side, price core.Price, qty core.Qty) (bookservice.InsertReport, error) {
	book, ok := s.books[iid]
	if !ok {
		return bookservice.InsertReport{}, ErrUnknownInstrument
	}
	return book.Insert(ctx, side, price, qty)
}

// Cancel removes an order from the instrument's book.
func (s *MarketService) Cancel(ctx context.Context, iid market.InstrumentID, orderID core.OrderID) (bookservice.CancelReport, error) {
	book, ok := s.books[iid]
	if !ok {
		return bookservice.CancelReport{}, ErrUnknownInstrument
	}
	return book.Cancel(ctx, orderID)
}

// Drain consumes resting quantity at a price in the instrument's book.
func (s *MarketService) Drain(ctx context.Context, iid market.InstrumentID, side core.Side, price core.Price, target core.Qty) (bookservice.DrainReport, error) {
	book, ok := s.books[iid]
	if !ok {
		return bookservice.DrainReport{}, ErrUnknownInstrument
	}
	return book.Drain(ctx, side, price, target)
}

// BestPrice returns the best price on a side of the instrument's book.
func (s *MarketService) BestPrice(ctx context.Context, iid market.InstrumentID, side core.Side) (core.Price, bool, error) {
	book, ok := s.books[iid]
	if !ok {
		return 0, false, ErrUnknownInstrument
	}
	return book.BestPrice(ctx, side)
}

// TotalQty returns the aggregate quantity at a price in the instrument's book.
func (s *MarketService) TotalQty(ctx context.Context, iid market.InstrumentID, price core.Price, side core.Side) (core.Qty, bool, error) {
	book, ok := s.books[iid]
	if !ok {
		return 0, false, ErrUnknownInstrument
	}
	return book.TotalQty(ctx, price, side)
}

// Depth returns the price levels for an instrument and side.
func (s *MarketService) Depth(iid market.InstrumentID, side core.Side) ([]bookview.Level, error) {
	book, ok := s.books[iid]
	if !ok {
		return nil, ErrUnknownInstrument
	}
	return book.Depth(side), nil
}

// FillsLast returns the last n fills for an instrument.
func (s *MarketService) FillsLast(iid market.InstrumentID, n int) ([]core.FillEvent, error) {
	book, ok := s.books[iid]
	if !ok {
		return nil, ErrUnknownInstrument
	}
	return book.FillsLast(n), nil
}

// Snapshot returns the current market snapshot across all instruments.
func (s *MarketService) Snapshot() marketview.MarketSnapshot {
	return s.mview.SnapshotWithBooks(s.books)
}

// Events returns the consolidated market events channel.
func (s *MarketService) Events() <-chan marketview.MarketEvent {
	return s.externalEvents
}

// DroppedEvents returns the count of dropped market events.
func (s *MarketService) DroppedEvents() int64 {
	return s.droppedEvents.Load()
}

// Instruments returns all registered instruments.
func (s *MarketService) Instruments() []market.Instrument {
	instruments := make([]market.Instrument, 0, len(s.instruments))
	for _, ins := range s.instruments {
		instruments = append(instruments, ins)
	}
	return instruments
}

// Close shuts down the market service and all book services.
func (s *MarketService) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})

	for _, book := range s.books {
		book.Close()
	}

	s.wg.Wait()

	close(s.externalEvents)
}
