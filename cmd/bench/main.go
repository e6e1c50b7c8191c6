package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/zappabad/limitbook/internal/book/core"
)

type scenario struct {
	name string
	run  func(n int) time.Duration
}

func timeIt(f func()) time.Duration {
	start := time.Now()
	f()
	return time.Since(start)
}

func insertSinglePrice(n int) time.Duration {
	book := core.NewBook()
	return timeIt(func() {
		for i := 1; i <= n; i++ {
			book.Insert(core.Order{ID: core.OrderID(i), Price: 69, Side: core.SideBid, Qty: 420})
		}
	})
}

func insertChangingPrice(n int) time.Duration {
	book := core.NewBook()
	return timeIt(func() {
		for i := 1; i <= n; i++ {
			book.Insert(core.Order{ID: core.OrderID(i), Price: core.Price(i % 1000), Side: core.SideBid, Qty: 420})
		}
	})
}

func insertChangingSideAndPrice(n int) time.Duration {
	book := core.NewBook()
	return timeIt(func() {
		for i := 1; i <= n; i++ {
			side := core.SideBid
			if i%2 == 0 {
				side = core.SideAsk
			}
			book.Insert(core.Order{ID: core.OrderID(i), Price: core.Price(i % 1000), Side: side, Qty: 420})
		}
	})
}

func removeAll(n int) time.Duration {
	book := core.NewBook()
	for i := 1; i <= n; i++ {
		book.Insert(core.Order{ID: core.OrderID(i), Price: core.Price(i % 1000), Side: core.SideBid, Qty: 420})
	}
	return timeIt(func() {
		for i := 1; i <= n; i++ {
			book.Remove(core.OrderID(i))
		}
	})
}

func drainLevels(n int) time.Duration {
	book := core.NewBook()
	for i := 1; i <= n; i++ {
		book.Insert(core.Order{ID: core.OrderID(i), Price: core.Price(i % 100), Side: core.SideAsk, Qty: 10})
	}
	return timeIt(func() {
		for p := 0; p < 100; p++ {
			book.DrainToQty(core.Price(p), core.SideAsk, core.Qty(n))
		}
	})
}

func main() {
	n := flag.Int("n", 100_000, "operations per scenario")
	flag.Parse()

	scenarios := []scenario{
		{"insert_single_price", insertSinglePrice},
		{"insert_changing_price", insertChangingPrice},
		{"insert_changing_side_and_price", insertChangingSideAndPrice},
		{"remove", removeAll},
		{"drain_levels", drainLevels},
	}

	fmt.Printf("%-32s %12s %14s\n", "scenario", "total", "per op")
	for _, sc := range scenarios {
		elapsed := sc.run(*n)
		fmt.Printf("%-32s %12s %14s\n", sc.name, elapsed.Round(time.Microsecond), (elapsed / time.Duration(*n)).String())
	}
}
