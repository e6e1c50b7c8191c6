package core

import "testing"

func BenchmarkInsertSinglePrice(b *testing.B) {
	book := NewBook()
	for i := 0; b.Loop(); i++ {
		book.Insert(Order{ID: OrderID(i + 1), Price: 69, Side: SideAsk, Qty: 420})
	}
}

func BenchmarkInsertChangingPrice(b *testing.B) {
	book := NewBook()
	for i := 0; b.Loop(); i++ {
		book.Insert(Order{ID: OrderID(i + 1), Price: Price(69 + i/100), Side: SideAsk, Qty: 420})
	}
}

func BenchmarkInsertChangingSideAndPrice(b *testing.B) {
	book := NewBook()
	for i := 0; b.Loop(); i++ {
		side := SideAsk
		if i/100%2 == 1 {
			side = SideBid
		}
		book.Insert(Order{ID: OrderID(i + 1), Price: Price(69 + i/100), Side: side, Qty: 420})
	}
}

func BenchmarkRemove(b *testing.B) {
	book := NewBook()
	for i := 0; i < b.N; i++ {
		book.Insert(Order{ID: OrderID(i + 1), Price: 69, Side: SideAsk, Qty: 420})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.Remove(OrderID(i + 1))
	}
}

func BenchmarkDrainToQty(b *testing.B) {
	book := NewBook()
	for i := 0; i < b.N; i++ {
		book.Insert(Order{ID: OrderID(i + 1), Price: 69, Side: SideAsk, Qty: 420})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.DrainToQty(69, SideAsk, 420)
	}
}
