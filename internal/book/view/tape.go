package view

import "github.com/zappabad/limitbook/internal/book/core"

// FillTape is a ring buffer for storing fill events (bounded memory).
type FillTape struct {
	buf   []core.FillEvent
	size  int
	start int
	count int
}

// NewFillTape creates a new FillTape with the given capacity.
func NewFillTape(capacity int) *FillTape {
	if capacity <= 0 {
		capacity = 1
	}
	return &FillTape{
		buf:  make([]core.FillEvent, capacity),
		size: capacity,
	}
}

// Append adds a fill event to the tape.
func (t *FillTape) Append(f core.FillEvent) {
	if t.count < t.size {
		t.buf[(t.start+t.count)%t.size] = f
		t.count++
		return
	}
	// overwrite oldest
	t.buf[t.start] = f
	t.start = (t.start + 1) % t.size
}

// Last returns the last n fill events in chronological order.
// Returns a copy (not internal references).
func (t *FillTape) Last(n int) []core.FillEvent {
	if n <= 0 || t.count == 0 {
		return nil
	}
	if n > t.count {
		n = t.count
	}
	out := make([]core.FillEvent, n)
	first := (t.start + (t.count - n)) % t.size
	for i := 0; i < n; i++ {
		out[i] = t.buf[(first+i)%t.size]
	}
	return out
}

// Count returns the number of fills in the tape.
func (t *FillTape) Count() int {
	return t.count
}
