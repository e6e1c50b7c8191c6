package core

// Sequencer issues order ids for one book. Ids start at 1 and are never
// reused, even after the order they were issued for is gone. Each book
// owns its own Sequencer; nothing here is process-global.
type Sequencer struct {
	next OrderID
}

// NewSequencer creates a Sequencer starting at id 1.
func NewSequencer() *Sequencer {
	return &Sequencer{next: 1}
}

// Next returns the next free id and advances the counter.
func (s *Sequencer) Next() OrderID {
	id := s.next
	s.next++
	return id
}
