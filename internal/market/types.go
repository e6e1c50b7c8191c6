package market

// InstrumentID uniquely identifies an instrument.
type InstrumentID int64

// Instrument represents a tradeable instrument. The book core never sees
// instruments; routing an order to the right book is this package's job.
type Instrument struct {
	ID       int64
	Name     string
	Decimals int8
}

// InstrumentID returns the InstrumentID for this Instrument.
func (i Instrument) InstrumentID() InstrumentID {
	return InstrumentID(i.ID)
}
