package service

// Config holds configuration for the book service.
type Config struct {
	// CommandBuffer is the size of the inbound command channel.
	CommandBuffer int
	// EventBuffer is the size of the internal authoritative event channel.
	EventBuffer int
	// FillTapeSize is the capacity of the fill tape ring buffer.
	FillTapeSize int
	// DropExternalEvents determines whether the external event channel drops on overflow.
	DropExternalEvents bool
	// ExternalEventBuffer is the size of the external events channel.
	ExternalEventBuffer int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		CommandBuffer:       256,
		EventBuffer:         1024,
		FillTapeSize:        1000,
		DropExternalEvents:  true,
		ExternalEventBuffer: 256,
	}
}
