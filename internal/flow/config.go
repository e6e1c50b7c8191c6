package flow

import "time"

// Config holds configuration for the flow runner.
type Config struct {
	// TickInterval is the interval between strategy ticks.
	TickInterval time.Duration
	// EventBuffer is the size of the flow events channel.
	EventBuffer int
	// DropEvents determines whether the events channel drops on overflow.
	DropEvents bool
	// MaxResting caps how many of the runner's own orders rest at once.
	MaxResting int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval: 100 * time.Millisecond,
		EventBuffer:  256,
		DropEvents:   true,
		MaxResting:   64,
	}
}
