package service

import (
	bookservice "github.com/zappabad/limitbook/internal/book/service"
)

// Config holds configuration for the market service.
type Config struct {
	// Book is the configuration for each instrument's book service.
	Book bookservice.Config
	// MarketEventBuffer is the size of the consolidated market events channel.
	MarketEventBuffer int
	// DropMarketEvents determines whether the market events channel drops on overflow.
	DropMarketEvents bool
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Book:              bookservice.DefaultConfig(),
		MarketEventBuffer: 1024,
		DropMarketEvents:  true,
	}
}
