package wallet

import (
	"fmt"
	"strings"
)

// Symbol identifies a token by its ticker.
type Symbol struct {
	value string
}

// Amount is a strictly positive token quantity.
type Amount int64

// State describes the wallet session lifecycle.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// String returns the lifecycle label.
func (state State) String() string {
	return string(state)
}

const maxSymbolLength = 10

// NewSymbol validates and normalizes a token ticker.
func NewSymbol(raw string) (Symbol, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return Symbol{}, fmt.Errorf("%w: empty value", ErrInvalidSymbol)
	}
	if len(trimmed) > maxSymbolLength {
		return Symbol{}, fmt.Errorf("%w: longer than %d characters", ErrInvalidSymbol, maxSymbolLength)
	}
	return Symbol{value: trimmed}, nil
}

// String returns the normalized ticker.
func (symbol Symbol) String() string {
	return symbol.value
}

// NewAmount validates a quantity and ensures it is strictly positive.
func NewAmount(raw int64) (Amount, error) {
	if raw <= 0 {
		return 0, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	return Amount(raw), nil
}

// Int64 returns the raw quantity.
func (amount Amount) Int64() int64 {
	return int64(amount)
}

// Snapshot is the persisted form of a wallet session.
type Snapshot struct {
	Connected bool
	Address   string
	Balances  map[string]int64
}
