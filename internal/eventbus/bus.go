// Package eventbus is the explicit replacement for the ambient window-event
// channel of the original demo: a command queue passed by reference so
// independent components can trigger wallet actions without holding a wallet
// reference.
package eventbus

import (
	"sort"
	"sync"

	"github.com/DrDeranged/bloompad-final3/pkg/wallet"
)

// Bus dispatches commands synchronously, in publish order, to every
// subscriber. Delivery is fire-and-forget with no acknowledgment.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(wallet.Command)
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{handlers: make(map[int]func(wallet.Command))}
}

// Subscribe registers a handler and returns its release function. Releasing
// twice is harmless.
func (bus *Bus) Subscribe(handler func(wallet.Command)) func() {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	id := bus.nextID
	bus.nextID++
	bus.handlers[id] = handler
	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		delete(bus.handlers, id)
	}
}

// Publish delivers the command to every current subscriber before returning.
func (bus *Bus) Publish(command wallet.Command) {
	bus.mu.Lock()
	ids := make([]int, 0, len(bus.handlers))
	for id := range bus.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]func(wallet.Command), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, bus.handlers[id])
	}
	bus.mu.Unlock()

	for _, handler := range handlers {
		handler(command)
	}
}
