// Package memstore provides in-memory implementations of the persistence
// contracts for tests and storage-free demo runs.
package memstore

import (
	"context"
	"sync"

	"github.com/DrDeranged/bloompad-final3/internal/catalog"
	"github.com/DrDeranged/bloompad-final3/internal/chat"
	"github.com/DrDeranged/bloompad-final3/pkg/wallet"
)

// Store keeps all demo state behind one mutex. Reads return copies.
type Store struct {
	mu       sync.RWMutex
	snapshot wallet.Snapshot
	hasSnap  bool
	tokens   []catalog.CreatedToken
	bySymbol map[string]struct{}
	messages []chat.Exchange
}

// New returns an empty Store.
func New() *Store {
	return &Store{bySymbol: make(map[string]struct{})}
}

// Load returns the stored wallet snapshot, if any.
func (store *Store) Load(_ context.Context) (wallet.Snapshot, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	if !store.hasSnap {
		return wallet.Snapshot{}, false, nil
	}
	return copySnapshot(store.snapshot), true, nil
}

// Save stores the wallet snapshot.
func (store *Store) Save(_ context.Context, snapshot wallet.Snapshot) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.snapshot = copySnapshot(snapshot)
	store.hasSnap = true
	return nil
}

// Clear removes the stored snapshot.
func (store *Store) Clear(_ context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.snapshot = wallet.Snapshot{}
	store.hasSnap = false
	return nil
}

// InsertToken appends a created token, rejecting duplicate symbols.
func (store *Store) InsertToken(_ context.Context, token catalog.CreatedToken) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, exists := store.bySymbol[token.Symbol]; exists {
		return catalog.ErrDuplicateSymbol
	}
	store.bySymbol[token.Symbol] = struct{}{}
	store.tokens = append(store.tokens, token)
	return nil
}

// ListTokens returns created tokens in insertion order.
func (store *Store) ListTokens(_ context.Context) ([]catalog.CreatedToken, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	tokens := make([]catalog.CreatedToken, len(store.tokens))
	copy(tokens, store.tokens)
	return tokens, nil
}

// AppendExchange appends one chat exchange.
func (store *Store) AppendExchange(_ context.Context, exchange chat.Exchange) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.messages = append(store.messages, exchange)
	return nil
}

// ListExchanges returns a session transcript in insertion order.
func (store *Store) ListExchanges(_ context.Context, sessionID string) ([]chat.Exchange, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	var exchanges []chat.Exchange
	for _, exchange := range store.messages {
		if exchange.SessionID == sessionID {
			exchanges = append(exchanges, exchange)
		}
	}
	return exchanges, nil
}

func copySnapshot(snapshot wallet.Snapshot) wallet.Snapshot {
	balances := make(map[string]int64, len(snapshot.Balances))
	for symbol, quantity := range snapshot.Balances {
		balances[symbol] = quantity
	}
	return wallet.Snapshot{
		Connected: snapshot.Connected,
		Address:   snapshot.Address,
		Balances:  balances,
	}
}
