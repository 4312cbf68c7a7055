package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mathrand "math/rand/v2"
	"sort"
	"sync"
	"time"
)

const (
	operationConnect    = "connect"
	operationDisconnect = "disconnect"
	operationBuy        = "buy"
	operationRestore    = "restore"
	operationCommand    = "command"
	operationFavorite   = "favorite"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	addressByteLength = 20

	demoAmountCeiling = 10
)

// Default simulated operation delays, overridable with WithLatencies.
const (
	DefaultConnectLatency  = time.Second
	DefaultPurchaseLatency = 2 * time.Second
)

// SnapshotStore is the persistence contract used by Service. Load reports
// whether a snapshot exists; a corrupt stored snapshot surfaces as
// ErrCorruptSnapshot and is treated the same as an absent one.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, snapshot Snapshot) error
	Clear(ctx context.Context) error
}

// StarterAllocation returns the balances seeded on connect so gated-content
// demos have something to show.
func StarterAllocation() map[string]int64 {
	return map[string]int64{
		"BREW": 25,
		"MAYA": 12,
	}
}

// Service simulates a single-user wallet and token-ownership ledger with
// restart persistence. All mutation goes through Connect, Disconnect, and
// BuyToken; simulated latency elapses outside the state lock and state
// commits only at completion.
type Service struct {
	store           SnapshotStore
	logger          OperationLogger
	commands        CommandSource
	connectLatency  time.Duration
	purchaseLatency time.Duration
	addressFn       func() string
	demoAmountFn    func() int64
	failFn          func(operation string) error

	mu               sync.Mutex
	state            State
	address          string
	balances         map[string]int64
	connectInFlight  bool
	purchaseInFlight bool

	unsubscribe func()
}

// NewService wires a Service and restores any persisted session. A malformed
// or absent snapshot yields a clean disconnected session; restore never fails.
func NewService(ctx context.Context, store SnapshotStore, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: snapshot store dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{
		store:           store,
		connectLatency:  DefaultConnectLatency,
		purchaseLatency: DefaultPurchaseLatency,
		addressFn:       syntheticAddress,
		demoAmountFn:    func() int64 { return mathrand.Int64N(demoAmountCeiling) + 1 },
		state:           StateDisconnected,
		balances:        map[string]int64{},
	}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	service.restore(ctx)
	if service.commands != nil {
		service.unsubscribe = service.commands.Subscribe(service.handleCommand)
	}
	return service, nil
}

// Close releases the command-channel subscription.
func (service *Service) Close() {
	if service.unsubscribe != nil {
		service.unsubscribe()
		service.unsubscribe = nil
	}
}

// State returns the current lifecycle state.
func (service *Service) State() State {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.state
}

// Address returns the synthetic address, empty while disconnected.
func (service *Service) Address() string {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.address
}

// Balances returns a copy of the symbol-to-quantity ledger.
func (service *Service) Balances() map[string]int64 {
	service.mu.Lock()
	defer service.mu.Unlock()
	return copyBalances(service.balances)
}

// OwnedSymbols returns the sorted set of symbols with a positive balance.
func (service *Service) OwnedSymbols() []string {
	service.mu.Lock()
	defer service.mu.Unlock()
	owned := make([]string, 0, len(service.balances))
	for symbol, quantity := range service.balances {
		if quantity > 0 {
			owned = append(owned, symbol)
		}
	}
	sort.Strings(owned)
	return owned
}

// Connect simulates wallet connection: after the configured latency the
// session gains a synthetic address and the starter allocation, and the
// snapshot is persisted. Connecting twice is a no-op; a connect overlapping
// an in-flight connect is rejected.
func (service *Service) Connect(ctx context.Context) error {
	service.mu.Lock()
	if service.state == StateConnected {
		service.mu.Unlock()
		return nil
	}
	if service.connectInFlight {
		service.mu.Unlock()
		return WrapError(operationConnect, subjectSession, codeInFlight, ErrOperationInFlight)
	}
	service.connectInFlight = true
	service.state = StateConnecting
	service.mu.Unlock()

	operationError := service.completeConnect(ctx)
	service.logOperation(ctx, OperationLog{
		Operation: operationConnect,
		Address:   service.Address(),
		Error:     operationError,
	})
	return operationError
}

func (service *Service) completeConnect(ctx context.Context) error {
	abort := func(err error) error {
		service.mu.Lock()
		service.state = StateDisconnected
		service.connectInFlight = false
		service.mu.Unlock()
		return err
	}

	if err := service.wait(ctx, service.connectLatency); err != nil {
		return abort(WrapError(operationConnect, subjectSession, codeCanceled, err))
	}
	if err := service.injectedFailure(operationConnect); err != nil {
		return abort(WrapError(operationConnect, subjectSession, codeSimulated, err))
	}

	service.mu.Lock()
	if service.state != StateConnecting {
		// Disconnected while the connect was in flight: discard the completion.
		service.connectInFlight = false
		service.mu.Unlock()
		return nil
	}
	service.mu.Unlock()

	address := service.addressFn()
	balances := StarterAllocation()
	snapshot := Snapshot{
		Connected: true,
		Address:   address,
		Balances:  copyBalances(balances),
	}
	if err := service.store.Save(ctx, snapshot); err != nil {
		return abort(WrapError(operationConnect, subjectSnapshot, codePersist, err))
	}

	service.mu.Lock()
	if service.state == StateConnecting {
		service.state = StateConnected
		service.address = address
		service.balances = balances
	}
	service.connectInFlight = false
	service.mu.Unlock()
	return nil
}

// Disconnect clears the session and the persisted snapshot. Calling it on an
// already-disconnected session is a no-op.
func (service *Service) Disconnect(ctx context.Context) error {
	service.mu.Lock()
	if service.state == StateDisconnected && !service.connectInFlight {
		service.mu.Unlock()
		return nil
	}
	service.state = StateDisconnected
	service.address = ""
	service.balances = map[string]int64{}
	service.mu.Unlock()

	var operationError error
	if err := service.store.Clear(ctx); err != nil {
		operationError = WrapError(operationDisconnect, subjectSnapshot, codePersist, err)
	}
	service.logOperation(ctx, OperationLog{
		Operation: operationDisconnect,
		Error:     operationError,
	})
	return operationError
}

// BuyToken credits amount to the symbol's balance after the configured
// latency, persisting the updated snapshot before the in-memory commit.
// On any failure state is left unchanged. Unknown symbols are creditable.
func (service *Service) BuyToken(ctx context.Context, symbol Symbol, amount Amount) error {
	service.mu.Lock()
	if service.state != StateConnected {
		service.mu.Unlock()
		return WrapError(operationBuy, subjectSession, codeNotConnected, ErrNotConnected)
	}
	if service.purchaseInFlight {
		service.mu.Unlock()
		return WrapError(operationBuy, subjectSession, codeInFlight, ErrOperationInFlight)
	}
	service.purchaseInFlight = true
	service.mu.Unlock()

	operationError := service.completeBuy(ctx, symbol, amount)
	service.logOperation(ctx, OperationLog{
		Operation: operationBuy,
		Address:   service.Address(),
		Symbol:    symbol.String(),
		Amount:    amount.Int64(),
		Error:     operationError,
	})
	return operationError
}

func (service *Service) completeBuy(ctx context.Context, symbol Symbol, amount Amount) error {
	abort := func(err error) error {
		service.mu.Lock()
		service.purchaseInFlight = false
		service.mu.Unlock()
		return err
	}

	if err := service.wait(ctx, service.purchaseLatency); err != nil {
		return abort(WrapError(operationBuy, subjectSession, codeCanceled, err))
	}
	if err := service.injectedFailure(operationBuy); err != nil {
		return abort(WrapError(operationBuy, subjectSession, codeSimulated, err))
	}

	service.mu.Lock()
	if service.state != StateConnected {
		// Disconnected while the purchase was in flight: discard the completion.
		service.purchaseInFlight = false
		service.mu.Unlock()
		return WrapError(operationBuy, subjectSession, codeNotConnected, ErrNotConnected)
	}
	address := service.address
	updated := copyBalances(service.balances)
	updated[symbol.String()] += amount.Int64()
	service.mu.Unlock()

	snapshot := Snapshot{
		Connected: true,
		Address:   address,
		Balances:  copyBalances(updated),
	}
	if err := service.store.Save(ctx, snapshot); err != nil {
		return abort(WrapError(operationBuy, subjectSnapshot, codePersist, err))
	}

	service.mu.Lock()
	if service.state == StateConnected {
		service.balances = updated
	}
	service.purchaseInFlight = false
	service.mu.Unlock()
	return nil
}

func (service *Service) restore(ctx context.Context) {
	snapshot, found, err := service.store.Load(ctx)
	if err != nil || !found || !snapshot.Connected || snapshot.Address == "" {
		service.logOperation(ctx, OperationLog{Operation: operationRestore, Error: err})
		return
	}
	balances := map[string]int64{}
	for symbol, quantity := range snapshot.Balances {
		if quantity > 0 {
			balances[symbol] = quantity
		}
	}
	service.mu.Lock()
	service.state = StateConnected
	service.address = snapshot.Address
	service.balances = balances
	service.mu.Unlock()
	service.logOperation(ctx, OperationLog{Operation: operationRestore, Address: snapshot.Address})
}

func (service *Service) wait(ctx context.Context, latency time.Duration) error {
	if latency <= 0 {
		return nil
	}
	timer := time.NewTimer(latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (service *Service) injectedFailure(operation string) error {
	if service.failFn == nil {
		return nil
	}
	return service.failFn(operation)
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}

const (
	subjectSession  = "session"
	subjectSnapshot = "snapshot"

	codeInFlight     = "in_flight"
	codeCanceled     = "canceled"
	codeSimulated    = "simulated"
	codePersist      = "persist"
	codeNotConnected = "not_connected"
)

func copyBalances(balances map[string]int64) map[string]int64 {
	copied := make(map[string]int64, len(balances))
	for symbol, quantity := range balances {
		copied[symbol] = quantity
	}
	return copied
}

func syntheticAddress() string {
	raw := make([]byte, addressByteLength)
	if _, err := rand.Read(raw); err != nil {
		// crypto/rand never fails on supported platforms; fall back to zeroes.
		return "0x" + hex.EncodeToString(make([]byte, addressByteLength))
	}
	return "0x" + hex.EncodeToString(raw)
}
