package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type stubSnapshotStore struct {
	mu       sync.Mutex
	snapshot Snapshot
	found    bool
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
	clears   int
}

func (store *stubSnapshotStore) Load(_ context.Context) (Snapshot, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.snapshot, store.found, store.loadErr
}

func (store *stubSnapshotStore) Save(_ context.Context, snapshot Snapshot) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.saveErr != nil {
		return store.saveErr
	}
	store.snapshot = snapshot
	store.found = true
	store.saves++
	return nil
}

func (store *stubSnapshotStore) Clear(_ context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.clearErr != nil {
		return store.clearErr
	}
	store.snapshot = Snapshot{}
	store.found = false
	store.clears++
	return nil
}

func (store *stubSnapshotStore) saveCount(test *testing.T) int {
	test.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.saves
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []OperationLog
}

func (logger *recordingLogger) LogOperation(_ context.Context, entry OperationLog) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.entries = append(logger.entries, entry)
}

func (logger *recordingLogger) byOperation(operation string) []OperationLog {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	matched := make([]OperationLog, 0, len(logger.entries))
	for _, entry := range logger.entries {
		if entry.Operation == operation {
			matched = append(matched, entry)
		}
	}
	return matched
}

func mustWalletService(test *testing.T, store SnapshotStore, options ...ServiceOption) *Service {
	test.Helper()
	options = append([]ServiceOption{WithLatencies(0, 0)}, options...)
	service, err := NewService(context.Background(), store, options...)
	if err != nil {
		test.Fatalf("new service: %v", err)
	}
	test.Cleanup(service.Close)
	return service
}

func mustSymbol(test *testing.T, raw string) Symbol {
	test.Helper()
	symbol, err := NewSymbol(raw)
	if err != nil {
		test.Fatalf("new symbol: %v", err)
	}
	return symbol
}

func mustAmount(test *testing.T, raw int64) Amount {
	test.Helper()
	amount, err := NewAmount(raw)
	if err != nil {
		test.Fatalf("new amount: %v", err)
	}
	return amount
}

func TestNewServiceRequiresStore(test *testing.T) {
	test.Parallel()
	_, err := NewService(context.Background(), nil)
	if !errors.Is(err, ErrInvalidServiceConfig) {
		test.Fatalf("expected ErrInvalidServiceConfig, got %v", err)
	}
}

func TestConnectSeedsStarterAllocation(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	service := mustWalletService(test, store)

	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("connect: %v", err)
	}
	if service.State() != StateConnected {
		test.Fatalf("expected connected state, got %s", service.State())
	}
	if service.Address() == "" {
		test.Fatalf("expected a synthetic address")
	}
	balances := service.Balances()
	if balances["BREW"] != 25 || balances["MAYA"] != 12 {
		test.Fatalf("expected starter allocation, got %v", balances)
	}
	if !store.found || !store.snapshot.Connected {
		test.Fatalf("expected a persisted connected snapshot, got %+v", store.snapshot)
	}
}

func TestConnectTwiceIsNoOp(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	service := mustWalletService(test, store)

	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("first connect: %v", err)
	}
	address := service.Address()
	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("second connect: %v", err)
	}
	if service.Address() != address {
		test.Fatalf("expected stable address, got %q then %q", address, service.Address())
	}
	if store.saveCount(test) != 1 {
		test.Fatalf("expected a single snapshot write, got %d", store.saveCount(test))
	}
}

func TestConnectUsesAddressGenerator(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	service := mustWalletService(test, store, WithAddressGenerator(func() string { return "0xfixed" }))

	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("connect: %v", err)
	}
	if service.Address() != "0xfixed" {
		test.Fatalf("expected generator address, got %q", service.Address())
	}
}

func TestBuyTokenAccumulates(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	service := mustWalletService(test, store)
	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("connect: %v", err)
	}

	symbol := mustSymbol(test, "BBC")
	if err := service.BuyToken(context.Background(), symbol, mustAmount(test, 3)); err != nil {
		test.Fatalf("first buy: %v", err)
	}
	if err := service.BuyToken(context.Background(), symbol, mustAmount(test, 4)); err != nil {
		test.Fatalf("second buy: %v", err)
	}

	if got := service.Balances()["BBC"]; got != 7 {
		test.Fatalf("expected accumulated balance 7, got %d", got)
	}
	if got := store.snapshot.Balances["BBC"]; got != 7 {
		test.Fatalf("expected persisted balance 7, got %d", got)
	}
	if got := service.Balances()["BREW"]; got != 25 {
		test.Fatalf("expected starter balance untouched, got %d", got)
	}
}

func TestBuyTokenRequiresConnection(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	service := mustWalletService(test, store)

	err := service.BuyToken(context.Background(), mustSymbol(test, "BBC"), mustAmount(test, 1))
	if !errors.Is(err, ErrNotConnected) {
		test.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestDisconnectClearsSessionAndSnapshot(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	service := mustWalletService(test, store)
	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("connect: %v", err)
	}

	if err := service.Disconnect(context.Background()); err != nil {
		test.Fatalf("disconnect: %v", err)
	}
	if service.State() != StateDisconnected {
		test.Fatalf("expected disconnected, got %s", service.State())
	}
	if service.Address() != "" {
		test.Fatalf("expected empty address, got %q", service.Address())
	}
	if len(service.Balances()) != 0 {
		test.Fatalf("expected empty balances, got %v", service.Balances())
	}
	if store.found {
		test.Fatalf("expected snapshot cleared, got %+v", store.snapshot)
	}
}

func TestDisconnectWhenDisconnectedIsNoOp(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	service := mustWalletService(test, store)

	if err := service.Disconnect(context.Background()); err != nil {
		test.Fatalf("disconnect: %v", err)
	}
	if store.clears != 0 {
		test.Fatalf("expected no clear call, got %d", store.clears)
	}
}

func TestReconnectAfterDisconnectResetsToStarterAllocation(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	service := mustWalletService(test, store)
	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("connect: %v", err)
	}
	if err := service.BuyToken(context.Background(), mustSymbol(test, "BBC"), mustAmount(test, 9)); err != nil {
		test.Fatalf("buy: %v", err)
	}
	if err := service.Disconnect(context.Background()); err != nil {
		test.Fatalf("disconnect: %v", err)
	}

	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("reconnect: %v", err)
	}
	balances := service.Balances()
	if balances["BBC"] != 0 {
		test.Fatalf("expected purchase history dropped, got %v", balances)
	}
	if balances["BREW"] != 25 || balances["MAYA"] != 12 {
		test.Fatalf("expected fresh starter allocation, got %v", balances)
	}
}

func TestOwnedSymbolsSortedAndPositive(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	service := mustWalletService(test, store)
	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("connect: %v", err)
	}
	if err := service.BuyToken(context.Background(), mustSymbol(test, "ZZZ"), mustAmount(test, 1)); err != nil {
		test.Fatalf("buy: %v", err)
	}

	owned := service.OwnedSymbols()
	expected := []string{"BREW", "MAYA", "ZZZ"}
	if len(owned) != len(expected) {
		test.Fatalf("expected %v, got %v", expected, owned)
	}
	for index, symbol := range expected {
		if owned[index] != symbol {
			test.Fatalf("expected %v, got %v", expected, owned)
		}
	}
}

func TestRestorePersistedSession(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{
		found: true,
		snapshot: Snapshot{
			Connected: true,
			Address:   "0xrestored",
			Balances:  map[string]int64{"BREW": 5, "EMPTY": 0, "NEG": -2},
		},
	}
	service := mustWalletService(test, store)

	if service.State() != StateConnected {
		test.Fatalf("expected restored session, got %s", service.State())
	}
	if service.Address() != "0xrestored" {
		test.Fatalf("expected restored address, got %q", service.Address())
	}
	owned := service.OwnedSymbols()
	if len(owned) != 1 || owned[0] != "BREW" {
		test.Fatalf("expected only positive balances restored, got %v", owned)
	}
}

func TestRestoreToleratesCorruptSnapshot(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{loadErr: ErrCorruptSnapshot}
	logger := &recordingLogger{}
	service := mustWalletService(test, store, WithOperationLogger(logger))

	if service.State() != StateDisconnected {
		test.Fatalf("expected clean session after corrupt snapshot, got %s", service.State())
	}
	restores := logger.byOperation("restore")
	if len(restores) != 1 || restores[0].Error == nil {
		test.Fatalf("expected one failed restore log, got %+v", restores)
	}
}

func TestRestoreIgnoresDisconnectedSnapshot(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{
		found:    true,
		snapshot: Snapshot{Connected: false, Address: "0xstale"},
	}
	service := mustWalletService(test, store)
	if service.State() != StateDisconnected {
		test.Fatalf("expected disconnected session, got %s", service.State())
	}
}

func TestConnectPersistFailureLeavesDisconnected(test *testing.T) {
	test.Parallel()
	saveFailure := errors.New("disk full")
	store := &stubSnapshotStore{saveErr: saveFailure}
	service := mustWalletService(test, store)

	err := service.Connect(context.Background())
	if !errors.Is(err, saveFailure) {
		test.Fatalf("expected save failure, got %v", err)
	}
	if service.State() != StateDisconnected {
		test.Fatalf("expected disconnected after failed connect, got %s", service.State())
	}
}

func TestBuyPersistFailureLeavesBalances(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	service := mustWalletService(test, store)
	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("connect: %v", err)
	}
	saveFailure := errors.New("disk full")
	store.mu.Lock()
	store.saveErr = saveFailure
	store.mu.Unlock()

	err := service.BuyToken(context.Background(), mustSymbol(test, "BBC"), mustAmount(test, 2))
	if !errors.Is(err, saveFailure) {
		test.Fatalf("expected save failure, got %v", err)
	}
	if got := service.Balances()["BBC"]; got != 0 {
		test.Fatalf("expected balance unchanged on failure, got %d", got)
	}
	if service.State() != StateConnected {
		test.Fatalf("expected session to survive a failed purchase, got %s", service.State())
	}
}

func TestInjectedFailureAbortsConnect(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	service := mustWalletService(test, store, WithFailureInjector(func(string) error { return ErrSimulatedFailure }))

	err := service.Connect(context.Background())
	if !errors.Is(err, ErrSimulatedFailure) {
		test.Fatalf("expected simulated failure, got %v", err)
	}
	if service.State() != StateDisconnected {
		test.Fatalf("expected disconnected after injected failure, got %s", service.State())
	}
	if store.saveCount(test) != 0 {
		test.Fatalf("expected no snapshot write, got %d", store.saveCount(test))
	}
}

func TestConnectRejectsOverlappingConnect(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	entered := make(chan struct{})
	release := make(chan struct{})
	service := mustWalletService(test, store, WithFailureInjector(func(string) error {
		close(entered)
		<-release
		return nil
	}))

	firstDone := make(chan error, 1)
	go func() { firstDone <- service.Connect(context.Background()) }()
	<-entered

	err := service.Connect(context.Background())
	if !errors.Is(err, ErrOperationInFlight) {
		test.Fatalf("expected ErrOperationInFlight, got %v", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		test.Fatalf("first connect: %v", err)
	}
	if service.State() != StateConnected {
		test.Fatalf("expected connected after first connect, got %s", service.State())
	}
}

func TestDisconnectDuringConnectDiscardsCompletion(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	entered := make(chan struct{})
	release := make(chan struct{})
	service := mustWalletService(test, store, WithFailureInjector(func(string) error {
		close(entered)
		<-release
		return nil
	}))

	connectDone := make(chan error, 1)
	go func() { connectDone <- service.Connect(context.Background()) }()
	<-entered

	if err := service.Disconnect(context.Background()); err != nil {
		test.Fatalf("disconnect: %v", err)
	}
	close(release)
	if err := <-connectDone; err != nil {
		test.Fatalf("connect: %v", err)
	}

	if service.State() != StateDisconnected {
		test.Fatalf("expected the late connect to be discarded, got %s", service.State())
	}
	if store.found {
		test.Fatalf("expected no persisted snapshot, got %+v", store.snapshot)
	}
}

func TestDisconnectDuringPurchaseDiscardsCompletion(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	service := mustWalletService(test, store, WithFailureInjector(func(operation string) error {
		if operation == "buy" {
			once.Do(func() { close(entered) })
			<-release
		}
		return nil
	}))
	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("connect: %v", err)
	}

	buyDone := make(chan error, 1)
	go func() {
		buyDone <- service.BuyToken(context.Background(), mustSymbol(test, "BBC"), mustAmount(test, 2))
	}()
	<-entered

	if err := service.Disconnect(context.Background()); err != nil {
		test.Fatalf("disconnect: %v", err)
	}
	close(release)
	if err := <-buyDone; !errors.Is(err, ErrNotConnected) {
		test.Fatalf("expected ErrNotConnected from the late purchase, got %v", err)
	}
	if got := service.Balances()["BBC"]; got != 0 {
		test.Fatalf("expected discarded purchase, got balance %d", got)
	}
}

func TestBuyRejectsOverlappingPurchase(test *testing.T) {
	test.Parallel()
	store := &stubSnapshotStore{}
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	service := mustWalletService(test, store, WithFailureInjector(func(operation string) error {
		if operation == "buy" {
			once.Do(func() { close(entered) })
			<-release
		}
		return nil
	}))
	if err := service.Connect(context.Background()); err != nil {
		test.Fatalf("connect: %v", err)
	}

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- service.BuyToken(context.Background(), mustSymbol(test, "BBC"), mustAmount(test, 1))
	}()
	<-entered

	err := service.BuyToken(context.Background(), mustSymbol(test, "MAS"), mustAmount(test, 1))
	if !errors.Is(err, ErrOperationInFlight) {
		test.Fatalf("expected ErrOperationInFlight, got %v", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		test.Fatalf("first buy: %v", err)
	}
	if got := service.Balances()["BBC"]; got != 1 {
		test.Fatalf("expected first purchase applied, got %d", got)
	}
}

func TestOperationErrorMetadata(test *testing.T) {
	test.Parallel()
	err := WrapError("buy", "session", "in_flight", ErrOperationInFlight)
	var operationError OperationError
	if !errors.As(err, &operationError) {
		test.Fatalf("expected OperationError, got %T", err)
	}
	if operationError.Operation() != "buy" || operationError.Subject() != "session" || operationError.Code() != "in_flight" {
		test.Fatalf("unexpected metadata: %v", operationError)
	}
	if WrapError("buy", "session", "in_flight", nil) != nil {
		test.Fatalf("expected nil wrap of nil error")
	}
}
