package wallet

import (
	"context"
	"time"
)

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// OperationLogger records domain-level events emitted by Service operations.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes a state-changing wallet operation.
type OperationLog struct {
	Operation string
	Address   string
	Symbol    string
	Amount    int64
	Status    string
	Error     error
}

// WithOperationLogger wires a logger that receives callbacks for every operation.
func WithOperationLogger(logger OperationLogger) ServiceOption {
	return func(service *Service) {
		service.logger = logger
	}
}

// WithLatencies overrides the simulated connect and purchase delays.
func WithLatencies(connect time.Duration, purchase time.Duration) ServiceOption {
	return func(service *Service) {
		service.connectLatency = connect
		service.purchaseLatency = purchase
	}
}

// WithAddressGenerator overrides how synthetic addresses are minted.
func WithAddressGenerator(generate func() string) ServiceOption {
	return func(service *Service) {
		if generate != nil {
			service.addressFn = generate
		}
	}
}

// WithDemoAmountPicker overrides the randomized quantity used for bus-driven purchases.
func WithDemoAmountPicker(pick func() int64) ServiceOption {
	return func(service *Service) {
		if pick != nil {
			service.demoAmountFn = pick
		}
	}
}

// WithFailureInjector installs a hook consulted after each simulated delay.
// A non-nil return aborts the operation with state unchanged.
func WithFailureInjector(inject func(operation string) error) ServiceOption {
	return func(service *Service) {
		service.failFn = inject
	}
}

// WithCommandSource subscribes the service to an ambient command channel.
// The subscription is released by Close.
func WithCommandSource(source CommandSource) ServiceOption {
	return func(service *Service) {
		service.commands = source
	}
}
