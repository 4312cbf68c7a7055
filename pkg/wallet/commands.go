package wallet

import "context"

// CommandType enumerates the ambient UI signals the wallet reacts to.
type CommandType string

const (
	CommandConnectRequested  CommandType = "connect-request"
	CommandPurchaseRequested CommandType = "purchase-request"
	CommandFavoriteRequested CommandType = "favorite-request"
)

// Command is a fire-and-forget request published by unrelated components.
type Command struct {
	Type   CommandType
	Symbol string
}

// CommandSource is the publish/subscribe channel the wallet listens on.
// Subscribe returns a release function that removes the handler.
type CommandSource interface {
	Subscribe(handler func(Command)) (unsubscribe func())
}

// handleCommand dispatches one ambient command. Failures are logged, never
// propagated: the channel carries no acknowledgment.
func (service *Service) handleCommand(command Command) {
	ctx := context.Background()
	switch command.Type {
	case CommandConnectRequested:
		if service.State() == StateConnected {
			return
		}
		err := service.Connect(ctx)
		service.logOperation(ctx, OperationLog{
			Operation: operationCommand,
			Symbol:    string(command.Type),
			Error:     err,
		})
	case CommandPurchaseRequested:
		if service.State() != StateConnected {
			err := service.Connect(ctx)
			service.logOperation(ctx, OperationLog{
				Operation: operationCommand,
				Symbol:    command.Symbol,
				Error:     err,
			})
			return
		}
		symbol, err := NewSymbol(command.Symbol)
		if err != nil {
			service.logOperation(ctx, OperationLog{Operation: operationCommand, Symbol: command.Symbol, Error: err})
			return
		}
		amount, err := NewAmount(service.demoAmountFn())
		if err != nil {
			service.logOperation(ctx, OperationLog{Operation: operationCommand, Symbol: command.Symbol, Error: err})
			return
		}
		err = service.BuyToken(ctx, symbol, amount)
		service.logOperation(ctx, OperationLog{
			Operation: operationCommand,
			Symbol:    symbol.String(),
			Amount:    amount.Int64(),
			Error:     err,
		})
	case CommandFavoriteRequested:
		// Favorites are a fire-and-forget UI affordance with no wallet state.
		service.logOperation(ctx, OperationLog{
			Operation: operationFavorite,
			Symbol:    command.Symbol,
		})
	}
}
