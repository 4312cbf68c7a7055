package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DrDeranged/bloompad-final3/internal/catalog"
	"github.com/DrDeranged/bloompad-final3/internal/chat"
	"github.com/DrDeranged/bloompad-final3/internal/eventbus"
	"github.com/DrDeranged/bloompad-final3/internal/session"
	"github.com/DrDeranged/bloompad-final3/internal/streaming"
	"github.com/DrDeranged/bloompad-final3/pkg/marketplace"
	"github.com/DrDeranged/bloompad-final3/pkg/wallet"
)

type httpHandler struct {
	logger    *zap.Logger
	wallet    *wallet.Service
	catalog   *catalog.Service
	assistant *chat.Assistant
	streams   streaming.Provider
	sessions  *session.Manager
	bus       *eventbus.Bus
}

func (handler *httpHandler) handleTokens(ctx *gin.Context) {
	tokens, err := handler.catalog.List(ctx.Request.Context())
	if err != nil {
		handler.logger.Error("catalog list failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("storage_error", "catalog unavailable"))
		return
	}
	view := marketplace.Compute(tokens, marketplace.Query{
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
		SortKey:  marketplace.ParseSortKey(ctx.Query("sort")),
	})
	ctx.JSON(http.StatusOK, TokensEnvelope{Tokens: view})
}

func (handler *httpHandler) handleCreateToken(ctx *gin.Context) {
	var input catalog.Input
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	token, err := handler.catalog.Create(ctx.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidToken):
			ctx.JSON(http.StatusBadRequest, errorResponse("invalid_token", err.Error()))
		case errors.Is(err, catalog.ErrDuplicateSymbol):
			ctx.JSON(http.StatusConflict, errorResponse("duplicate_symbol", "token symbol already exists"))
		default:
			handler.logger.Error("token create failed", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, errorResponse("storage_error", "token create failed"))
		}
		return
	}
	ctx.JSON(http.StatusCreated, TokenEnvelope{Token: token})
}

func (handler *httpHandler) handleWallet(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, WalletEnvelope{Wallet: handler.walletPayload("")})
}

func (handler *httpHandler) handleConnect(ctx *gin.Context) {
	if err := handler.wallet.Connect(ctx.Request.Context()); err != nil {
		handler.respondWalletError(ctx, "connect", err)
		return
	}
	sessionToken, err := handler.sessions.Issue(handler.wallet.Address())
	if err != nil {
		// The wallet session stands even if token minting fails.
		handler.logger.Warn("session token issue failed", zap.Error(err))
	}
	ctx.JSON(http.StatusOK, WalletEnvelope{Wallet: handler.walletPayload(sessionToken)})
}

func (handler *httpHandler) handleDisconnect(ctx *gin.Context) {
	if err := handler.wallet.Disconnect(ctx.Request.Context()); err != nil {
		handler.logger.Error("disconnect failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("storage_error", "disconnect failed"))
		return
	}
	ctx.JSON(http.StatusOK, WalletEnvelope{Wallet: handler.walletPayload("")})
}

func (handler *httpHandler) handlePurchase(ctx *gin.Context) {
	var request purchaseRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	symbol, err := wallet.NewSymbol(request.Symbol)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_symbol", err.Error()))
		return
	}
	amount, err := wallet.NewAmount(request.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_amount", err.Error()))
		return
	}
	if err := handler.wallet.BuyToken(ctx.Request.Context(), symbol, amount); err != nil {
		handler.respondWalletError(ctx, "purchase", err)
		return
	}
	ctx.JSON(http.StatusOK, WalletEnvelope{Wallet: handler.walletPayload("")})
}

func (handler *httpHandler) handleEvent(ctx *gin.Context) {
	var request eventRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	commandType := wallet.CommandType(strings.TrimSpace(request.Type))
	switch commandType {
	case wallet.CommandConnectRequested, wallet.CommandPurchaseRequested, wallet.CommandFavoriteRequested:
	default:
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_event", "unknown event type"))
		return
	}
	handler.bus.Publish(wallet.Command{Type: commandType, Symbol: strings.TrimSpace(request.Symbol)})
	ctx.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (handler *httpHandler) handleChat(ctx *gin.Context) {
	var request chatRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	if strings.TrimSpace(request.Message) == "" {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_message", "message is required"))
		return
	}
	sessionID := handler.sessions.SessionID(request.SessionID)
	reply, err := handler.assistant.Respond(ctx.Request.Context(), request.Message, sessionID)
	if err != nil {
		handler.logger.Error("chat respond failed", zap.Error(err))
		ctx.JSON(http.StatusBadGateway, errorResponse("assistant_error", "assistant unavailable"))
		return
	}
	ctx.JSON(http.StatusOK, reply)
}

func (handler *httpHandler) handleChatHistory(ctx *gin.Context) {
	sessionID := ctx.Param("session")
	exchanges, err := handler.assistant.History(ctx.Request.Context(), sessionID)
	if err != nil {
		handler.logger.Error("chat history failed", zap.Error(err))
		ctx.JSON(http.StatusBadGateway, errorResponse("assistant_error", "assistant unavailable"))
		return
	}
	ctx.JSON(http.StatusOK, ChatHistoryEnvelope{
		SessionID: sessionID,
		Messages:  toChatExchanges(exchanges),
	})
}

func (handler *httpHandler) handleStreams(ctx *gin.Context) {
	streams, err := handler.streams.ListStreams(ctx.Request.Context())
	if err != nil {
		handler.logger.Error("stream list failed", zap.Error(err))
		ctx.JSON(http.StatusBadGateway, errorResponse("stream_error", "streams unavailable"))
		return
	}
	ctx.JSON(http.StatusOK, StreamsEnvelope{Streams: streams})
}

func (handler *httpHandler) handleCreateStream(ctx *gin.Context) {
	var request createStreamRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	if strings.TrimSpace(request.Name) == "" {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_name", "stream name is required"))
		return
	}
	stream, err := handler.streams.CreateStream(ctx.Request.Context(), strings.TrimSpace(request.Name))
	if err != nil {
		handler.logger.Error("stream create failed", zap.Error(err))
		ctx.JSON(http.StatusBadGateway, errorResponse("stream_error", "stream create failed"))
		return
	}
	ctx.JSON(http.StatusCreated, StreamEnvelope{Stream: stream})
}

func (handler *httpHandler) respondWalletError(ctx *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, wallet.ErrOperationInFlight):
		ctx.JSON(http.StatusConflict, errorResponse("operation_in_flight", operation+" already in progress"))
	case errors.Is(err, wallet.ErrNotConnected):
		ctx.JSON(http.StatusConflict, errorResponse("not_connected", "wallet is not connected"))
	default:
		handler.logger.Error("wallet operation failed", zap.String("operation", operation), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("wallet_error", operation+" failed"))
	}
}

func (handler *httpHandler) walletPayload(sessionToken string) WalletPayload {
	state := handler.wallet.State()
	return WalletPayload{
		State:        state.String(),
		Connected:    state == wallet.StateConnected,
		Address:      handler.wallet.Address(),
		Balances:     handler.wallet.Balances(),
		OwnedSymbols: handler.wallet.OwnedSymbols(),
		SessionToken: sessionToken,
	}
}
