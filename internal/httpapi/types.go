package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/DrDeranged/bloompad-final3/internal/chat"
	"github.com/DrDeranged/bloompad-final3/internal/streaming"
	"github.com/DrDeranged/bloompad-final3/pkg/marketplace"
)

// WalletEnvelope wraps wallet payloads returned by the API endpoints.
type WalletEnvelope struct {
	Wallet WalletPayload `json:"wallet"`
}

// WalletPayload mirrors the wallet session for the UI.
type WalletPayload struct {
	State        string           `json:"state"`
	Connected    bool             `json:"connected"`
	Address      string           `json:"address,omitempty"`
	Balances     map[string]int64 `json:"balances"`
	OwnedSymbols []string         `json:"owned_symbols"`
	SessionToken string           `json:"session_token,omitempty"`
}

// TokensEnvelope lists the marketplace view.
type TokensEnvelope struct {
	Tokens []marketplace.Token `json:"tokens"`
}

// TokenEnvelope wraps a single created token.
type TokenEnvelope struct {
	Token marketplace.Token `json:"token"`
}

// StreamsEnvelope lists the stream panel entries.
type StreamsEnvelope struct {
	Streams []streaming.Stream `json:"streams"`
}

// StreamEnvelope wraps a single stream.
type StreamEnvelope struct {
	Stream streaming.Stream `json:"stream"`
}

// ChatHistoryEnvelope returns a session transcript.
type ChatHistoryEnvelope struct {
	SessionID string         `json:"session_id"`
	Messages  []ChatExchange `json:"messages"`
}

// ChatExchange mirrors one message/response pair for the UI.
type ChatExchange struct {
	MessageID      string `json:"message_id"`
	Message        string `json:"message"`
	Response       string `json:"response"`
	CreatedUnixUTC int64  `json:"created_unix_utc"`
}

type purchaseRequest struct {
	Symbol string `json:"symbol"`
	Amount int64  `json:"amount"`
}

type eventRequest struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type createStreamRequest struct {
	Name string `json:"name"`
}

func toChatExchanges(exchanges []chat.Exchange) []ChatExchange {
	payloads := make([]ChatExchange, 0, len(exchanges))
	for _, exchange := range exchanges {
		payloads = append(payloads, ChatExchange{
			MessageID:      exchange.MessageID,
			Message:        exchange.Message,
			Response:       exchange.Response,
			CreatedUnixUTC: exchange.CreatedAt.Unix(),
		})
	}
	return payloads
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}
