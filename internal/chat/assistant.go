// Package chat implements the scripted BloomBot assistant. Responses are
// canned strings keyed by preset prompt; there is no model behind it.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Exchange is one persisted message/response pair.
type Exchange struct {
	MessageID string
	SessionID string
	Message   string
	Response  string
	CreatedAt time.Time
}

// Store is the persistence contract for the chat transcript.
type Store interface {
	AppendExchange(ctx context.Context, exchange Exchange) error
	ListExchanges(ctx context.Context, sessionID string) ([]Exchange, error)
}

// Reply is the assistant's answer plus follow-up suggestions for the UI.
type Reply struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
	SessionID   string   `json:"session_id"`
}

var presetPrompts = []string{
	"Help me name my token",
	"What makes a token successful?",
	"How do I build a community?",
	"Launch timeline suggestions",
}

var presetResponses = map[string]string{
	"Help me name my token":          "Great question! For a memorable token name, consider your community's values and mission. Think about words that represent growth, connection, or your specific niche. For example: 'BloomCoin' for growth, 'ConnectToken' for community, or '[YourBrand]Coin' for recognition.",
	"What makes a token successful?": "Successful tokens have: 1) Strong community engagement, 2) Clear utility and purpose, 3) Transparent team and roadmap, 4) Regular updates and development, 5) Fair tokenomics and distribution. Focus on solving real problems for your community!",
	"How do I build a community?":    "Building community takes time and authenticity: 1) Start with social media (Twitter, Discord), 2) Share your journey regularly, 3) Engage with your audience daily, 4) Create valuable content, 5) Host events and AMAs, 6) Reward early supporters.",
	"Launch timeline suggestions":    "Typical launch timeline: Week 1-2: Finalize concept and team, Week 3-4: Build community and social presence, Week 5-6: Create token and test platform, Week 7-8: Marketing push and launch preparation, Week 9: Go live! Remember, community building should start early.",
}

const fallbackResponse = "Thanks for your question! I'm here to help with token creation, community building, and launch strategies. Feel free to use the preset prompts for common guidance!"

// Assistant answers messages from the preset script and records the transcript.
type Assistant struct {
	store Store
	nowFn func() time.Time
}

// NewAssistant wires an Assistant.
func NewAssistant(store Store, now func() time.Time) (*Assistant, error) {
	if store == nil {
		return nil, errors.New("chat: transcript store dependency is nil")
	}
	if now == nil {
		now = time.Now
	}
	return &Assistant{store: store, nowFn: now}, nil
}

// Suggestions returns the preset prompt texts shown as quick actions.
func Suggestions() []string {
	suggestions := make([]string, len(presetPrompts))
	copy(suggestions, presetPrompts)
	return suggestions
}

// Respond answers one message. Preset prompts get their scripted response;
// anything else gets the generic guidance reply. The exchange is persisted
// before the reply is returned; a store failure fails the call once, with no
// retry.
func (assistant *Assistant) Respond(ctx context.Context, message string, sessionID string) (Reply, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return Reply{}, errors.New("chat: message is required")
	}
	if strings.TrimSpace(sessionID) == "" {
		sessionID = uuid.NewString()
	}
	response, found := presetResponses[trimmed]
	if !found {
		response = fallbackResponse
	}
	exchange := Exchange{
		MessageID: uuid.NewString(),
		SessionID: sessionID,
		Message:   trimmed,
		Response:  response,
		CreatedAt: assistant.nowFn().UTC(),
	}
	if err := assistant.store.AppendExchange(ctx, exchange); err != nil {
		return Reply{}, err
	}
	return Reply{
		Response:    response,
		Suggestions: Suggestions(),
		SessionID:   sessionID,
	}, nil
}

// History returns the session transcript in insertion order.
func (assistant *Assistant) History(ctx context.Context, sessionID string) ([]Exchange, error) {
	return assistant.store.ListExchanges(ctx, sessionID)
}
