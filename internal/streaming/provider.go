// Package streaming backs the demo's live-stream panel. With an API key
// configured it talks to the upstream gateway; without one it degrades to a
// placeholder catalog instead of failing.
package streaming

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Stream describes one stream as shown in the panel.
type Stream struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PlaybackID string `json:"playbackId,omitempty"`
	StreamKey  string `json:"streamKey,omitempty"`
	IsActive   bool   `json:"isActive"`
	CreatedAt  string `json:"createdAt"`
	LastSeen   string `json:"lastSeen,omitempty"`
}

// Provider is the stream panel's upstream contract.
type Provider interface {
	CreateStream(ctx context.Context, name string) (Stream, error)
	ListStreams(ctx context.Context) ([]Stream, error)
}

// PlaceholderProvider serves the built-in demo streams and fabricates created
// ones locally. It never fails.
type PlaceholderProvider struct {
	nowFn func() time.Time

	mu      sync.Mutex
	created []Stream
}

// NewPlaceholderProvider returns a provider seeded with the demo streams.
func NewPlaceholderProvider(now func() time.Time) *PlaceholderProvider {
	if now == nil {
		now = time.Now
	}
	return &PlaceholderProvider{nowFn: now}
}

func demoStreams() []Stream {
	return []Stream{
		{
			ID:         "stream-1",
			Name:       "Brew & Bloom Café Live",
			PlaybackID: "demo-playback-1",
			StreamKey:  "demo-key-1",
			IsActive:   true,
			CreatedAt:  "2025-01-21T20:30:00Z",
			LastSeen:   "2025-01-21T23:45:00Z",
		},
		{
			ID:         "stream-2",
			Name:       "Maya's Art Studio Workshop",
			PlaybackID: "demo-playback-2",
			StreamKey:  "demo-key-2",
			IsActive:   false,
			CreatedAt:  "2025-01-21T18:00:00Z",
			LastSeen:   "2025-01-21T20:15:00Z",
		},
		{
			ID:         "stream-3",
			Name:       "Sunset Skate Community Event",
			PlaybackID: "demo-playback-3",
			StreamKey:  "demo-key-3",
			IsActive:   true,
			CreatedAt:  "2025-01-21T19:30:00Z",
			LastSeen:   "2025-01-21T23:50:00Z",
		},
	}
}

// CreateStream fabricates a local stream record.
func (provider *PlaceholderProvider) CreateStream(_ context.Context, name string) (Stream, error) {
	stream := Stream{
		ID:         uuid.NewString(),
		Name:       name,
		PlaybackID: "placeholder-" + uuid.NewString()[:8],
		StreamKey:  "placeholder-key",
		IsActive:   false,
		CreatedAt:  provider.nowFn().UTC().Format(time.RFC3339),
	}
	provider.mu.Lock()
	provider.created = append(provider.created, stream)
	provider.mu.Unlock()
	return stream, nil
}

// ListStreams returns the demo streams followed by locally created ones.
func (provider *PlaceholderProvider) ListStreams(_ context.Context) ([]Stream, error) {
	provider.mu.Lock()
	defer provider.mu.Unlock()
	streams := demoStreams()
	streams = append(streams, provider.created...)
	return streams, nil
}
