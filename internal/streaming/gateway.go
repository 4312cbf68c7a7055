package streaming

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultGatewayURL is the upstream streaming API base.
const DefaultGatewayURL = "https://livepeer-studio.com/api"

// GatewayClient implements Provider against the upstream streaming gateway.
type GatewayClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGatewayClient returns a Provider backed by the remote gateway.
func NewGatewayClient(baseURL string, apiKey string, httpClient *http.Client) *GatewayClient {
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &GatewayClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type gatewayStream struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PlaybackID string `json:"playbackId"`
	StreamKey  string `json:"streamKey"`
	IsActive   bool   `json:"isActive"`
	CreatedAt  int64  `json:"createdAt"`
	LastSeen   int64  `json:"lastSeen"`
}

// CreateStream provisions a stream upstream. Failures surface once; there is
// no retry policy, the caller re-invokes manually.
func (client *GatewayClient) CreateStream(ctx context.Context, name string) (Stream, error) {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return Stream{}, fmt.Errorf("streaming: encode create request: %w", err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/stream", bytes.NewReader(payload))
	if err != nil {
		return Stream{}, fmt.Errorf("streaming: build create request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+client.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return Stream{}, fmt.Errorf("streaming: create stream: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return Stream{}, fmt.Errorf("streaming: create stream: unexpected status %d", response.StatusCode)
	}
	var remote gatewayStream
	if err := json.NewDecoder(response.Body).Decode(&remote); err != nil {
		return Stream{}, fmt.Errorf("streaming: decode create response: %w", err)
	}
	return toStream(remote), nil
}

// ListStreams fetches the account's streams from the gateway.
func (client *GatewayClient) ListStreams(ctx context.Context) ([]Stream, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/stream", nil)
	if err != nil {
		return nil, fmt.Errorf("streaming: build list request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+client.apiKey)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("streaming: list streams: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("streaming: list streams: unexpected status %d", response.StatusCode)
	}
	var remotes []gatewayStream
	if err := json.NewDecoder(response.Body).Decode(&remotes); err != nil {
		return nil, fmt.Errorf("streaming: decode list response: %w", err)
	}
	streams := make([]Stream, 0, len(remotes))
	for _, remote := range remotes {
		streams = append(streams, toStream(remote))
	}
	return streams, nil
}

func toStream(remote gatewayStream) Stream {
	stream := Stream{
		ID:         remote.ID,
		Name:       remote.Name,
		PlaybackID: remote.PlaybackID,
		StreamKey:  remote.StreamKey,
		IsActive:   remote.IsActive,
	}
	if remote.CreatedAt > 0 {
		stream.CreatedAt = time.UnixMilli(remote.CreatedAt).UTC().Format(time.RFC3339)
	}
	if remote.LastSeen > 0 {
		stream.LastSeen = time.UnixMilli(remote.LastSeen).UTC().Format(time.RFC3339)
	}
	return stream
}
