package gemini

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// Provider holds the current Client and allows it to be swapped at runtime
// when the API key changes. A nil client means the backend is unconfigured.
type Provider struct {
	mu     sync.RWMutex
	client Client
}

// NewProvider creates a Provider holding the given client (may be nil).
func NewProvider(client Client) *Provider {
	return &Provider{client: client}
}

// Set replaces the current client. Passing nil marks the backend unavailable.
func (p *Provider) Set(client Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
}

// GenerateText forwards to the current client, or ErrUnavailable if none is set.
func (p *Provider) GenerateText(ctx context.Context, parts []*genai.Part, cfg *genai.GenerateContentConfig) (string, error) {
	client := p.get()
	if client == nil {
		return "", ErrUnavailable
	}
	return client.GenerateText(ctx, parts, cfg)
}

// UploadAudio forwards to the current client, or ErrUnavailable if none is set.
func (p *Provider) UploadAudio(ctx context.Context, path string) (*genai.Part, error) {
	client := p.get()
	if client == nil {
		return nil, ErrUnavailable
	}
	return client.UploadAudio(ctx, path)
}

func (p *Provider) get() Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}
