// Package gemini streams generations from Google Gemini.
package gemini

import (
	"context"
	"io"
	"iter"
	"sort"
	"strings"
	"sync"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
	"github.com/Forgate-Labs/Grok-CLI/internal/provider"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Provider implements streaming generation for Gemini.
type Provider struct {
	client      Client
	temperature *float64

	mu    sync.RWMutex
	model string
}

// New creates a Provider. An empty model uses DefaultModel.
func New(client Client, model string, temperature *float64) *Provider {
	if client == nil {
		panic("client is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Provider{client: client, model: strings.TrimSpace(model), temperature: temperature}
}

func (p *Provider) Model() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

func (p *Provider) SetModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return &provider.ProviderError{Code: provider.ErrorCodeInvalidModel, Message: "model cannot be empty"}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = model
	return nil
}

func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	ids, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, mapGeminiError(err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Stream starts a streaming generation.
func (p *Provider) Stream(ctx context.Context, req provider.Request) (provider.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = p.Model()
	}
	system, contents := toGeminiContents(req.Messages)
	config := &genai.GenerateContentConfig{
		SafetySettings:    defaultSafetySettings(),
		SystemInstruction: system,
		Tools:             toGeminiTools(req.Tools),
	}
	temperature := req.Temperature
	if temperature == nil {
		temperature = p.temperature
	}
	if temperature != nil {
		t := float32(*temperature)
		config.Temperature = &t
	}

	logging.Debug("gemini stream start", "model", model, "contents", len(contents))
	next, stop := iter.Pull2(p.client.GenerateContentStream(ctx, model, contents, config))
	return &responseStream{next: next, stop: stop, newID: uuid.NewString}, nil
}

// responseStream turns Gemini responses into provider chunks. Gemini sends
// each function call whole and without an id, so every call gets its own
// index and a generated id.
type responseStream struct {
	next      func() (*genai.GenerateContentResponse, error, bool)
	stop      func()
	newID     func() string
	callIndex int
}

func (s *responseStream) Next() (provider.Chunk, error) {
	resp, err, ok := s.next()
	if !ok {
		return provider.Chunk{}, io.EOF
	}
	if err != nil {
		return provider.Chunk{}, mapGeminiError(err)
	}
	return s.fromResponse(resp)
}

func (s *responseStream) Close() error {
	s.stop()
	return nil
}
