// Package xai streams chat completions from the xAI API through its
// OpenAI-compatible endpoint.
package xai

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
	"github.com/Forgate-Labs/Grok-CLI/internal/provider"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
)

const (
	// DefaultBaseURL is the xAI API root.
	DefaultBaseURL = "https://api.x.ai/v1"
	// DefaultModel is used when no model is configured.
	DefaultModel = "grok-4-fast-reasoning"
)

// Config configures a Provider.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float64
	MaxRetries  int
}

// Provider streams chat completions from xAI.
type Provider struct {
	client      openai.Client
	temperature *float64

	mu    sync.RWMutex
	model string
}

// New creates a Provider. An empty API key is an authentication error.
func New(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &provider.ProviderError{Code: provider.ErrorCodeAuth, Message: "XAI_API_KEY is not set"}
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(max(cfg.MaxRetries, 0)),
	}
	return &Provider{
		client:      openai.NewClient(opts...),
		temperature: cfg.Temperature,
		model:       model,
	}, nil
}

// Model returns the active model id.
func (p *Provider) Model() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

// SetModel changes the model used by subsequent requests.
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

// ListModels returns the model ids the key can use, sorted.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	iter := p.client.Models.ListAutoPaging(ctx)
	var ids []string
	for iter.Next() {
		ids = append(ids, iter.Current().ID)
	}
	if err := iter.Err(); err != nil {
		return nil, mapError(err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Stream starts a streaming chat completion.
func (p *Provider) Stream(ctx context.Context, req provider.Request) (provider.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = p.Model()
	}
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toMessages(req.Messages),
		Tools:    toTools(req.Tools),
		StreamOptions: openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		},
	}
	temperature := req.Temperature
	if temperature == nil {
		temperature = p.temperature
	}
	if temperature != nil {
		params.Temperature = openai.Float(*temperature)
	}

	logging.Debug("xai stream start", "model", model, "messages", len(req.Messages), "tools", len(req.Tools))
	return &chunkStream{stream: p.client.Chat.Completions.NewStreaming(ctx, params)}, nil
}

// chunkStream adapts the SDK's SSE stream to provider.Stream.
type chunkStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
}

func (s *chunkStream) Next() (provider.Chunk, error) {
	if !s.stream.Next() {
		if err := s.stream.Err(); err != nil {
			return provider.Chunk{}, mapError(err)
		}
		return provider.Chunk{}, io.EOF
	}
	return fromChunk(s.stream.Current()), nil
}

func (s *chunkStream) Close() error {
	return s.stream.Close()
}

// mapError converts SDK errors to provider errors. Context errors pass
// through unchanged so callers can detect cancellation.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return provider.FromStatus(apiErr.StatusCode, "xai request failed", err)
	}
	return &provider.ProviderError{Code: provider.ErrorCodeNetwork, Message: "network error", Underlying: err, Retryable: true}
}
