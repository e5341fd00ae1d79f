package gemini

import (
	"context"
	"iter"
	"strings"

	"google.golang.org/genai"
)

// Client is the slice of the Gemini SDK the provider needs.
type Client interface {
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
	ListModels(ctx context.Context) ([]string, error)
}

// SDKClient wraps the official SDK client to satisfy Client.
type SDKClient struct {
	client *genai.Client
}

// NewSDKClient creates a Gemini API client for apiKey.
func NewSDKClient(ctx context.Context, apiKey string) (*SDKClient, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &SDKClient{client: c}, nil
}

func (c *SDKClient) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	return c.client.Models.GenerateContentStream(ctx, model, contents, config)
}

// ListModels returns chat-capable gemini-* model ids without the "models/"
// prefix, excluding embedding, image, audio, live and robotic variants.
func (c *SDKClient) ListModels(ctx context.Context) ([]string, error) {
	var ids []string
	for model, err := range c.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		if keepModel(model.Name) {
			ids = append(ids, strings.TrimPrefix(model.Name, "models/"))
		}
	}
	return ids, nil
}

func keepModel(name string) bool {
	if !strings.HasPrefix(name, "models/gemini-") {
		return false
	}
	for _, skip := range []string{"embedding", "image", "audio", "live", "robotic"} {
		if strings.Contains(name, skip) {
			return false
		}
	}
	return true
}
