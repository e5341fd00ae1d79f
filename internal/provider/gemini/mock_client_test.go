package gemini

import (
	"context"
	"errors"
	"iter"

	"google.golang.org/genai"
)

// mockClient is a mock implementation of Client for testing.
type mockClient struct {
	responses  []*genai.GenerateContentResponse
	streamErr  error
	models     []string
	lastModel  string
	lastConfig *genai.GenerateContentConfig
	lastInput  []*genai.Content
}

func (m *mockClient) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	m.lastModel, m.lastInput, m.lastConfig = model, contents, config
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, r := range m.responses {
			if !yield(r, nil) {
				return
			}
		}
		if m.streamErr != nil {
			yield(nil, m.streamErr)
		}
	}
}

func (m *mockClient) ListModels(ctx context.Context) ([]string, error) {
	if m.models == nil {
		return nil, errors.New("ListModels not set")
	}
	return m.models, nil
}
