package gemini

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Forgate-Labs/Grok-CLI/internal/provider"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func drain(t *testing.T, s provider.Stream) ([]provider.Chunk, error) {
	t.Helper()
	defer s.Close()
	var out []provider.Chunk
	for {
		c, err := s.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
}

func TestStream_TextAndUsage(t *testing.T) {
	mc := &mockClient{responses: []*genai.GenerateContentResponse{
		{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: "Hel"}}}}}},
		{
			Candidates:    []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: "lo 😀"}, {Text: "hmm", Thought: true}}}, FinishReason: genai.FinishReasonStop}},
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 4, CandidatesTokenCount: 3, TotalTokenCount: 7},
		},
	}}
	p := New(mc, "", nil)

	s, err := p.Stream(context.Background(), provider.Request{Messages: []provider.Message{
		{Role: provider.RoleSystem, Content: "sys"},
		{Role: provider.RoleUser, Content: "hi"},
	}})
	require.NoError(t, err)
	chunks, err := drain(t, s)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "Hel", provider.DecodeUTF16(chunks[0].Text))
	assert.Equal(t, "lo 😀", provider.DecodeUTF16(chunks[1].Text))
	assert.Equal(t, "hmm", chunks[1].Reasoning)
	assert.Equal(t, "stop", chunks[1].FinishReason)
	assert.Equal(t, &provider.Usage{PromptTokens: 4, CompletionTokens: 3, TotalTokens: 7}, chunks[1].Usage)

	assert.Equal(t, DefaultModel, mc.lastModel)
	require.NotNil(t, mc.lastConfig.SystemInstruction)
	assert.Equal(t, "sys", mc.lastConfig.SystemInstruction.Parts[0].Text)
	require.Len(t, mc.lastInput, 1)
	assert.Equal(t, "user", mc.lastInput[0].Role)
}

func TestStream_FunctionCallsGetIDsAndIndexes(t *testing.T) {
	mc := &mockClient{responses: []*genai.GenerateContentResponse{
		{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
			{FunctionCall: &genai.FunctionCall{Name: "search", Args: map[string]any{"pattern": "x"}}},
			{FunctionCall: &genai.FunctionCall{ID: "given", Name: "workflow_done", Args: map[string]any{}}},
		}}}}},
	}}
	p := New(mc, "gemini-test", nil)

	s, err := p.Stream(context.Background(), provider.Request{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "go"}},
		Tools:    []tool.Declaration{{Name: "search", Parameters: &tool.Schema{Type: tool.TypeObject, Properties: map[string]*tool.Schema{"pattern": {Type: tool.TypeString}}}}},
	})
	require.NoError(t, err)
	rs := s.(*responseStream)
	rs.newID = func() string { return "generated" }

	chunks, err := drain(t, s)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, []provider.ToolCallDelta{
		{Index: 0, ID: "generated", Name: "search", Arguments: `{"pattern":"x"}`},
		{Index: 1, ID: "given", Name: "workflow_done", Arguments: `{}`},
	}, chunks[0].ToolCalls)

	require.Len(t, mc.lastConfig.Tools, 1)
	fd := mc.lastConfig.Tools[0].FunctionDeclarations[0]
	assert.Equal(t, "search", fd.Name)
	assert.Equal(t, genai.TypeObject, fd.Parameters.Type)
	assert.Equal(t, genai.TypeString, fd.Parameters.Properties["pattern"].Type)
}

func TestStream_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		mc := &mockClient{streamErr: genai.APIError{Code: 429, Message: "slow down"}}
		s, err := New(mc, "", nil).Stream(context.Background(), provider.Request{})
		require.NoError(t, err)
		_, err = drain(t, s)
		assert.ErrorIs(t, err, provider.ErrRateLimit)
		assert.True(t, provider.IsRetryable(err))
	})

	t.Run("safety block", func(t *testing.T) {
		mc := &mockClient{responses: []*genai.GenerateContentResponse{
			{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}},
		}}
		s, err := New(mc, "", nil).Stream(context.Background(), provider.Request{})
		require.NoError(t, err)
		_, err = drain(t, s)
		assert.ErrorIs(t, err, provider.ErrContentBlocked)
	})

	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(&mockClient{}, "", nil).Stream(ctx, provider.Request{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestToGeminiContents_ToolRoundTrip(t *testing.T) {
	system, contents := toGeminiContents([]provider.Message{
		{Role: provider.RoleUser, Content: "find x"},
		{Role: provider.RoleAssistant, ToolCalls: []provider.ToolCall{{ID: "c1", Name: "search", Arguments: `{"pattern":"x"}`}}},
		{Role: provider.RoleTool, ToolCallID: "c1", Name: "search", Content: `{"success":true}`},
		{Role: provider.RoleTool, ToolCallID: "c2", Name: "run_command", Content: "plain text"},
	})
	assert.Nil(t, system)
	require.Len(t, contents, 4)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, map[string]any{"pattern": "x"}, contents[1].Parts[0].FunctionCall.Args)
	assert.Equal(t, map[string]any{"success": true}, contents[2].Parts[0].FunctionResponse.Response)
	assert.Equal(t, map[string]any{"content": "plain text"}, contents[3].Parts[0].FunctionResponse.Response)
}

func TestModels(t *testing.T) {
	p := New(&mockClient{models: []string{"gemini-b", "gemini-a"}}, "", nil)
	ids, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini-a", "gemini-b"}, ids)

	require.NoError(t, p.SetModel("gemini-a"))
	assert.Equal(t, "gemini-a", p.Model())
	assert.Error(t, p.SetModel(" "))
}

func TestKeepModel(t *testing.T) {
	assert.True(t, keepModel("models/gemini-2.5-pro"))
	assert.False(t, keepModel("models/gemini-embedding-001"))
	assert.False(t, keepModel("models/imagen-3"))
}
