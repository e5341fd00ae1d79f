package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/provider"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
	"google.golang.org/genai"
)

// toGeminiContents splits system messages into a system instruction and
// converts the rest. Tool results are sent as function responses.
func toGeminiContents(msgs []provider.Message) (*genai.Content, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Role == provider.RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		if c := messageToGeminiContent(msg); c != nil {
			contents = append(contents, c)
		}
	}
	if len(system) == 0 {
		return nil, contents
	}
	return genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser), contents
}

func messageToGeminiContent(msg provider.Message) *genai.Content {
	switch msg.Role {
	case provider.RoleTool:
		var response map[string]any
		if err := json.Unmarshal([]byte(msg.Content), &response); err != nil {
			response = map[string]any{"content": msg.Content}
		}
		return &genai.Content{
			Role: string(genai.RoleUser),
			Parts: []*genai.Part{{
				FunctionResponse: &genai.FunctionResponse{ID: msg.ToolCallID, Name: msg.Name, Response: response},
			}},
		}
	case provider.RoleAssistant:
		parts := make([]*genai.Part, 0, len(msg.ToolCalls)+1)
		if msg.Content != "" {
			parts = append(parts, genai.NewPartFromText(msg.Content))
		}
		for _, tc := range msg.ToolCalls {
			var args map[string]any
			if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
				args = map[string]any{}
			}
			parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: args}})
		}
		if len(parts) == 0 {
			return nil
		}
		return &genai.Content{Role: string(genai.RoleModel), Parts: parts}
	default:
		if msg.Content == "" {
			return nil
		}
		return genai.NewContentFromText(msg.Content, genai.RoleUser)
	}
}

// defaultSafetySettings returns safety settings with blocking off for all categories.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdOff},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdOff},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdOff},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdOff},
	}
}

func toGeminiTools(decls []tool.Declaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}
	fds := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fd := &genai.FunctionDeclaration{Name: d.Name, Description: d.Description}
		if d.Parameters != nil {
			fd.Parameters = toGeminiSchema(d.Parameters)
		}
		fds = append(fds, fd)
	}
	return []*genai.Tool{{FunctionDeclarations: fds}}
}

func toGeminiSchema(s *tool.Schema) *genai.Schema {
	out := &genai.Schema{
		Type:        toGeminiType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	if s.Items != nil {
		out.Items = toGeminiSchema(s.Items)
	}
	return out
}

func toGeminiType(t tool.Type) genai.Type {
	switch t {
	case tool.TypeString:
		return genai.TypeString
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	case tool.TypeArray:
		return genai.TypeArray
	case tool.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func (s *responseStream) fromResponse(resp *genai.GenerateContentResponse) (provider.Chunk, error) {
	var out provider.Chunk
	if u := resp.UsageMetadata; u != nil && u.TotalTokenCount > 0 {
		out.Usage = &provider.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	if len(resp.Candidates) == 0 {
		return out, nil
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return provider.Chunk{}, &provider.ProviderError{Code: provider.ErrorCodeContentBlocked, Message: "content blocked by safety filters"}
	}
	out.FinishReason = strings.ToLower(string(candidate.FinishReason))
	if candidate.Content == nil {
		return out, nil
	}

	var text, reasoning strings.Builder
	for _, part := range candidate.Content.Parts {
		switch {
		case part.FunctionCall != nil:
			args, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				return provider.Chunk{}, &provider.ProviderError{Code: provider.ErrorCodeStream, Message: "invalid function call arguments", Underlying: err}
			}
			id := part.FunctionCall.ID
			if id == "" {
				id = s.newID()
			}
			out.ToolCalls = append(out.ToolCalls, provider.ToolCallDelta{
				Index:     s.callIndex,
				ID:        id,
				Name:      part.FunctionCall.Name,
				Arguments: string(args),
			})
			s.callIndex++
		case part.Thought:
			reasoning.WriteString(part.Text)
		case part.Text != "":
			text.WriteString(part.Text)
		}
	}
	if text.Len() > 0 {
		out.Text = provider.EncodeUTF16(text.String())
	}
	out.Reasoning = reasoning.String()
	return out, nil
}

// mapGeminiError maps Gemini API errors to provider errors.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return provider.FromStatus(apiErr.Code, fmt.Sprintf("gemini request failed: %s", apiErr.Message), err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return provider.FromStatus(apiErrPtr.Code, fmt.Sprintf("gemini request failed: %s", apiErrPtr.Message), err)
	}
	return &provider.ProviderError{Code: provider.ErrorCodeNetwork, Message: "network error", Underlying: err, Retryable: true}
}
