package xai

import (
	"github.com/Forgate-Labs/Grok-CLI/internal/provider"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
	"github.com/openai/openai-go"
)

// reasoningField is the non-standard delta field carrying reasoning text.
const reasoningField = "reasoning_content"

func toMessages(msgs []provider.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case provider.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case provider.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case provider.RoleTool:
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		case provider.RoleAssistant:
			asst := openai.ChatCompletionAssistantMessageParam{}
			if m.Content != "" {
				asst.Content.OfString = openai.String(m.Content)
			}
			for _, tc := range m.ToolCalls {
				asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &asst})
		}
	}
	return out
}

func toTools(decls []tool.Declaration) []openai.ChatCompletionToolParam {
	if len(decls) == 0 {
		return nil
	}
	out := make([]openai.ChatCompletionToolParam, 0, len(decls))
	for _, d := range decls {
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        d.Name,
				Description: openai.String(d.Description),
				Parameters:  openai.FunctionParameters(d.Parameters.Map()),
			},
		})
	}
	return out
}

func fromChunk(c openai.ChatCompletionChunk) provider.Chunk {
	var out provider.Chunk
	if c.Usage.TotalTokens > 0 {
		out.Usage = &provider.Usage{
			PromptTokens:     int(c.Usage.PromptTokens),
			CompletionTokens: int(c.Usage.CompletionTokens),
			TotalTokens:      int(c.Usage.TotalTokens),
		}
	}
	if len(c.Choices) == 0 {
		return out
	}
	choice := c.Choices[0]
	delta := choice.Delta
	out.FinishReason = choice.FinishReason

	// The raw JSON keeps unpaired surrogate escapes that the decoded string loses.
	if units, err := provider.DecodeJSONStringUTF16(delta.JSON.Content.Raw()); err == nil && units != nil {
		out.Text = units
	} else if delta.Content != "" {
		out.Text = provider.EncodeUTF16(delta.Content)
	}

	if f, ok := delta.JSON.ExtraFields[reasoningField]; ok {
		if units, err := provider.DecodeJSONStringUTF16(f.Raw()); err == nil {
			out.Reasoning = provider.DecodeUTF16(units)
		}
	}

	for _, tc := range delta.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, provider.ToolCallDelta{
			Index:     int(tc.Index),
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out
}
