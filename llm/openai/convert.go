package openai

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/lunarops/armstrong"
)

// convertTool converts an armstrong.Tool to an OpenAI tool definition.
func convertTool(tool armstrong.Tool) openai.Tool {
	spec := tool.Spec()

	properties := make(map[string]map[string]any, len(spec.Parameters))
	for name, param := range spec.Parameters {
		prop := map[string]any{
			"type": string(param.Type),
		}
		if param.Description != "" {
			prop["description"] = param.Description
		}
		if len(param.Enum) > 0 {
			prop["enum"] = param.Enum
		}
		if param.Minimum != nil {
			prop["minimum"] = *param.Minimum
		}
		if param.Maximum != nil {
			prop["maximum"] = *param.Maximum
		}
		properties[name] = prop
	}

	parameters := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(spec.Required) > 0 {
		parameters["required"] = spec.Required
	}

	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  parameters,
		},
	}
}

// convertHistory converts the portable history to OpenAI chat messages.
func convertHistory(history *armstrong.History) []openai.ChatCompletionMessage {
	if history == nil || len(history.Messages) == 0 {
		return nil
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history.Messages))
	for _, msg := range history.Messages {
		switch msg.Role {
		case armstrong.RoleAssistant:
			m := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: msg.Text,
			}
			for _, call := range msg.Calls {
				args, err := json.Marshal(call.Arguments)
				if err != nil {
					continue
				}
				m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
					ID:   call.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: string(args),
					},
				})
			}
			messages = append(messages, m)

		default:
			if msg.Text == "" {
				continue
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: msg.Text,
			})
		}
	}
	return messages
}

// convertInputs converts inputs to OpenAI chat messages and to portable
// messages for the session history.
func convertInputs(input ...armstrong.Input) ([]openai.ChatCompletionMessage, []armstrong.Message, error) {
	var messages []openai.ChatCompletionMessage
	var portable []armstrong.Message

	for _, in := range input {
		switch v := in.(type) {
		case armstrong.Text:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: string(v),
			})
			portable = append(portable, armstrong.Message{Role: armstrong.RoleUser, Text: string(v)})

		case armstrong.FunctionResponse:
			data, err := json.Marshal(v.Data)
			if err != nil {
				return nil, nil, goerr.Wrap(err, "failed to marshal function response")
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    string(data),
				ToolCallID: v.ID,
			})
			portable = append(portable, armstrong.Message{Role: armstrong.RoleTool, Text: v.String()})

		default:
			return nil, nil, goerr.Wrap(armstrong.ErrInvalidParameter, "invalid input type for OpenAI")
		}
	}

	return messages, portable, nil
}

// processResponse converts an OpenAI response to the unified form plus the
// assistant message recorded in history.
func processResponse(resp *openai.ChatCompletionResponse) (*armstrong.Response, armstrong.Message, error) {
	if len(resp.Choices) == 0 {
		return nil, armstrong.Message{}, goerr.Wrap(armstrong.ErrNoResponse, "no choices in OpenAI response")
	}

	choice := resp.Choices[0].Message
	response := &armstrong.Response{
		InputToken:  resp.Usage.PromptTokens,
		OutputToken: resp.Usage.CompletionTokens,
	}
	message := armstrong.Message{Role: armstrong.RoleAssistant, Text: choice.Content}

	if choice.Content != "" {
		response.Texts = append(response.Texts, choice.Content)
	}

	for _, call := range choice.ToolCalls {
		var args map[string]any
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return nil, armstrong.Message{}, goerr.Wrap(err, "failed to unmarshal tool arguments",
					goerr.V("arguments", call.Function.Arguments))
			}
		}
		fc := &armstrong.FunctionCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: args,
		}
		response.FunctionCalls = append(response.FunctionCalls, fc)
		message.Calls = append(message.Calls, *fc)
	}

	if !response.HasData() {
		return nil, armstrong.Message{}, goerr.Wrap(armstrong.ErrNoResponse, "empty OpenAI response")
	}
	return response, message, nil
}
