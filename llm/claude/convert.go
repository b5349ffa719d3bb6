package claude

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/m-mizutani/goerr/v2"

	"github.com/lunarops/armstrong"
)

// convertTool converts an armstrong.Tool to a Claude tool definition.
func convertTool(tool armstrong.Tool) anthropic.ToolUnionParam {
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

	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        spec.Name,
			Description: anthropic.String(spec.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: properties,
				Required:   spec.Required,
			},
		},
	}
}

// convertHistory converts the portable history to Claude messages.
func convertHistory(history *armstrong.History) ([]anthropic.MessageParam, error) {
	if history == nil || len(history.Messages) == 0 {
		return nil, nil
	}

	messages := make([]anthropic.MessageParam, 0, len(history.Messages))
	for _, msg := range history.Messages {
		switch msg.Role {
		case armstrong.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Text))
			}
			for _, call := range msg.Calls {
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, call.Arguments, call.Name))
			}
			if len(blocks) == 0 {
				continue
			}
			messages = append(messages, anthropic.NewAssistantMessage(blocks...))

		default:
			// User, system digest and tool-result turns all replay as
			// user messages.
			if msg.Text == "" {
				continue
			}
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text)))
		}
	}
	return messages, nil
}

// convertInputs converts inputs to Claude messages and to portable messages
// for the session history.
func convertInputs(input ...armstrong.Input) ([]anthropic.MessageParam, []armstrong.Message, error) {
	var messages []anthropic.MessageParam
	var portable []armstrong.Message
	var toolResults []anthropic.ContentBlockParamUnion

	for _, in := range input {
		switch v := in.(type) {
		case armstrong.Text:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(string(v))))
			portable = append(portable, armstrong.Message{Role: armstrong.RoleUser, Text: string(v)})

		case armstrong.FunctionResponse:
			data, err := json.Marshal(v.Data)
			if err != nil {
				return nil, nil, goerr.Wrap(err, "failed to marshal function response")
			}
			toolResults = append(toolResults, anthropic.NewToolResultBlock(v.ID, string(data), v.Error != nil))
			portable = append(portable, armstrong.Message{Role: armstrong.RoleTool, Text: v.String()})

		default:
			return nil, nil, goerr.Wrap(armstrong.ErrInvalidParameter, "invalid input type for Claude")
		}
	}

	if len(toolResults) > 0 {
		messages = append(messages, anthropic.NewUserMessage(toolResults...))
	}

	return messages, portable, nil
}

// processResponse converts a Claude response to the unified form plus the
// assistant message recorded in history.
func processResponse(resp *anthropic.Message) (*armstrong.Response, armstrong.Message, error) {
	response := &armstrong.Response{
		InputToken:  int(resp.Usage.InputTokens),
		OutputToken: int(resp.Usage.OutputTokens),
	}
	message := armstrong.Message{Role: armstrong.RoleAssistant}

	for _, content := range resp.Content {
		switch block := content.AsAny().(type) {
		case anthropic.TextBlock:
			response.Texts = append(response.Texts, block.Text)
			if message.Text != "" {
				message.Text += "\n"
			}
			message.Text += block.Text

		case anthropic.ToolUseBlock:
			var args map[string]any
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					return nil, armstrong.Message{}, goerr.Wrap(err, "failed to unmarshal tool arguments")
				}
			}
			fc := &armstrong.FunctionCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			}
			response.FunctionCalls = append(response.FunctionCalls, fc)
			message.Calls = append(message.Calls, *fc)
		}
	}

	if !response.HasData() {
		return nil, armstrong.Message{}, goerr.Wrap(armstrong.ErrNoResponse, "empty Claude response")
	}
	return response, message, nil
}
