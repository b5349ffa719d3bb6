package gemini

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/lunarops/armstrong"
)

// convertTool converts an armstrong.Tool to a Gemini function declaration.
func convertTool(tool armstrong.Tool) *genai.FunctionDeclaration {
	spec := tool.Spec()

	// Gemini requires an empty slice, not nil.
	required := spec.Required
	if required == nil {
		required = []string{}
	}

	parameters := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema),
		Required:   required,
	}
	for name, param := range spec.Parameters {
		parameters.Properties[name] = convertParameter(param)
	}

	return &genai.FunctionDeclaration{
		Name:        spec.Name,
		Description: spec.Description,
		Parameters:  parameters,
	}
}

func convertParameter(param *armstrong.Parameter) *genai.Schema {
	schema := &genai.Schema{
		Type:        getGeminiType(param.Type),
		Description: param.Description,
	}

	if len(param.Enum) > 0 {
		schema.Enum = param.Enum
	}

	if param.Type == armstrong.TypeNumber || param.Type == armstrong.TypeInteger {
		if param.Minimum != nil {
			minVal := *param.Minimum
			schema.Minimum = &minVal
		}
		if param.Maximum != nil {
			maxVal := *param.Maximum
			schema.Maximum = &maxVal
		}
	}

	return schema
}

func getGeminiType(paramType armstrong.ParameterType) genai.Type {
	switch paramType {
	case armstrong.TypeNumber:
		return genai.TypeNumber
	case armstrong.TypeInteger:
		return genai.TypeInteger
	case armstrong.TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// convertHistory converts the portable history to Gemini contents.
func convertHistory(history *armstrong.History) ([]*genai.Content, error) {
	if history == nil || len(history.Messages) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(history.Messages))
	for _, msg := range history.Messages {
		role := "user"
		if msg.Role == armstrong.RoleAssistant {
			role = "model"
		}

		var parts []*genai.Part
		if msg.Text != "" {
			parts = append(parts, &genai.Part{Text: msg.Text})
		}
		for _, call := range msg.Calls {
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					Name: call.Name,
					Args: call.Arguments,
				},
			})
		}
		if len(parts) == 0 {
			continue
		}

		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	return contents, nil
}

// convertInputs converts inputs to one Gemini user content, and to portable
// messages for the session history.
func convertInputs(input ...armstrong.Input) (*genai.Content, []armstrong.Message, error) {
	var parts []*genai.Part
	var messages []armstrong.Message

	for _, in := range input {
		switch v := in.(type) {
		case armstrong.Text:
			parts = append(parts, &genai.Part{Text: string(v)})
			messages = append(messages, armstrong.Message{Role: armstrong.RoleUser, Text: string(v)})

		case armstrong.FunctionResponse:
			response := v.Data
			if v.Error != nil {
				response = map[string]any{
					"error_message": fmt.Sprintf("%+v", v.Error),
				}
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     v.Name,
					Response: response,
				},
			})
			messages = append(messages, armstrong.Message{Role: armstrong.RoleTool, Text: v.String()})

		default:
			return nil, nil, goerr.Wrap(armstrong.ErrInvalidParameter, "invalid input type for Gemini")
		}
	}

	if len(parts) == 0 {
		return nil, nil, nil
	}
	return &genai.Content{Role: "user", Parts: parts}, messages, nil
}

// processResponse converts a Gemini response to the unified form plus the
// assistant message recorded in history.
func processResponse(resp *genai.GenerateContentResponse) (*armstrong.Response, armstrong.Message, error) {
	response := &armstrong.Response{}
	message := armstrong.Message{Role: armstrong.RoleAssistant}

	if resp.UsageMetadata != nil {
		response.InputToken = int(resp.UsageMetadata.PromptTokenCount)
		response.OutputToken = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				response.Texts = append(response.Texts, part.Text)
				if message.Text != "" {
					message.Text += "\n"
				}
				message.Text += part.Text
			}
			if part.FunctionCall != nil {
				fc := &armstrong.FunctionCall{
					ID:        fmt.Sprintf("%s_%d", part.FunctionCall.Name, time.Now().UnixNano()),
					Name:      part.FunctionCall.Name,
					Arguments: part.FunctionCall.Args,
				}
				response.FunctionCalls = append(response.FunctionCalls, fc)
				message.Calls = append(message.Calls, *fc)
			}
		}
	}

	if !response.HasData() {
		return nil, armstrong.Message{}, goerr.Wrap(armstrong.ErrNoResponse, "empty Gemini response")
	}
	return response, message, nil
}
