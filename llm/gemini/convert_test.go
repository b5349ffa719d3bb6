package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"google.golang.org/genai"

	"github.com/lunarops/armstrong"
)

type stubTool struct {
	spec armstrong.ToolSpec
}

func (t *stubTool) Spec() armstrong.ToolSpec {
	return t.spec
}

func (t *stubTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	return nil, nil
}

func TestConvertTool(t *testing.T) {
	t.Run("full spec", func(t *testing.T) {
		tool := &stubTool{spec: armstrong.ToolSpec{
			Name:        "execute_maneuver",
			Description: "Executes a maneuver.",
			Parameters: map[string]*armstrong.Parameter{
				"action": {
					Type: armstrong.TypeString,
					Enum: []string{"HOLD", "MAIN_ENGINE"},
				},
				"duration": {
					Type:    armstrong.TypeInteger,
					Minimum: armstrong.Ptr(1.0),
					Maximum: armstrong.Ptr(10.0),
				},
			},
			Required: []string{"action", "duration"},
		}}

		decl := convertTool(tool)
		gt.Equal(t, decl.Name, "execute_maneuver")
		gt.Equal(t, decl.Parameters.Type, genai.TypeObject)
		gt.Equal(t, decl.Parameters.Required, []string{"action", "duration"})

		action := decl.Parameters.Properties["action"]
		gt.Equal(t, action.Type, genai.TypeString)
		gt.Equal(t, action.Enum, []string{"HOLD", "MAIN_ENGINE"})

		duration := decl.Parameters.Properties["duration"]
		gt.Equal(t, duration.Type, genai.TypeInteger)
		gt.Equal(t, *duration.Minimum, 1.0)
		gt.Equal(t, *duration.Maximum, 10.0)
	})

	t.Run("nil required becomes an empty slice", func(t *testing.T) {
		tool := &stubTool{spec: armstrong.ToolSpec{Name: "noop"}}
		decl := convertTool(tool)
		gt.NotNil(t, decl.Parameters.Required)
		gt.Equal(t, len(decl.Parameters.Required), 0)
	})
}

func TestConvertHistory(t *testing.T) {
	history := armstrong.NewHistory().Append(
		armstrong.Message{Role: armstrong.RoleUser, Text: "Altitude: 1.00."},
		armstrong.Message{Role: armstrong.RoleAssistant, Text: "Descend slowly."},
		armstrong.Message{Role: armstrong.RoleAssistant, Calls: []armstrong.FunctionCall{
			{ID: "call_1", Name: "execute_maneuver", Arguments: map[string]any{"action": "HOLD"}},
		}},
		armstrong.Message{Role: armstrong.RoleUser}, // empty, dropped
	)

	contents, err := convertHistory(history)
	gt.NoError(t, err)
	gt.Equal(t, len(contents), 3)

	gt.Equal(t, contents[0].Role, "user")
	gt.Equal(t, contents[0].Parts[0].Text, "Altitude: 1.00.")
	gt.Equal(t, contents[1].Role, "model")
	gt.Equal(t, contents[2].Parts[0].FunctionCall.Name, "execute_maneuver")

	t.Run("nil and empty histories convert to nothing", func(t *testing.T) {
		contents, err := convertHistory(nil)
		gt.NoError(t, err)
		gt.Nil(t, contents)

		contents, err = convertHistory(armstrong.NewHistory())
		gt.NoError(t, err)
		gt.Nil(t, contents)
	})
}

func TestConvertInputs(t *testing.T) {
	t.Run("text input", func(t *testing.T) {
		content, portable, err := convertInputs(armstrong.Text("Altitude: 1.00."))
		gt.NoError(t, err)
		gt.Equal(t, content.Role, "user")
		gt.Equal(t, content.Parts[0].Text, "Altitude: 1.00.")
		gt.Equal(t, len(portable), 1)
		gt.Equal(t, portable[0].Role, armstrong.RoleUser)
	})

	t.Run("function response input", func(t *testing.T) {
		content, portable, err := convertInputs(armstrong.FunctionResponse{
			ID:   "call_1",
			Name: "execute_maneuver",
			Data: map[string]any{"status": "success"},
		})
		gt.NoError(t, err)
		gt.Equal(t, content.Parts[0].FunctionResponse.Name, "execute_maneuver")
		gt.Equal(t, portable[0].Role, armstrong.RoleTool)
	})

	t.Run("function response error is forwarded", func(t *testing.T) {
		content, _, err := convertInputs(armstrong.FunctionResponse{
			ID:    "call_1",
			Name:  "execute_maneuver",
			Error: errors.New("engine offline"),
		})
		gt.NoError(t, err)
		_, ok := content.Parts[0].FunctionResponse.Response["error_message"]
		gt.True(t, ok)
	})
}

func TestProcessResponse(t *testing.T) {
	t.Run("text and tool call", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "Braking."},
						{FunctionCall: &genai.FunctionCall{
							Name: "execute_maneuver",
							Args: map[string]any{"action": "MAIN_ENGINE", "duration": float64(4)},
						}},
					},
				},
			}},
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
				PromptTokenCount:     12,
				CandidatesTokenCount: 7,
			},
		}

		response, message, err := processResponse(resp)
		gt.NoError(t, err)
		gt.Equal(t, response.Texts, []string{"Braking."})
		gt.Equal(t, len(response.FunctionCalls), 1)
		gt.Equal(t, response.FunctionCalls[0].Name, "execute_maneuver")
		gt.NotEqual(t, response.FunctionCalls[0].ID, "")
		gt.Equal(t, response.InputToken, 12)
		gt.Equal(t, response.OutputToken, 7)

		gt.Equal(t, message.Role, armstrong.RoleAssistant)
		gt.Equal(t, message.Text, "Braking.")
		gt.Equal(t, len(message.Calls), 1)
	})

	t.Run("empty response is an error", func(t *testing.T) {
		_, _, err := processResponse(&genai.GenerateContentResponse{})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, armstrong.ErrNoResponse))
	})
}
