// Package offline is a deterministic, credential-free stand-in for a remote
// LLM. It implements armstrong.LLMClient with a rule-based landing policy,
// so the whole mission pipeline works without network access: sessions with
// a registered tool produce maneuver function calls, sessions without one
// produce advisory text.
package offline

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/lunarops/armstrong"
)

// FallbackAdvice is returned when the prompt carries no readable telemetry.
const FallbackAdvice = "Telemetry unreadable. Hold attitude and descend slowly."

// Client is the offline LLM client.
type Client struct{}

var _ armstrong.LLMClient = (*Client)(nil)

// New creates an offline client.
func New() *Client {
	return &Client{}
}

// NewSession creates a new offline session.
func (c *Client) NewSession(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error) {
	cfg := armstrong.NewSessionConfig(options...)

	history := cfg.History()
	if history == nil {
		history = armstrong.NewHistory()
	}

	var toolName string
	if tools := cfg.Tools(); len(tools) > 0 {
		toolName = tools[0].Spec().Name
	}

	return &Session{
		toolName: toolName,
		history:  history,
	}, nil
}

// Session is a deterministic offline session.
type Session struct {
	toolName string
	history  *armstrong.History
}

func (s *Session) History() *armstrong.History {
	return s.history
}

func (s *Session) SetHistory(history *armstrong.History) {
	if history == nil {
		history = armstrong.NewHistory()
	}
	s.history = history
}

// GenerateContent derives a response from the telemetry embedded in the
// prompt text. It never fails.
func (s *Session) GenerateContent(ctx context.Context, input ...armstrong.Input) (*armstrong.Response, error) {
	var sb strings.Builder
	var userMessages []armstrong.Message
	for _, in := range input {
		if text, ok := in.(armstrong.Text); ok {
			sb.WriteString(string(text))
			sb.WriteString("\n")
			userMessages = append(userMessages, armstrong.Message{
				Role: armstrong.RoleUser,
				Text: string(text),
			})
		}
	}
	prompt := sb.String()

	telemetry, parsed := ParseTelemetry(prompt)

	var response *armstrong.Response
	assistant := armstrong.Message{Role: armstrong.RoleAssistant}

	if s.toolName != "" {
		m := Decide(telemetry)
		if !parsed {
			m.Reasoning = "telemetry unreadable, holding"
		}
		call := armstrong.FunctionCall{
			ID:   "offline_" + uuid.NewString(),
			Name: s.toolName,
			Arguments: map[string]any{
				"action":    string(m.Action),
				"duration":  m.Duration,
				"reasoning": m.Reasoning,
			},
		}
		response = &armstrong.Response{FunctionCalls: []*armstrong.FunctionCall{&call}}
		assistant.Calls = append(assistant.Calls, call)
	} else {
		advice := FallbackAdvice
		if parsed {
			advice = Advise(telemetry)
		}
		response = &armstrong.Response{Texts: []string{advice}}
		assistant.Text = advice
	}

	s.history = s.history.Append(userMessages...).Append(assistant)
	return response, nil
}
