// Package armstrong provides the agent abstractions for the lunar landing
// mission control demo: LLM clients and sessions, tool specifications,
// conversation history with compaction, and a retry policy for remote calls.
package armstrong

import (
	"context"
	"log/slog"
)

// LLMClient is a client for one LLM service. Implementations live under
// llm/ (gemini, claude, openai) plus a deterministic llm/offline client
// used when no API credential is configured.
type LLMClient interface {
	NewSession(ctx context.Context, options ...SessionOption) (Session, error)
}

// Session is a stateful conversation with an LLM. GenerateContent sends the
// inputs together with the accumulated history and records the exchange.
type Session interface {
	GenerateContent(ctx context.Context, input ...Input) (*Response, error)

	// History returns the portable conversation history of the session.
	History() *History

	// SetHistory replaces the session history, e.g. with a compacted one.
	SetHistory(history *History)
}

// FunctionCall is a tool invocation requested by the model.
type FunctionCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Response is a unified response type across LLM providers.
type Response struct {
	Texts         []string
	FunctionCalls []*FunctionCall
	InputToken    int
	OutputToken   int
}

// HasData reports whether the response carries any text or function call.
func (r *Response) HasData() bool {
	return len(r.Texts) > 0 || len(r.FunctionCalls) > 0
}

// Text returns all text parts joined, which is the usual way to consume an
// advisory response.
func (r *Response) Text() string {
	switch len(r.Texts) {
	case 0:
		return ""
	case 1:
		return r.Texts[0]
	}
	out := r.Texts[0]
	for _, t := range r.Texts[1:] {
		out += "\n" + t
	}
	return out
}

// Input is a prompt element for GenerateContent.
type Input interface {
	isInput() restrictedValue
	LogValue() slog.Value
	String() string
}

type restrictedValue struct{}

// Text is a plain text input.
// Usage:
//
//	input := armstrong.Text("telemetry report")
type Text string

func (t Text) isInput() restrictedValue {
	return restrictedValue{}
}

func (t Text) LogValue() slog.Value {
	return slog.StringValue(string(t))
}

func (t Text) String() string {
	return string(t)
}

// FunctionResponse is the result of a tool execution, sent back to the model.
type FunctionResponse struct {
	ID    string
	Name  string
	Data  map[string]any
	Error error
}

func (f FunctionResponse) isInput() restrictedValue {
	return restrictedValue{}
}

func (f FunctionResponse) String() string {
	if f.Error != nil {
		return f.Name + " (error: " + f.Error.Error() + ")"
	}
	return f.Name + " (success)"
}

func (f FunctionResponse) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("id", f.ID),
		slog.String("name", f.Name),
	}
	if f.Data != nil {
		attrs = append(attrs, slog.Any("data", f.Data))
	}
	if f.Error != nil {
		attrs = append(attrs, slog.String("error", f.Error.Error()))
	}
	return slog.GroupValue(attrs...)
}
