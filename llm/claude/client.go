// Package claude implements the armstrong.LLMClient interface on top of the
// Anthropic Claude API.
package claude

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"

	"github.com/lunarops/armstrong"
)

// generationParameters represents the parameters for text generation.
type generationParameters struct {
	// Temperature controls randomness in the output.
	Temperature float64

	// MaxTokens limits the number of tokens to generate.
	MaxTokens int64
}

// Client is a client for the Claude API.
type Client struct {
	client *anthropic.Client

	// defaultModel is the model to use for chat completions.
	// It can be overridden using WithModel option.
	defaultModel anthropic.Model

	params generationParameters
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithModel sets the default model to use for chat completions.
func WithModel(model string) Option {
	return func(c *Client) {
		c.defaultModel = anthropic.Model(model)
	}
}

// WithTemperature sets the temperature parameter for text generation.
// Range: 0.0 to 1.0. Default: 0.7
func WithTemperature(temp float64) Option {
	return func(c *Client) {
		c.params.Temperature = temp
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
// Default: 1024
func WithMaxTokens(maxTokens int64) Option {
	return func(c *Client) {
		c.params.MaxTokens = maxTokens
	}
}

// New creates a new client for the Claude API.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.New("api key is required")
	}

	client := &Client{
		defaultModel: anthropic.ModelClaude3_5SonnetLatest,
		params: generationParameters{
			Temperature: 0.7,
			MaxTokens:   1024,
		},
	}
	for _, opt := range options {
		opt(client)
	}

	newClient := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	client.client = &newClient

	return client, nil
}

// NewSession creates a new session for the Claude API.
// It converts the registered tools to Claude's tool format.
func (c *Client) NewSession(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error) {
	cfg := armstrong.NewSessionConfig(options...)

	tools := cfg.Tools()
	claudeTools := make([]anthropic.ToolUnionParam, len(tools))
	for i, tool := range tools {
		claudeTools[i] = convertTool(tool)
	}

	history := cfg.History()
	if history == nil {
		history = armstrong.NewHistory()
	}

	return &Session{
		client:       c.client,
		defaultModel: c.defaultModel,
		systemPrompt: cfg.SystemPrompt(),
		tools:        claudeTools,
		params:       c.params,
		history:      history,
	}, nil
}

// Session is a session for the Claude chat.
type Session struct {
	client       *anthropic.Client
	defaultModel anthropic.Model
	systemPrompt string
	tools        []anthropic.ToolUnionParam
	params       generationParameters
	history      *armstrong.History
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

// GenerateContent sends the inputs with the accumulated history and records
// the exchange in the session history.
func (s *Session) GenerateContent(ctx context.Context, input ...armstrong.Input) (*armstrong.Response, error) {
	messages, err := convertHistory(s.history)
	if err != nil {
		return nil, err
	}

	userMessages, portable, err := convertInputs(input...)
	if err != nil {
		return nil, err
	}
	messages = append(messages, userMessages...)

	params := anthropic.MessageNewParams{
		Model:       s.defaultModel,
		MaxTokens:   s.params.MaxTokens,
		Temperature: anthropic.Float(s.params.Temperature),
		Messages:    messages,
	}
	if len(s.tools) > 0 {
		params.Tools = s.tools
	}
	if s.systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: s.systemPrompt}}
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create message", goerr.V("model", s.defaultModel))
	}

	response, assistantMessage, err := processResponse(resp)
	if err != nil {
		return nil, err
	}

	s.history = s.history.Append(portable...).Append(assistantMessage)
	return response, nil
}
