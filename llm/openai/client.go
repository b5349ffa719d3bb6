// Package openai implements the armstrong.LLMClient interface on top of the
// OpenAI chat completion API.
package openai

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/lunarops/armstrong"
)

const DefaultModel = "gpt-4o-mini"

var (
	// openaiPromptScope is the logging scope for OpenAI prompts
	openaiPromptScope = ctxlog.NewScope("openai_prompt", ctxlog.EnabledBy("ARMSTRONG_LOGGING_OPENAI_PROMPT"))

	// openaiResponseScope is the logging scope for OpenAI responses
	openaiResponseScope = ctxlog.NewScope("openai_response", ctxlog.EnabledBy("ARMSTRONG_LOGGING_OPENAI_RESPONSE"))
)

// generationParameters represents the parameters for text generation.
type generationParameters struct {
	// Temperature controls randomness in the output.
	Temperature float32

	// MaxTokens limits the number of tokens to generate.
	MaxTokens int
}

// Client is a client for the OpenAI API.
type Client struct {
	client *openai.Client

	// defaultModel is the model to use for chat completions.
	// It can be overridden using WithModel option.
	defaultModel string

	params generationParameters
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithModel sets the default model to use for chat completions.
func WithModel(model string) Option {
	return func(c *Client) {
		c.defaultModel = model
	}
}

// WithTemperature sets the temperature parameter for text generation.
func WithTemperature(temp float32) Option {
	return func(c *Client) {
		c.params.Temperature = temp
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(maxTokens int) Option {
	return func(c *Client) {
		c.params.MaxTokens = maxTokens
	}
}

// New creates a new client for the OpenAI API.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.New("api key is required")
	}

	client := &Client{
		defaultModel: DefaultModel,
		params: generationParameters{
			Temperature: 0.7,
		},
	}
	for _, opt := range options {
		opt(client)
	}

	client.client = openai.NewClient(apiKey)
	return client, nil
}

// NewSession creates a new session for the OpenAI API.
// It converts the registered tools to OpenAI's tool format.
func (c *Client) NewSession(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error) {
	cfg := armstrong.NewSessionConfig(options...)

	tools := cfg.Tools()
	openaiTools := make([]openai.Tool, len(tools))
	for i, tool := range tools {
		openaiTools[i] = convertTool(tool)
	}

	history := cfg.History()
	if history == nil {
		history = armstrong.NewHistory()
	}

	return &Session{
		client:       c.client,
		defaultModel: c.defaultModel,
		systemPrompt: cfg.SystemPrompt(),
		tools:        openaiTools,
		params:       c.params,
		history:      history,
	}, nil
}

// Session is a session for the OpenAI chat.
type Session struct {
	client       *openai.Client
	defaultModel string
	systemPrompt string
	tools        []openai.Tool
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
	var messages []openai.ChatCompletionMessage
	if s.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: s.systemPrompt,
		})
	}
	messages = append(messages, convertHistory(s.history)...)

	userMessages, portable, err := convertInputs(input...)
	if err != nil {
		return nil, err
	}
	messages = append(messages, userMessages...)

	req := openai.ChatCompletionRequest{
		Model:       s.defaultModel,
		Messages:    messages,
		Temperature: s.params.Temperature,
		MaxTokens:   s.params.MaxTokens,
	}
	if len(s.tools) > 0 {
		req.Tools = s.tools
	}

	promptLogger := ctxlog.From(ctx, openaiPromptScope)
	if promptLogger.Enabled(ctx, slog.LevelInfo) {
		promptLogger.Info("openai prompt", slog.Int("messages", len(messages)), slog.String("model", s.defaultModel))
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create chat completion", goerr.V("model", s.defaultModel))
	}

	response, assistantMessage, err := processResponse(&resp)
	if err != nil {
		return nil, err
	}

	responseLogger := ctxlog.From(ctx, openaiResponseScope)
	if responseLogger.Enabled(ctx, slog.LevelInfo) {
		responseLogger.Info("openai response",
			slog.Int("texts", len(response.Texts)),
			slog.Int("function_calls", len(response.FunctionCalls)),
		)
	}

	s.history = s.history.Append(portable...).Append(assistantMessage)
	return response, nil
}
