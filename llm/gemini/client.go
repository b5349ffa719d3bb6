// Package gemini implements the armstrong.LLMClient interface on top of the
// Gemini Developer API.
package gemini

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/lunarops/armstrong"
)

const DefaultModel = "gemini-2.5-flash-lite"

var (
	// geminiPromptScope is the logging scope for Gemini prompts
	geminiPromptScope = ctxlog.NewScope("gemini_prompt", ctxlog.EnabledBy("ARMSTRONG_LOGGING_GEMINI_PROMPT"))

	// geminiResponseScope is the logging scope for Gemini responses
	geminiResponseScope = ctxlog.NewScope("gemini_response", ctxlog.EnabledBy("ARMSTRONG_LOGGING_GEMINI_RESPONSE"))
)

// Client is a client for the Gemini API. It authenticates with an API key
// against the Gemini Developer backend.
type Client struct {
	client *genai.Client

	// defaultModel is the model to use for chat completions.
	// It can be overridden using WithModel option.
	defaultModel string

	// generationConfig contains the default generation parameters.
	generationConfig *genai.GenerateContentConfig
}

// Option is a configuration option for the Gemini client.
type Option func(*Client)

// WithModel sets the model to use for text generation.
// Default: DefaultModel.
func WithModel(model string) Option {
	return func(c *Client) {
		c.defaultModel = model
	}
}

// WithTemperature sets the temperature parameter for text generation.
func WithTemperature(temp float32) Option {
	return func(c *Client) {
		if c.generationConfig == nil {
			c.generationConfig = &genai.GenerateContentConfig{}
		}
		c.generationConfig.Temperature = &temp
	}
}

// New creates a new client for the Gemini Developer API.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.New("api key is required")
	}

	client := &Client{
		defaultModel: DefaultModel,
	}
	for _, opt := range options {
		opt(client)
	}

	newClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	client.client = newClient
	return client, nil
}

// NewSession creates a new session for the Gemini API.
// It converts the registered tools to Gemini's tool format.
func (c *Client) NewSession(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error) {
	cfg := armstrong.NewSessionConfig(options...)

	config := &genai.GenerateContentConfig{}
	if c.generationConfig != nil {
		*config = *c.generationConfig
	}

	if prompt := cfg.SystemPrompt(); prompt != "" {
		config.SystemInstruction = &genai.Content{
			Role:  "system",
			Parts: []*genai.Part{{Text: prompt}},
		}
	}

	if tools := cfg.Tools(); len(tools) > 0 {
		declarations := make([]*genai.FunctionDeclaration, len(tools))
		for i, tool := range tools {
			declarations[i] = convertTool(tool)
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	}

	history := cfg.History()
	if history == nil {
		history = armstrong.NewHistory()
	}

	return &Session{
		client:  c.client,
		model:   c.defaultModel,
		config:  config,
		history: history,
	}, nil
}

// Session is a session for the Gemini chat. It keeps the conversation in
// portable form and converts it to Gemini contents on every call.
type Session struct {
	client  *genai.Client
	model   string
	config  *genai.GenerateContentConfig
	history *armstrong.History
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
	contents, err := convertHistory(s.history)
	if err != nil {
		return nil, err
	}

	userContent, userMessages, err := convertInputs(input...)
	if err != nil {
		return nil, err
	}
	if userContent != nil {
		contents = append(contents, userContent)
	}

	promptLogger := ctxlog.From(ctx, geminiPromptScope)
	if promptLogger.Enabled(ctx, slog.LevelInfo) {
		promptLogger.Info("gemini prompt", slog.Int("contents", len(contents)), slog.String("model", s.model))
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, s.config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content", goerr.V("model", s.model))
	}

	response, assistantMessage, err := processResponse(resp)
	if err != nil {
		return nil, err
	}

	responseLogger := ctxlog.From(ctx, geminiResponseScope)
	if responseLogger.Enabled(ctx, slog.LevelInfo) {
		responseLogger.Info("gemini response",
			slog.Int("texts", len(response.Texts)),
			slog.Int("function_calls", len(response.FunctionCalls)),
		)
	}

	s.history = s.history.Append(userMessages...).Append(assistantMessage)
	return response, nil
}
