package armstrong

// SessionConfig holds the per-session settings shared by all LLM providers.
// It is constructed from SessionOption values inside NewSession.
type SessionConfig struct {
	systemPrompt string
	tools        []Tool
	history      *History
}

// SessionOption configures a new session.
type SessionOption func(*SessionConfig)

// NewSessionConfig creates a SessionConfig from the given options.
func NewSessionConfig(options ...SessionOption) SessionConfig {
	var cfg SessionConfig
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// SystemPrompt returns the system prompt for the session.
func (c *SessionConfig) SystemPrompt() string { return c.systemPrompt }

// Tools returns the tools available to the session.
func (c *SessionConfig) Tools() []Tool { return c.tools }

// History returns the initial history for the session, or nil.
func (c *SessionConfig) History() *History { return c.history }

// WithSessionSystemPrompt sets the system prompt of the session.
func WithSessionSystemPrompt(prompt string) SessionOption {
	return func(c *SessionConfig) {
		c.systemPrompt = prompt
	}
}

// WithSessionTools registers tools callable by the model in this session.
func WithSessionTools(tools ...Tool) SessionOption {
	return func(c *SessionConfig) {
		c.tools = append(c.tools, tools...)
	}
}

// WithSessionHistory restores a previous conversation history.
func WithSessionHistory(history *History) SessionOption {
	return func(c *SessionConfig) {
		c.history = history
	}
}
