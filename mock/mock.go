// Package mock provides hand-rolled test doubles for the armstrong LLM
// interfaces, in the style of moq generated code.
package mock

import (
	"context"

	"github.com/lunarops/armstrong"
)

// LLMClientMock is a mock implementation of armstrong.LLMClient.
type LLMClientMock struct {
	NewSessionFunc func(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error)

	NewSessionCalls int
}

var _ armstrong.LLMClient = (*LLMClientMock)(nil)

func (m *LLMClientMock) NewSession(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error) {
	m.NewSessionCalls++
	if m.NewSessionFunc == nil {
		return &SessionMock{}, nil
	}
	return m.NewSessionFunc(ctx, options...)
}

// SessionMock is a mock implementation of armstrong.Session.
type SessionMock struct {
	GenerateContentFunc func(ctx context.Context, input ...armstrong.Input) (*armstrong.Response, error)

	GenerateContentCalls int

	history *armstrong.History
}

var _ armstrong.Session = (*SessionMock)(nil)

func (m *SessionMock) GenerateContent(ctx context.Context, input ...armstrong.Input) (*armstrong.Response, error) {
	m.GenerateContentCalls++
	if m.GenerateContentFunc == nil {
		return &armstrong.Response{}, nil
	}
	return m.GenerateContentFunc(ctx, input...)
}

func (m *SessionMock) History() *armstrong.History {
	if m.history == nil {
		m.history = armstrong.NewHistory()
	}
	return m.history
}

func (m *SessionMock) SetHistory(history *armstrong.History) {
	m.history = history
}
