package armstrong

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// MessageRole represents the role of a message in a conversation.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// Message is one turn of a conversation in provider-neutral form.
type Message struct {
	Role MessageRole `json:"role"`
	Text string      `json:"text,omitempty"`

	// Calls holds tool invocations requested in an assistant message.
	Calls []FunctionCall `json:"calls,omitempty"`

	// Compacted marks a digest message produced by compaction.
	Compacted bool `json:"compacted,omitempty"`
}

// HistoryVersion is the schema version of serialized histories.
const HistoryVersion = 1

// History is a portable conversation history. Provider sessions convert it
// to their native message format on every call, so a history can be carried
// across sessions and compacted between steps.
type History struct {
	Version  int       `json:"version"`
	Messages []Message `json:"messages"`
}

// NewHistory returns an empty history with the current schema version.
func NewHistory() *History {
	return &History{Version: HistoryVersion}
}

// UnmarshalJSON implements json.Unmarshaler with version validation.
func (x *History) UnmarshalJSON(data []byte) error {
	type historyAlias History
	var h historyAlias
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}

	if h.Version != HistoryVersion {
		return goerr.Wrap(ErrInvalidHistory, "unsupported history version",
			goerr.V("got", h.Version),
			goerr.V("want", HistoryVersion),
		)
	}

	*x = History(h)
	return nil
}

// ToCount returns the number of messages in the history.
func (x *History) ToCount() int {
	if x == nil {
		return 0
	}
	return len(x.Messages)
}

// Clone returns a deep copy of the history.
func (x *History) Clone() *History {
	if x == nil {
		return nil
	}

	clone := &History{
		Version:  x.Version,
		Messages: make([]Message, len(x.Messages)),
	}
	for i, msg := range x.Messages {
		clone.Messages[i] = msg
		if len(msg.Calls) > 0 {
			clone.Messages[i].Calls = make([]FunctionCall, len(msg.Calls))
			copy(clone.Messages[i].Calls, msg.Calls)
		}
	}
	return clone
}

// Append returns a history with the messages added. The receiver is not
// modified.
func (x *History) Append(messages ...Message) *History {
	h := x.Clone()
	if h == nil {
		h = NewHistory()
	}
	h.Messages = append(h.Messages, messages...)
	return h
}

// CompactionPolicy bounds conversation history growth. After every Interval
// messages the older part of the history is squashed into a single digest
// message, keeping the last Overlap messages verbatim for continuity.
type CompactionPolicy struct {
	Interval int
	Overlap  int
}

// digestCharLimit caps the digest so repeated compactions stay bounded.
const digestCharLimit = 2000

// Apply compacts the history if it has reached the policy interval. It is a
// pure transform: the input history is never modified, and a new history is
// returned only when compaction actually happened.
func (p CompactionPolicy) Apply(history *History) *History {
	if history == nil || p.Interval <= 0 {
		return history
	}
	if history.ToCount() < p.Interval {
		return history
	}

	overlap := p.Overlap
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= history.ToCount() {
		return history
	}

	boundary := history.ToCount() - overlap
	digest := digestMessages(history.Messages[:boundary])

	compacted := &History{
		Version:  history.Version,
		Messages: make([]Message, 0, overlap+1),
	}
	compacted.Messages = append(compacted.Messages, digest)
	compacted.Messages = append(compacted.Messages, history.Messages[boundary:]...)
	return compacted
}

func digestMessages(messages []Message) Message {
	var sb strings.Builder
	sb.WriteString("Digest of earlier conversation:\n")
	for _, msg := range messages {
		line := msg.Text
		if msg.Compacted {
			// A previous digest folds into the new one without its header.
			line = strings.TrimPrefix(line, "Digest of earlier conversation:\n")
			sb.WriteString(line)
			sb.WriteString("\n")
			continue
		}
		if line == "" && len(msg.Calls) > 0 {
			line = "(tool call: " + msg.Calls[0].Name + ")"
		}
		sb.WriteString(string(msg.Role))
		sb.WriteString(": ")
		sb.WriteString(strings.ReplaceAll(line, "\n", " "))
		sb.WriteString("\n")
	}

	text := sb.String()
	if len(text) > digestCharLimit {
		text = "Digest of earlier conversation:\n..." + text[len(text)-digestCharLimit:]
	}

	return Message{
		Role:      RoleUser,
		Text:      text,
		Compacted: true,
	}
}
