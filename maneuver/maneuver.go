// Package maneuver defines the validated action vocabulary of the lander.
// A Maneuver is the only thing ever applied to the simulator: whatever the
// model proposes is corrected here first, so malformed tool output can not
// reach the environment.
package maneuver

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Action is one of the four lander actions.
type Action string

const (
	Hold        Action = "HOLD"
	MainEngine  Action = "MAIN_ENGINE"
	LeftEngine  Action = "LEFT_ENGINE"
	RightEngine Action = "RIGHT_ENGINE"
)

// Actions lists all valid actions.
func Actions() []Action {
	return []Action{MainEngine, LeftEngine, RightEngine, Hold}
}

// ActionNames lists all valid action names, for tool schema enums.
func ActionNames() []string {
	actions := Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return names
}

// ParseAction matches an action name case-insensitively. Unrecognized
// values report ok=false.
func ParseAction(s string) (Action, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Hold):
		return Hold, true
	case string(MainEngine):
		return MainEngine, true
	case string(LeftEngine):
		return LeftEngine, true
	case string(RightEngine):
		return RightEngine, true
	}
	return Hold, false
}

// EnvCode returns the low-level simulator action code.
func (a Action) EnvCode() int {
	switch a {
	case RightEngine:
		return 1
	case MainEngine:
		return 2
	case LeftEngine:
		return 3
	default:
		return 0
	}
}

// Duration bounds in simulator frames.
const (
	MinDuration = 1
	MaxDuration = 10
)

// Maneuver is a validated (action, duration) pair. Reasoning is carried for
// observability only.
type Maneuver struct {
	Action    Action `json:"action"`
	Duration  int    `json:"duration"`
	Reasoning string `json:"reasoning,omitempty"`
}

// Fallback is the safe default maneuver used when no valid decision is
// available.
func Fallback() Maneuver {
	return Maneuver{Action: Hold, Duration: MinDuration, Reasoning: "fallback"}
}

// Validate corrects a candidate maneuver. It is total and idempotent: any
// input yields a well-formed Maneuver, and a valid Maneuver passes through
// unchanged.
func Validate(m Maneuver) Maneuver {
	action, ok := ParseAction(string(m.Action))
	if !ok {
		action = Hold
	}

	duration := m.Duration
	if duration < MinDuration {
		duration = MinDuration
	}
	if duration > MaxDuration {
		duration = MaxDuration
	}

	return Maneuver{Action: action, Duration: duration, Reasoning: m.Reasoning}
}

// FromArgs builds a corrected Maneuver from raw tool call arguments.
// Unknown actions map to HOLD, non-numeric durations default to the
// minimum, and out-of-range durations are clamped.
func FromArgs(args map[string]any) Maneuver {
	m := Maneuver{
		Action:   Hold,
		Duration: MinDuration,
	}

	if v, ok := args["action"].(string); ok {
		m.Action = Action(strings.ToUpper(strings.TrimSpace(v)))
	}
	if d, ok := numericArg(args["duration"]); ok {
		m.Duration = d
	}
	if r, ok := args["reasoning"].(string); ok {
		m.Reasoning = r
	}

	return Validate(m)
}

func numericArg(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}
