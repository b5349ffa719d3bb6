package mission

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"

	"github.com/lunarops/armstrong"
)

// FallbackAdvice is the fixed advisory substituted when every retry against
// the remote model failed.
const FallbackAdvice = "Advisory link down. Stabilize attitude, then descend slowly toward the pad."

// Navigator is the strategic advisor: it turns a telemetry report into
// free-text advice, keeping the flight trend in its session history. The
// session memory is bounded by a compaction policy applied after each call.
type Navigator struct {
	session    armstrong.Session
	compaction armstrong.CompactionPolicy
	logger     *slog.Logger
}

// NewNavigator creates a Navigator on the given LLM client. Remote calls
// are retried per the backoff policy; exhausted retries degrade to
// FallbackAdvice instead of failing the mission.
func NewNavigator(ctx context.Context, client armstrong.LLMClient, backoff armstrong.BackoffPolicy, compaction armstrong.CompactionPolicy, logger *slog.Logger) (*Navigator, error) {
	session, err := client.NewSession(ctx,
		armstrong.WithSessionSystemPrompt(navigatorPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create navigator session")
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Navigator{
		session:    armstrong.WithRetry(session, backoff),
		compaction: compaction,
		logger:     logger,
	}, nil
}

// Advise sends the telemetry report and returns the model's advice. A
// failed remote call is logged and masked with FallbackAdvice.
func (n *Navigator) Advise(ctx context.Context, telemetry string) string {
	resp, err := n.session.GenerateContent(ctx, armstrong.Text(telemetry))

	n.compactHistory()

	if err != nil {
		n.logger.Warn("navigator call failed, using fallback advice", slog.Any("error", err))
		return FallbackAdvice
	}

	advice := resp.Text()
	if advice == "" {
		n.logger.Warn("navigator returned no text, using fallback advice")
		return FallbackAdvice
	}
	return advice
}

// History exposes the navigator's session history.
func (n *Navigator) History() *armstrong.History {
	return n.session.History()
}

func (n *Navigator) compactHistory() {
	before := n.session.History()
	after := n.compaction.Apply(before)
	if after != before {
		n.logger.Debug("navigator history compacted",
			slog.Int("before", before.ToCount()),
			slog.Int("after", after.ToCount()),
		)
		n.session.SetHistory(after)
	}
}
