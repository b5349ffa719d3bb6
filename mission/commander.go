package mission

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"

	"github.com/lunarops/armstrong"
	"github.com/lunarops/armstrong/maneuver"
)

// Commander is the tactical pilot: it turns telemetry plus the Navigator's
// advice into a validated Maneuver through a single tool call. Whatever the
// model answers, Decide always returns a safe, well-formed Maneuver.
type Commander struct {
	session armstrong.Session
	checker *armstrong.ArgumentChecker
	logger  *slog.Logger
}

// NewCommander creates a Commander on the given LLM client with the
// execute_maneuver tool registered.
func NewCommander(ctx context.Context, client armstrong.LLMClient, backoff armstrong.BackoffPolicy, logger *slog.Logger) (*Commander, error) {
	tool := &ManeuverTool{}

	checker, err := armstrong.NewArgumentChecker(tool.Spec())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile maneuver tool schema")
	}

	session, err := client.NewSession(ctx,
		armstrong.WithSessionSystemPrompt(commanderPrompt),
		armstrong.WithSessionTools(tool),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create commander session")
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Commander{
		session: armstrong.WithRetry(session, backoff),
		checker: checker,
		logger:  logger,
	}, nil
}

// Decide requests a maneuver decision. Malformed tool arguments are
// corrected by the validator; a missing tool call or an exhausted retry
// budget degrades to the HOLD fallback. Decide never returns an error.
func (c *Commander) Decide(ctx context.Context, telemetry, advice string) maneuver.Maneuver {
	prompt := fmt.Sprintf(commanderQuery, telemetry, advice)

	resp, err := c.session.GenerateContent(ctx, armstrong.Text(prompt))
	if err != nil {
		c.logger.Warn("commander call failed, using HOLD fallback", slog.Any("error", err))
		return maneuver.Fallback()
	}

	call := c.firstManeuverCall(resp)
	if call == nil {
		c.logger.Warn("commander produced no tool call, using HOLD fallback")
		return maneuver.Fallback()
	}

	if err := c.checker.Check(call.Arguments); err != nil {
		c.logger.Warn("commander tool arguments failed schema check, correcting",
			slog.Any("error", err),
			slog.Any("arguments", call.Arguments),
		)
	}

	return maneuver.FromArgs(call.Arguments)
}

// firstManeuverCall extracts the first execute_maneuver call from the
// response.
func (c *Commander) firstManeuverCall(resp *armstrong.Response) *armstrong.FunctionCall {
	for _, call := range resp.FunctionCalls {
		if call.Name == ManeuverToolName {
			return call
		}
		c.logger.Warn("commander called unknown tool, ignoring", slog.String("name", call.Name))
	}
	return nil
}
